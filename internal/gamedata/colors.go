package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ElementDef defines an element tag and the color its cues are drawn in.
type ElementDef struct {
	ID    string `yaml:"id"`    // Unique identifier (e.g., "fire")
	Name  string `yaml:"name"`  // Display name (e.g., "Fire")
	Color string `yaml:"color"` // Hex color code (e.g., "#FF4500")
}

// TCellColor returns the color as a tcell.Color.
func (e *ElementDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// ElementsFile represents the structure of elements.yaml.
type ElementsFile struct {
	Elements []ElementDef `yaml:"elements"`
}

// LoadElements loads element definitions from the embedded elements.yaml file.
func LoadElements() ([]ElementDef, error) {
	file, err := Load[ElementsFile]("elements.yaml")
	if err != nil {
		return nil, err
	}
	return file.Elements, nil
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	// Remove leading # if present
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	// Parse RGB components
	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid red component in %s: %w", hex, err)
	}

	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid green component in %s: %w", hex, err)
	}

	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid blue component in %s: %w", hex, err)
	}

	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}
