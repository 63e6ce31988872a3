// Package resource provides the per-actor pool of named, capped counters
// (Fury, Combustion, Ichor, ...).
package resource

import "math"

// Name identifies a custom resource. Names are a closed set so call sites
// cannot drift apart through typos.
type Name string

const (
	Fury          Name = "fury"
	Combustion    Name = "combustion"
	ScorchedEarth Name = "scorched_earth"
	Ichor         Name = "ichor"
	RoyalDecree   Name = "royal_decree"
	SaiyanPower   Name = "saiyan_power"
	Shield        Name = "shield"
)

// Resource is a snapshot of one counter.
type Resource struct {
	Name  Name
	Value float64
	Cap   float64
}

// Pool holds the resources of one actor. The pool keeps no cap table: each
// Add supplies the ceiling for that write.
type Pool struct {
	entries map[Name]*Resource
	order   []Name
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{entries: make(map[Name]*Resource)}
}

// Add changes a resource by amount, clamped to [0, cap], and returns the new
// value. Negative amounts decay the resource. A cap lower than the current
// value pulls the value down to it.
func (p *Pool) Add(name Name, amount, ceiling float64) float64 {
	if math.IsNaN(ceiling) || ceiling < 0 {
		ceiling = 0
	}
	r := p.entry(name)
	r.Cap = ceiling
	if math.IsNaN(amount) {
		amount = 0
	}
	r.Value = clamp(r.Value+amount, 0, ceiling)
	return r.Value
}

// Consume removes up to amount and returns what was actually removed.
// The resource never goes negative.
func (p *Pool) Consume(name Name, amount float64) float64 {
	if !(amount > 0) {
		return 0
	}
	r, ok := p.entries[name]
	if !ok {
		return 0
	}
	taken := min(amount, r.Value)
	r.Value -= taken
	return taken
}

// Get returns the current value, or 0 if the resource was never set.
func (p *Pool) Get(name Name) float64 {
	if r, ok := p.entries[name]; ok {
		return r.Value
	}
	return 0
}

// Cap returns the ceiling from the most recent Add, or 0 if unset.
func (p *Pool) Cap(name Name) float64 {
	if r, ok := p.entries[name]; ok {
		return r.Cap
	}
	return 0
}

// Reset sets a resource back to zero, keeping its last cap.
func (p *Pool) Reset(name Name) {
	if r, ok := p.entries[name]; ok {
		r.Value = 0
	}
}

// Snapshot returns every resource in first-write order.
func (p *Pool) Snapshot() []Resource {
	result := make([]Resource, 0, len(p.order))
	for _, name := range p.order {
		result = append(result, *p.entries[name])
	}
	return result
}

func (p *Pool) entry(name Name) *Resource {
	r, ok := p.entries[name]
	if !ok {
		r = &Resource{Name: name}
		p.entries[name] = r
		p.order = append(p.order, name)
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
