package telemetry

import (
	"context"
	"strings"
	"testing"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("HONEYCOMB_BATTLEKIT_API_KEY", "key")
	t.Setenv("BATTLEKIT_TRACE_SAMPLE_RATIO", "0.25")

	o, err := OptionsFromEnv()
	if err != nil {
		t.Fatalf("OptionsFromEnv() error: %v", err)
	}
	if o.Endpoint != "https://api.honeycomb.io/v1/traces" {
		t.Errorf("Endpoint = %q", o.Endpoint)
	}
	if o.Dataset != "battlekit" {
		t.Errorf("Dataset = %q, want battlekit", o.Dataset)
	}
	if o.SampleRatio != 0.25 {
		t.Errorf("SampleRatio = %v, want 0.25", o.SampleRatio)
	}

	h := o.headers()
	if h["x-honeycomb-team"] != "key" || h["x-honeycomb-dataset"] != "battlekit" {
		t.Errorf("headers() = %v", h)
	}
}

func TestOptionsFromEnvInvalid(t *testing.T) {
	t.Setenv("BATTLEKIT_TRACE_SAMPLE_RATIO", "lots")
	if _, err := OptionsFromEnv(); err == nil {
		t.Error("OptionsFromEnv() should fail on a bad ratio")
	}
}

func TestHeadersWithoutKey(t *testing.T) {
	if h := (Options{Dataset: "battlekit"}).headers(); h != nil {
		t.Errorf("headers() = %v, want nil", h)
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"https://api.honeycomb.io/v1/traces", "https://api.honeycomb.io/v1/traces"},
		{"https://api.honeycomb.io", "https://api.honeycomb.io/v1/traces"},
		{"https://api.honeycomb.io/", "https://api.honeycomb.io/v1/traces"},
		{"http://localhost:4318", "http://localhost:4318/v1/traces"},
		{"http://collector:4318/custom/traces", "http://collector:4318/custom/traces"},
	}
	for _, tt := range tests {
		got, err := Options{Endpoint: tt.endpoint}.endpointURL()
		if err != nil {
			t.Errorf("endpointURL(%q) error: %v", tt.endpoint, err)
			continue
		}
		if got != tt.want {
			t.Errorf("endpointURL(%q) = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}

func TestEndpointURLDefault(t *testing.T) {
	o, err := OptionsFromEnv()
	if err != nil {
		t.Fatalf("OptionsFromEnv() error: %v", err)
	}
	got, err := o.endpointURL()
	if err != nil {
		t.Fatalf("endpointURL() error: %v", err)
	}
	if got != "https://api.honeycomb.io/v1/traces" {
		t.Errorf("default endpoint = %q", got)
	}
}

func TestEndpointURLInvalid(t *testing.T) {
	for _, endpoint := range []string{"api.honeycomb.io", "://nohost"} {
		if _, err := (Options{Endpoint: endpoint}).endpointURL(); err == nil {
			t.Errorf("endpointURL(%q) should fail", endpoint)
		}
		if _, err := (Options{Endpoint: endpoint}).exporterOptions(); err == nil {
			t.Errorf("exporterOptions(%q) should fail", endpoint)
		}
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{1, "AlwaysOnSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		got := Options{SampleRatio: tt.ratio}.sampler().Description()
		if !strings.Contains(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want it to contain %q", tt.ratio, got, tt.want)
		}
	}
}

func TestNoopTracer(t *testing.T) {
	_, span := NoopTracer().Start(context.Background(), "battle.turn")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Error("noop span should have an invalid span context")
	}
}
