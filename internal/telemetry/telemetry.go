// Package telemetry provides OpenTelemetry tracing of battles, exported to
// Honeycomb over OTLP HTTP.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "battlekit"
	serviceVersion = "0.1.0"
)

// Options configures the trace exporter.
type Options struct {
	Endpoint string `env:"BATTLEKIT_OTLP_ENDPOINT" envDefault:"https://api.honeycomb.io/v1/traces"`
	APIKey   string `env:"HONEYCOMB_BATTLEKIT_API_KEY"`
	Dataset  string `env:"HONEYCOMB_BATTLEKIT_DATASET" envDefault:"battlekit"`

	// SampleRatio is the fraction of battle traces kept. Large batches
	// produce a trace per battle.
	SampleRatio float64 `env:"BATTLEKIT_TRACE_SAMPLE_RATIO" envDefault:"1"`
}

// OptionsFromEnv reads Options from the environment.
func OptionsFromEnv() (Options, error) {
	var o Options
	if err := env.Parse(&o); err != nil {
		return o, fmt.Errorf("parse telemetry env: %w", err)
	}
	return o, nil
}

// headers returns the Honeycomb auth headers, empty without an API key.
func (o Options) headers() map[string]string {
	if o.APIKey == "" {
		return nil
	}
	return map[string]string{
		"x-honeycomb-team":    o.APIKey,
		"x-honeycomb-dataset": o.Dataset,
	}
}

func (o Options) sampler() sdktrace.Sampler {
	ratio := o.SampleRatio
	switch {
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// tracesPath is the OTLP/HTTP traces route. WithEndpointURL posts to the URL
// path as given, so a bare host gets it appended.
const tracesPath = "/v1/traces"

// endpointURL resolves Endpoint to the URL the exporter posts to.
func (o Options) endpointURL() (string, error) {
	u, err := url.Parse(o.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse otlp endpoint %q: %w", o.Endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("otlp endpoint %q: want scheme://host[/path]", o.Endpoint)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = tracesPath
	}
	return u.String(), nil
}

func (o Options) exporterOptions() ([]otlptracehttp.Option, error) {
	opts := []otlptracehttp.Option{}
	if o.Endpoint != "" {
		endpoint, err := o.endpointURL()
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracehttp.WithEndpointURL(endpoint))
	}
	if h := o.headers(); h != nil {
		opts = append(opts, otlptracehttp.WithHeaders(h))
	}
	return opts, nil
}

// Setup installs a global tracer provider exporting battle traces.
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, o Options) (shutdown func(context.Context) error, err error) {
	exporterOpts, err := o.exporterOptions()
	if err != nil {
		return nil, err
	}
	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	// Own resource without merging Default() to avoid schema URL conflicts
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(o.sampler()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for a component (battle, executor).
// Tracers taken before Setup follow the provider it installs.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a no-op tracer for tests and for runs with telemetry disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
