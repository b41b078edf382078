package tutor

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wubrg/tutor/internal/observability"
	"github.com/wubrg/tutor/internal/registry"
)

// ObservabilityConfig enables OpenTelemetry tracing and metrics for a
// Service. The zero value disables everything.
type ObservabilityConfig struct {
	// TracerProvider emits spans for compile, search, and count
	// operations. Nil disables tracing.
	TracerProvider trace.TracerProvider
	// MeterProvider emits compile, cache, and search metrics. Nil
	// disables metrics.
	MeterProvider metric.MeterProvider
	// ServiceName identifies this service in telemetry. Defaults to
	// "tutor".
	ServiceName string
	// ServiceVersion is attached to telemetry when set.
	ServiceVersion string
	// EnableQueryText records raw query text on spans. Queries can
	// carry user-identifying text, so this is opt-in.
	EnableQueryText bool
	// EnableDBTracing adds spans around the SQL statements a search
	// executes.
	EnableDBTracing bool
}

// Option configures compilation and, for Service, execution.
type Option func(*config)

type config struct {
	registry  *Registry
	dialect   Dialect
	perFace   bool
	logger    *slog.Logger
	cacheSize int
	obs       *ObservabilityConfig
}

// newConfig applies opts over the defaults. The dialect stays empty
// here: pure compilation defaults it to PostgreSQL while a Service
// infers it from the database driver.
func newConfig(opts ...Option) *config {
	cfg := &config{registry: registry.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRegistry substitutes a custom field registry for the default
// one. Nil registries are ignored.
func WithRegistry(reg *Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}

// WithDialect pins the SQL dialect compiled fragments target. A
// Service otherwise infers the dialect from its database driver;
// pure compilation defaults to PostgreSQL.
func WithDialect(dialect Dialect) Option {
	return func(cfg *config) {
		cfg.dialect = dialect
	}
}

// WithPerFaceColorEquality makes multi-symbol color equality match
// individual card faces instead of the card-level color union.
func WithPerFaceColorEquality() Option {
	return func(cfg *config) {
		cfg.perFace = true
	}
}

// WithLogger sets the structured logger a Service logs through.
// Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithCacheSize bounds the compiled-query cache of a Service. Zero or
// negative sizes keep the default bound.
func WithCacheSize(size int) Option {
	return func(cfg *config) {
		cfg.cacheSize = size
	}
}

// WithObservability enables OpenTelemetry instrumentation on a
// Service. Compilation itself stays pure; only the Service records
// telemetry.
func WithObservability(obs ObservabilityConfig) Option {
	return func(cfg *config) {
		cfg.obs = &obs
	}
}

// buildObservability maps the public config onto the internal one and
// initializes providers.
func buildObservability(cfg ObservabilityConfig) (*observability.Config, error) {
	opts := make([]observability.Option, 0, 6)
	if cfg.TracerProvider != nil {
		opts = append(opts, observability.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, observability.WithMeterProvider(cfg.MeterProvider))
	}
	if cfg.ServiceName != "" {
		opts = append(opts, observability.WithServiceName(cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		opts = append(opts, observability.WithServiceVersion(cfg.ServiceVersion))
	}
	if cfg.EnableQueryText {
		opts = append(opts, observability.WithQueryText())
	}
	if cfg.EnableDBTracing {
		opts = append(opts, observability.WithDBTracing())
	}
	built := observability.NewConfig(opts...)
	if err := built.Initialize(); err != nil {
		return nil, err
	}
	return built, nil
}
