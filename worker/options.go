package worker

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/duratask/worker-go/converter"
	im "github.com/duratask/worker-go/internal/metrics"
	"github.com/duratask/worker-go/metrics"
)

type Options struct {
	Logger *slog.Logger

	Metrics metrics.Client

	TracerProvider trace.TracerProvider

	// Converter serializes and deserializes user payloads and failure
	// envelopes. Defaults to converter.DefaultConverter.
	Converter converter.Converter

	// ReconnectInterval is the fixed wait between connection attempts, both
	// during start-up and after a stream failure. Defaults to 5 seconds.
	ReconnectInterval time.Duration

	Clock clock.Clock
}

type Option func(*Options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithMetrics(client metrics.Client) Option {
	return func(o *Options) {
		o.Metrics = client
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}

func WithConverter(c converter.Converter) Option {
	return func(o *Options) {
		o.Converter = c
	}
}

func WithReconnectInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.ReconnectInterval = interval
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

func defaultOptions() *Options {
	return &Options{
		Logger:            slog.Default(),
		Metrics:           im.NewNoopMetricsClient(),
		TracerProvider:    noop.NewTracerProvider(),
		Converter:         converter.DefaultConverter,
		ReconnectInterval: 5 * time.Second,
		Clock:             clock.New(),
	}
}
