// Package observability configures the process-wide logger. Console output
// always goes to stderr; when the standard OTEL_* environment variables are
// set, records are additionally exported through an OpenTelemetry log
// pipeline so CLI runs inside instrumented environments (CI, containers)
// land in the collector.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "notegate"

// Instrument installs the default slog logger with the given minimum level
// and output format (text or json).
func Instrument(level slog.Level, format string) error {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unsupported log format: %s", format)
	}

	if otelConfigured() {
		provider, err := newLoggerProvider(context.Background(), level)
		if err != nil {
			return fmt.Errorf("setting up OpenTelemetry log export: %w", err)
		}
		handler = fanout{handler, otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider))}
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// otelConfigured reports whether the operator opted into OTel export via the
// standard environment variables.
func otelConfigured() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT") != "" ||
		os.Getenv("OTEL_LOGS_EXPORTER") != ""
}

func newLoggerProvider(ctx context.Context, level slog.Level) (*sdklog.LoggerProvider, error) {
	exporter, err := newExporter(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), severity(level))
	return sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(processor),
	), nil
}

// newExporter honors OTEL_LOGS_EXPORTER=console for local debugging and
// OTEL_EXPORTER_OTLP_PROTOCOL for transport selection (grpc default).
func newExporter(ctx context.Context) (sdklog.Exporter, error) {
	if os.Getenv("OTEL_LOGS_EXPORTER") == "console" {
		return stdoutlog.New(stdoutlog.WithWriter(os.Stderr))
	}

	switch os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL") {
	case "http/protobuf", "http/json":
		return otlploghttp.New(ctx)
	default:
		return otlploggrpc.New(ctx)
	}
}

func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}

// fanout delivers every record to all handlers. The pack offers no slog
// fan-out helper, so this stays local.
type fanout []slog.Handler

var _ slog.Handler = fanout{}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
