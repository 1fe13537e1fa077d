// Package observability installs the process-wide slog logger. Logs go to stderr
// as text or JSON, or through the OpenTelemetry log SDK when format is otlp.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Log formats accepted by Instrument.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatOTLP = "otlp"
)

const (
	serviceName       = "gsc"
	instrumentationID = "github.com/florianilch/gsc-cli"
)

// ShutdownFunc flushes and releases logging resources.
type ShutdownFunc func(context.Context) error

type options struct {
	writer io.Writer
	getenv func(string) string
}

// Option configures Instrument.
type Option func(*options)

// WithWriter sets the log destination for text, json and the stdout fallback
// exporter. Defaults to stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithGetenv sets the environment lookup used to choose the OTLP exporter.
func WithGetenv(getenv func(string) string) Option {
	return func(o *options) {
		o.getenv = getenv
	}
}

// Instrument installs the default slog logger at the given level. Every record
// carries a run_id identifying this invocation.
func Instrument(ctx context.Context, level slog.Level, format string, opts ...Option) (ShutdownFunc, error) {
	o := options{writer: os.Stderr, getenv: os.Getenv}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		handler  slog.Handler
		shutdown ShutdownFunc = func(context.Context) error { return nil }
	)

	switch strings.ToLower(format) {
	case FormatText, "":
		handler = slog.NewTextHandler(o.writer, &slog.HandlerOptions{Level: level})
	case FormatJSON:
		handler = slog.NewJSONHandler(o.writer, &slog.HandlerOptions{Level: level})
	case FormatOTLP:
		provider, err := newLoggerProvider(ctx, level, o)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger provider: %w", err)
		}
		global.SetLoggerProvider(provider)

		// SDK errors must not recurse into the logger they come from
		errWriter := o.writer
		otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
			_, _ = fmt.Fprintf(errWriter, "opentelemetry: %v\n", err)
		}))

		handler = otelslog.NewHandler(instrumentationID, otelslog.WithLoggerProvider(provider))
		shutdown = provider.Shutdown
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	slog.SetDefault(slog.New(handler).With("run_id", uuid.NewString()))
	return shutdown, nil
}

func newLoggerProvider(ctx context.Context, level slog.Level, o options) (*sdklog.LoggerProvider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	var processor sdklog.Processor
	switch {
	case o.getenv("OTEL_EXPORTER_OTLP_PROTOCOL") == "grpc":
		exporter, err := otlploggrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp grpc exporter: %w", err)
		}
		processor = sdklog.NewBatchProcessor(exporter)
	case o.getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" || o.getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT") != "":
		exporter, err := otlploghttp.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp http exporter: %w", err)
		}
		processor = sdklog.NewBatchProcessor(exporter)
	default:
		exporter, err := stdoutlog.New(stdoutlog.WithWriter(o.writer))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		processor = sdklog.NewSimpleProcessor(exporter)
	}

	return sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(minsev.NewLogProcessor(processor, severity(level))),
	), nil
}

// severity maps a slog level onto the closest OpenTelemetry severity.
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

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("invalid log level " + s + " (expected debug|info|warn|error)")
	}
	return level, nil
}
