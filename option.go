package stride

import (
	"io"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/stride/internal/clock"
	"github.com/viant/stride/policy"
	"github.com/viant/stride/service/event"
	"github.com/viant/stride/service/mm"
	"github.com/viant/stride/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the kernel service.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the kernel logger. Without it a text logger at
// Config.LogLevel writes to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the hardware clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithMachine replaces the in-memory frames and page tables.
func WithMachine(machine mm.Machine) Option {
	return func(s *Service) {
		s.machine = machine
	}
}

// WithConsole sets the destination of write(1, ...).
func WithConsole(w io.Writer) Option {
	return func(s *Service) {
		s.console = w
	}
}

// WithPolicy sets the syscall policy; it takes precedence over
// Config.Policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithEventService publishes task transitions to service.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.eventService = service
	}
}

// WithDumpFS sets the storage used for memory dumps.
func WithDumpFS(fs afs.Service) Option {
	return func(s *Service) {
		s.dumpFS = fs
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter, or
// a file when outputFile is set. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
