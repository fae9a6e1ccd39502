// Package tracing wires OpenTelemetry into the kernel so that serviced
// syscalls show up as spans. Spans are no-ops until Init or
// InitWithExporter installs a provider.
package tracing
