package syscall

import (
	"io"
	"log/slog"

	"github.com/viant/stride/internal/clock"
	"github.com/viant/stride/policy"
	"github.com/viant/stride/service/accounting"
)

type Option func(h *Handler)

func WithClock(c clock.Clock) Option {
	return func(h *Handler) { h.clock = c }
}

func WithAccounting(table *accounting.Table) Option {
	return func(h *Handler) { h.accounting = table }
}

func WithPolicy(p *policy.Policy) Option {
	return func(h *Handler) { h.policy = p }
}

// WithConsole sets the destination of write(1, ...).
func WithConsole(w io.Writer) Option {
	return func(h *Handler) { h.console = w }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}
