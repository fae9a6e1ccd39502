// Package policy filters syscalls by name. It is opt-in: a kernel without a
// Policy services every syscall.

package policy

import (
	"context"
	"strings"
)

// Modes recognised by the kernel.
const (
	ModeAsk  = "ask"  // ask before every syscall
	ModeAuto = "auto" // service automatically (default)
	ModeDeny = "deny" // refuse every syscall except exit
)

// AskFunc is invoked when Mode==ask. Returning true approves the syscall,
// false refuses it. Implementations may mutate the policy, for example by
// switching to ModeAuto after the first approval.
type AskFunc func(
	ctx context.Context,
	syscall string, // syscall name, e.g. "mmap"
	args []uint64,
	p *Policy,
) bool

// Policy holds the syscall filter of a kernel.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList, BlockList filter by syscall name regardless of Mode.
//   - Ask is only used when Mode==ask.
//
// A nil *Policy allows everything.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config back to a runtime Policy (without
// AskFunc).
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      c.Mode,
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList / BlockList by case-insensitive name match.
func (p *Policy) IsAllowed(syscall string) bool {
	if p == nil {
		return true
	}

	normalized := strings.ToLower(syscall)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}

	if len(p.AllowList) == 0 {
		return true
	}

	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}

	return false
}

// Permit combines the lists with Mode. An ask-mode policy without Ask
// refuses.
func (p *Policy) Permit(ctx context.Context, syscall string, args []uint64) bool {
	if p == nil {
		return true
	}
	if !p.IsAllowed(syscall) {
		return false
	}
	switch strings.ToLower(p.Mode) {
	case ModeDeny:
		return false
	case ModeAsk:
		return p.Ask != nil && p.Ask(ctx, syscall, args, p)
	default:
		return true
	}
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy carried by ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
