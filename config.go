package stride

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/policy"
	"github.com/viant/stride/service/meta"
)

// Config is a serialisable representation of the kernel configuration. It
// can be populated from JSON or YAML through LoadConfig.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string         `json:"logLevel" yaml:"logLevel"`
	Memory   MemoryConfig   `json:"memory" yaml:"memory"`
	Task     TaskConfig     `json:"task" yaml:"task"`
	Policy   *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing"`
	Events   EventsConfig   `json:"events" yaml:"events"`
	// DumpURL is where memory dumps go; empty disables Dump.
	DumpURL string `json:"dumpURL,omitempty" yaml:"dumpURL,omitempty"`
}

type MemoryConfig struct {
	// Frames is the number of physical frames.
	Frames int `json:"frames" yaml:"frames"`
}

// TaskConfig describes the user address space layout of a loaded task:
// the image at BaseAddress, one guard page, StackPages of stack, then the
// heap starting at the stack top.
type TaskConfig struct {
	BaseAddress uint64 `json:"baseAddress" yaml:"baseAddress"`
	StackPages  int    `json:"stackPages" yaml:"stackPages"`
}

type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Service    string `json:"service,omitempty" yaml:"service,omitempty"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// EventsConfig enables task transition events.
type EventsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Buffer  int  `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// DefaultConfig returns a Config populated with the default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Memory:   MemoryConfig{Frames: 1024},
		Task:     TaskConfig{BaseAddress: 0x10000, StackPages: 2},
		Tracing:  TracingConfig{Service: "stride"},
		Events:   EventsConfig{Buffer: 256},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logLevel %q must be debug, info, warn or error", c.LogLevel))
	}
	if c.Memory.Frames <= 0 {
		errs = append(errs, fmt.Errorf("memory.frames must be > 0"))
	}
	if base := amm.VirtAddr(c.Task.BaseAddress); !base.Aligned() || base == 0 || base >= amm.UserLimit {
		errs = append(errs, fmt.Errorf("task.baseAddress %s must be a non-zero page-aligned user address", base))
	}
	if c.Task.StackPages <= 0 {
		errs = append(errs, fmt.Errorf("task.stackPages must be > 0"))
	}
	if c.Events.Buffer < 0 {
		errs = append(errs, fmt.Errorf("events.buffer must be >= 0"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML or JSON configuration from URL on top of the
// defaults. ${env.KEY} expressions are expanded before decoding.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	cfg := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return cfg, nil
}
