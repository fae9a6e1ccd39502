package stride

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/viant/afs"
	"github.com/viant/stride/internal/clock"
	"github.com/viant/stride/internal/idgen"
	"github.com/viant/stride/policy"
	"github.com/viant/stride/progress"
	"github.com/viant/stride/runtime/task"
	"github.com/viant/stride/service/accounting"
	"github.com/viant/stride/service/dao/store"
	"github.com/viant/stride/service/event"
	"github.com/viant/stride/service/messaging/memory"
	"github.com/viant/stride/service/mm"
	"github.com/viant/stride/service/mm/dump"
	mmemory "github.com/viant/stride/service/mm/memory"
	"github.com/viant/stride/service/scheduler"
	"github.com/viant/stride/service/syscall"
	"github.com/viant/stride/tracing"
)

// Service assembles a kernel from its configuration and collaborators.
type Service struct {
	config       *Config
	runtime      *Runtime
	logger       *slog.Logger
	clock        clock.Clock
	machine      mm.Machine
	console      io.Writer
	policy       *policy.Policy
	eventService *event.Service
	dumpFS       afs.Service
	tracingErr   error
}

// New creates a kernel service.
func New(options ...Option) (*Service, error) {
	s := &Service{}
	for _, option := range options {
		option(s)
	}
	if s.tracingErr != nil {
		return nil, fmt.Errorf("failed to initialise tracing: %w", s.tracingErr)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := s.ensureBaseSetup(); err != nil {
		return nil, err
	}
	s.runtime = s.newRuntime()
	return s, nil
}

// Runtime returns the kernel runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

func (s *Service) ensureBaseSetup() error {
	if s.logger == nil {
		s.logger = NewLogger(os.Stderr, s.config.LogLevel)
	}
	if s.clock == nil {
		s.clock = clock.NewSystem()
	}
	if s.machine == nil {
		s.machine = mmemory.New(s.config.Memory.Frames)
	}
	if s.console == nil {
		s.console = os.Stdout
	}
	if s.policy == nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	if s.eventService == nil && s.config.Events.Enabled {
		buffer := s.config.Events.Buffer
		s.eventService = event.New(event.WithLogger(s.logger), event.WithQueueConfig(func(string) memory.Config {
			cfg := memory.DefaultConfig()
			if buffer > 0 {
				cfg.Buffer = buffer
			}
			return cfg
		}))
	}
	if cfg := s.config.Tracing; cfg.Enabled {
		if err := tracing.Init(cfg.Service, "", cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	return nil
}

func (s *Service) newRuntime() *Runtime {
	bootID := idgen.New()
	table := accounting.New()
	r := &Runtime{
		config:     s.config,
		logger:     s.logger.With("boot", idgen.Short(bootID)),
		clock:      s.clock,
		machine:    s.machine,
		scheduler:  scheduler.New(),
		accounting: table,
		tasks: store.NewMemoryStore[int, task.ControlBlock](func(t *task.ControlBlock) int { return t.ID },
			store.WithAttribute[int, task.ControlBlock](taskAttribute)),
		threads:  make(map[int]*thread),
		exits:    make(map[int]int),
		progress: progress.New(bootID, clock.Now()),
		events:   s.eventService,
	}
	r.syscalls = syscall.New(
		syscall.WithClock(s.clock),
		syscall.WithAccounting(table),
		syscall.WithPolicy(s.policy),
		syscall.WithConsole(s.console),
		syscall.WithLogger(r.logger),
	)
	if s.config.DumpURL != "" {
		r.dumper = dump.New(s.config.DumpURL, dump.WithFS(s.dumpFS), dump.WithLogger(r.logger))
	}
	return r
}
