// Package target implements the OpenRISC 1000 debug state machine.
//
// A Target owns the register table and cache of one CPU, and drives its debug unit through
// halt, resume, single step and reset, keeping the cache consistent with the hardware. Callers
// must serialize access to a Target: it is not safe for concurrent use.
package target

import (
	"log/slog"
	"time"

	"github.com/Manu343726/or1kdbg/pkg/or1k/breakpoints"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/or1k/memory"
	"github.com/Manu343726/or1kdbg/pkg/or1k/regcache"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
)

const (
	DefaultPollRetries = 5
	DefaultPollBackoff = time.Second
)

type Target struct {
	unit        du.DebugUnit
	table       *registers.Table
	cache       *regcache.Cache
	memory      *memory.Access
	manager     *breakpoints.Manager
	breakpoints *breakpoints.Set

	state       State
	examined    bool
	haltPending bool

	srstPullsTrst bool
	pollRetries   int
	pollBackoff   time.Duration
	sleep         func(time.Duration)

	handlers []EventHandler
	logger   *slog.Logger
}

type Option func(t *Target)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Target) {
		t.logger = logger
	}
}

// Number of attempts of the is-running query in Poll
func WithPollRetries(retries int) Option {
	return func(t *Target) {
		t.pollRetries = retries
	}
}

// Time waited between failed is-running queries
func WithPollBackoff(backoff time.Duration) Option {
	return func(t *Target) {
		t.pollBackoff = backoff
	}
}

// Replaces time.Sleep in the poll retry loop
func WithSleep(sleep func(time.Duration)) Option {
	return func(t *Target) {
		t.sleep = sleep
	}
}

// Declares that the system reset line also resets the debug interface, so the CPU
// can't be stalled while in reset
func WithSrstPullsTrst(value bool) Option {
	return func(t *Target) {
		t.srstPullsTrst = value
	}
}

// Uses a caller owned breakpoint set instead of an empty one
func WithBreakpoints(set *breakpoints.Set) Option {
	return func(t *Target) {
		t.breakpoints = set
	}
}

// Uses a caller built register table instead of the default catalog
func WithRegisters(table *registers.Table) Option {
	return func(t *Target) {
		t.table = table
	}
}

// Creates a target in the unknown state driving the given debug unit
func New(unit du.DebugUnit, options ...Option) *Target {
	t := &Target{
		unit:        unit,
		pollRetries: DefaultPollRetries,
		pollBackoff: DefaultPollBackoff,
		sleep:       time.Sleep,
		logger:      slog.Default(),
	}

	for _, option := range options {
		option(t)
	}

	if t.table == nil {
		t.table = registers.NewTable()
	}

	if t.breakpoints == nil {
		t.breakpoints = breakpoints.NewSet()
	}

	if t.pollRetries < 1 {
		t.pollRetries = 1
	}

	t.cache = regcache.New(unit, t.table, t.logger)
	t.memory = memory.New(unit, t.logger)
	t.manager = breakpoints.NewManager(unit, t.memory, t.logger)

	return t
}

func (t *Target) State() State {
	return t.state
}

func (t *Target) Mode() Mode {
	return t.state.Mode
}

func (t *Target) DebugReason() DebugReason {
	return t.state.DebugReason
}

func (t *Target) Registers() *registers.Table {
	return t.table
}

func (t *Target) Cache() *regcache.Cache {
	return t.cache
}

func (t *Target) Breakpoints() *breakpoints.Set {
	return t.breakpoints
}

// Registers a handler called on every target event
func (t *Target) OnEvent(handler EventHandler) {
	t.handlers = append(t.handlers, handler)
}

func (t *Target) emit(event Event, pc uint32) {
	t.logger.Debug("target event", "event", event, "state", t.state, "pc", pc)

	data := EventData{
		Event: event,
		State: t.state,
		PC:    pc,
	}

	for _, handler := range t.handlers {
		handler(data)
	}
}
