// Package script runs Lua scripts against a target.
//
// Scripts get a sandboxed gopher-lua state with the base, table, string and math libraries and
// a `target` module bound to one target.Target. Failed target operations raise Lua errors
// carrying the Go error text.
package script

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
	lua "github.com/yuin/gopher-lua"
)

var ErrStateClosed = errors.New("lua state is closed")

// State is a Lua state bound to a target. It is not safe for concurrent use.
type State struct {
	L      *lua.LState
	target *target.Target
	output io.Writer
	logger *slog.Logger
	closed bool
}

type Option func(s *State)

// Destination of the script's print() calls, stdout by default
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		s.output = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

func NewState(t *target.Target, options ...Option) *State {
	s := &State{
		target: t,
		output: os.Stdout,
		logger: slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(s.L)
	lua.OpenTable(s.L)
	lua.OpenString(s.L)
	lua.OpenMath(s.L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.L.SetGlobal("print", s.L.NewFunction(s.print))
	s.L.SetGlobal("target", newModule(t, s.logger).table(s.L))
	return s
}

func (s *State) print(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)

	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}

	fmt.Fprintln(s.output, strings.Join(parts, "\t"))
	return 0
}

func (s *State) do(name string, run func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	s.logger.Debug("running script", "name", name)

	if err := run(); err != nil {
		s.logger.Error("script failed", "name", name, "error", err)
		return err
	}

	return nil
}

// Runs a Lua file
func (s *State) DoFile(path string) error {
	return s.do(path, func() error {
		return s.L.DoFile(path)
	})
}

// Runs a Lua chunk
func (s *State) DoString(code string) error {
	return s.do("<string>", func() error {
		return s.L.DoString(code)
	})
}

func (s *State) Close() {
	if s.closed {
		return
	}

	s.closed = true
	s.L.Close()
}
