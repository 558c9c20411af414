package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Manu343726/or1kdbg/pkg/config"
	"github.com/Manu343726/or1kdbg/pkg/logging"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du/sim"
	"github.com/Manu343726/or1kdbg/pkg/or1k/registers"
	"github.com/Manu343726/or1kdbg/pkg/or1k/target"
	"github.com/Manu343726/or1kdbg/pkg/utils"
	"github.com/spf13/viper"
)

// Debug units selectable with --adapter
var adapters = newAdapters()

func newAdapters() *du.Registry {
	registry := du.NewRegistry()
	registry.Register("sim", "in-memory OpenRISC 1000 model, memory size set by sim.memory", sim.Factory)
	return registry
}

// session is everything a command needs to talk to a target
type session struct {
	config config.Config
	logger *slog.Logger
	table  *registers.Table
	target *target.Target
	closer io.Closer
}

func (s *session) Close() {
	if s.closer != nil {
		s.closer.Close()
	}
}

// Builds the register table, adding the registers from the extensions file if any
func loadTable(path string) (*registers.Table, error) {
	table := registers.NewTable()

	if len(path) == 0 {
		return table, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, utils.WithContext(err, "opening register extensions")
	}
	defer file.Close()

	extra, err := registers.LoadExtensions(file)
	if err != nil {
		return nil, err
	}

	for _, d := range extra {
		if _, err := table.Add(d); err != nil {
			return nil, utils.WithContext(err, "loading %v", path)
		}
	}

	return table, nil
}

// Loads the configuration, opens the debug unit and examines the target. Log records go to
// logConsole and to the configured log file.
func openSession(logConsole io.Writer) (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Open(cfg.Log.Level, cfg.Log.File, logConsole)
	if err != nil {
		return nil, err
	}

	s := &session{config: cfg, logger: logger, closer: closer}

	fail := func(err error) (*session, error) {
		logger.Error("could not open a session", "error", err)
		s.Close()
		return nil, err
	}

	s.table, err = loadTable(cfg.Registers.Extra)
	if err != nil {
		return fail(err)
	}

	unit, err := adapters.Open(cfg.Adapter, map[string]any{"memory": cfg.Sim.Memory})
	if err != nil {
		return fail(err)
	}

	if cfg.Trace {
		unit = du.Traced(unit, du.SlogTracer{Logger: logger})
	}

	s.target = target.New(unit,
		target.WithLogger(logger),
		target.WithRegisters(s.table),
		target.WithPollRetries(cfg.Poll.Retries),
		target.WithPollBackoff(cfg.Poll.Backoff),
		target.WithSrstPullsTrst(cfg.Reset.SrstPullsTrst),
	)

	if err := s.target.Examine(); err != nil {
		return fail(err)
	}

	logger.Debug("session open", "adapter", cfg.Adapter, "state", s.target.State(), "registers", s.table.Len())
	return s, nil
}

// Opens a session or exits
func mustOpenSession(logConsole io.Writer) *session {
	s, err := openSession(logConsole)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return s
}
