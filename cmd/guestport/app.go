package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"guestport/internal/config"
	"guestport/internal/forward"
	"guestport/internal/guest"
	"guestport/internal/history"
	"guestport/internal/hostcmd"
	"guestport/internal/logging"
)

// app carries the wiring shared by the subcommands: configuration, the
// logging pipeline, the host command runner, and a run identifier that
// ties this invocation's history entries together.
type app struct {
	cfg        *config.Config
	runner     hostcmd.Runner
	errLog     *logging.ErrorLogger
	dispatcher *logging.Dispatcher
	runID      string
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		runner: hostcmd.DefaultRunner,
		runID:  uuid.NewString(),
	}

	dir, err := stateDir()
	if err != nil {
		return a, nil
	}

	if errLog, lerr := logging.NewErrorLogger(filepath.Join(dir, "guestport.log")); lerr == nil {
		a.errLog = errLog
	}

	if len(cfg.Logging.Receivers) > 0 {
		d, derr := logging.NewDispatcherFromConfig(cfg.Logging.Receivers, cfg.Logging.Attributes, dir)
		if derr != nil {
			fmt.Fprintf(os.Stderr, "Warning: remote logging disabled: %v\n", derr)
		} else {
			d.SetCommonFields(map[string]any{"run_id": a.runID})
			a.dispatcher = d
		}
	}

	return a, nil
}

func (a *app) close() {
	if a.dispatcher != nil {
		_ = a.dispatcher.Close()
	}
	if a.errLog != nil {
		_ = a.errLog.Close()
	}
}

// stateDir is where the local log and the default history database live.
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "guestport"), nil
}

func (a *app) logger(component string) *logging.ComponentLogger {
	return logging.NewComponentLogger(component, a.errLog, a.dispatcher)
}

func (a *app) resolver() guest.Resolver {
	argv := a.cfg.Guest.ResolveCommand
	if len(argv) == 0 {
		argv = guest.DefaultCommand(a.cfg.Guest.Distro)
	}
	return guest.NewCommandResolver(a.runner, argv)
}

// resolveGuest returns the guest's current IPv4 address. Failure is fatal
// to the whole run: nothing is listed or mutated without a live target.
func (a *app) resolveGuest() (string, error) {
	addr, err := a.resolver().Resolve()
	if err != nil {
		a.logger("resolver").Errorf("guest address resolution failed: %v", err)
		return "", err
	}
	a.logger("resolver").Infof("guest address %s", addr)
	return addr, nil
}

func (a *app) store() forward.Store {
	return forward.NewHostStore(a.runner, a.cfg.Rules.Prefix)
}

func (a *app) mutator() forward.Mutator {
	return forward.NewHostMutator(a.runner, a.cfg.Rules.Prefix)
}

// historyPath resolves the audit database location from config.
func (a *app) historyPath() (string, error) {
	if a.cfg.History.Path != "" {
		return a.cfg.History.Path, nil
	}
	return history.DefaultPath()
}

// openHistory opens the mutation audit log. Returns nil when history is
// disabled or cannot be opened; recording on a nil store is a no-op, so
// auditing never gets in the way of the mutation path.
func (a *app) openHistory() *history.Store {
	if !a.cfg.History.IsEnabled() {
		return nil
	}

	path, err := a.historyPath()
	if err != nil {
		a.logger("history").Debugf("history disabled: %v", err)
		return nil
	}

	store, err := history.Open(path)
	if err != nil {
		a.logger("history").Debugf("history disabled: %v", err)
		return nil
	}
	return store
}
