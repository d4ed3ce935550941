// Package cli is the front door of migration-analysis: it parses the command
// line, builds the run Configuration, starts the engine and turns the outcome
// into a process exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/ThandieOps/migration-analysis/internal/config"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = -1
)

// FailureMessage is the only error text a failed analysis shows the user
const FailureMessage = "A failure occurred. Please see earlier output for details."

// State is a step of one run
type State int

const (
	StateParsing State = iota
	StateConfigured
	StateInitializing
	StateExecuting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateConfigured:
		return "configured"
	case StateInitializing:
		return "initializing"
	case StateExecuting:
		return "executing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Executor performs the analysis for one run
type Executor interface {
	Execute(ctx context.Context) error
}

// ExecutorFactory wires an Executor for a Configuration
type ExecutorFactory func(cfg config.Configuration) (Executor, error)

// Analysis sequences one run: parse, configure, initialize, execute.
type Analysis struct {
	// NewExecutor builds the engine once the Configuration is known
	NewExecutor ExecutorFactory
	// Exit receives the failure code. When nil, Run only returns it.
	Exit func(code int)
	// Stdout receives usage text; defaults to os.Stdout
	Stdout io.Writer
	// Logger defaults to slog.Default()
	Logger *slog.Logger

	state State
}

// State reports where the last Run stopped
func (a *Analysis) State() State {
	return a.state
}

// Run executes one invocation and returns its exit code. Failures are also
// passed to the Exit hook; success returns without calling it.
func (a *Analysis) Run(ctx context.Context, args []string) int {
	log := a.logger()

	a.state = StateParsing
	cfg, err := Parse(args)
	if errors.Is(err, ErrHelpRequested) {
		a.displayUsage()
		a.state = StateSucceeded
		return ExitSuccess
	}
	if err != nil {
		log.Debug("invalid command line", "error", err)
		a.displayUsage()
		return a.fail()
	}
	a.state = StateConfigured

	if err := a.analyze(ctx, cfg); err != nil {
		log.Debug("Analysis failed", "error", err, "state", a.state.String())
		log.Error(FailureMessage)
		return a.fail()
	}

	a.state = StateSucceeded
	return ExitSuccess
}

func (a *Analysis) analyze(ctx context.Context, cfg config.Configuration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AnalysisFailure{State: a.state, cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack())}
		}
	}()

	a.state = StateInitializing
	if a.NewExecutor == nil {
		return &AnalysisFailure{State: a.state, cause: errors.New("no executor configured")}
	}
	executor, err := a.NewExecutor(cfg)
	if err != nil {
		return &AnalysisFailure{State: a.state, cause: err}
	}
	if executor == nil {
		return &AnalysisFailure{State: a.state, cause: errors.New("executor factory returned nil")}
	}

	a.state = StateExecuting
	if err := executor.Execute(ctx); err != nil {
		return &AnalysisFailure{State: a.state, cause: err}
	}
	return nil
}

func (a *Analysis) fail() int {
	a.state = StateFailed
	if a.Exit != nil {
		a.Exit(ExitFailure)
	}
	return ExitFailure
}

func (a *Analysis) displayUsage() {
	if err := DisplayUsage(a.stdout()); err != nil {
		a.logger().Debug("failed to write usage", "error", err)
	}
}

func (a *Analysis) stdout() io.Writer {
	if a.Stdout != nil {
		return a.Stdout
	}
	return os.Stdout
}

func (a *Analysis) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
