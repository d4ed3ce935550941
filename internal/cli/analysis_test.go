package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThandieOps/migration-analysis/internal/config"
	"github.com/ThandieOps/migration-analysis/internal/logger"
)

type fakeExecutor struct {
	calls int
	err   error
	panic any
}

func (f *fakeExecutor) Execute(context.Context) error {
	f.calls++
	if f.panic != nil {
		panic(f.panic)
	}
	return f.err
}

type harness struct {
	analysis  *Analysis
	executor  *fakeExecutor
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	exitCodes []int
	built     []config.Configuration
	buildErr  error
}

func newHarness(level string) *harness {
	h := &harness{executor: &fakeExecutor{}}
	h.analysis = &Analysis{
		NewExecutor: func(cfg config.Configuration) (Executor, error) {
			h.built = append(h.built, cfg)
			if h.buildErr != nil {
				return nil, h.buildErr
			}
			return h.executor, nil
		},
		Exit:   func(code int) { h.exitCodes = append(h.exitCodes, code) },
		Stdout: &h.stdout,
		Logger: logger.New(&h.stderr, logger.Options{Level: level}),
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.analysis.Run(context.Background(), args)
}

func TestRun_Success(t *testing.T) {
	h := newHarness("info")

	code := h.run("archive.ear", "--output-path", "/out")

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, h.exitCodes, "exit hook is only called on failure")
	assert.Equal(t, StateSucceeded, h.analysis.State())
	assert.Equal(t, 1, h.executor.calls)
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())

	require.Len(t, h.built, 1)
	cfg := h.built[0]
	assert.Equal(t, "archive.ear", cfg.InputPath())
	assert.Equal(t, "/out", cfg.OutputPath())
	assert.Empty(t, cfg.OutputTypes())
	assert.Empty(t, cfg.Excludes())
}

func TestRun_InputNamedLikeCompletionCommand(t *testing.T) {
	h := newHarness("info")

	code := h.run("__complete", "-o", "/out")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, 1, h.executor.calls)
	assert.Empty(t, h.stdout.String())
	require.Len(t, h.built, 1)
	assert.Equal(t, "__complete", h.built[0].InputPath())
}

func TestRun_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{}},
		{"two arguments", []string{"a.jar", "b.jar", "--output-path", "/out"}},
		{"missing output path", []string{"archive.war"}},
		{"unknown option", []string{"archive.war", "-o", "/out", "--fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("info")

			code := h.run(tt.args...)

			assert.Equal(t, ExitFailure, code)
			assert.Equal(t, []int{ExitFailure}, h.exitCodes)
			assert.Equal(t, StateFailed, h.analysis.State())
			assert.True(t, strings.HasPrefix(h.stdout.String(), "Usage: migration-analysis."))
			assert.Empty(t, h.built, "engine must not be built")
			assert.Zero(t, h.executor.calls)
			assert.NotContains(t, h.stderr.String(), FailureMessage)
		})
	}
}

func TestRun_Help(t *testing.T) {
	h := newHarness("info")

	code := h.run("--help")

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, h.exitCodes)
	assert.Contains(t, h.stdout.String(), "Options:")
	assert.Empty(t, h.built)
}

func TestRun_ExecutorFails(t *testing.T) {
	h := newHarness("info")
	h.executor.err = errors.New("zip: not a valid zip file")

	code := h.run("archive.ear", "-o", "/out")

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, []int{ExitFailure}, h.exitCodes)
	assert.Equal(t, StateFailed, h.analysis.State())
	assert.Empty(t, h.stdout.String(), "usage is only shown for bad input")

	stderr := h.stderr.String()
	assert.Contains(t, stderr, FailureMessage)
	assert.NotContains(t, stderr, "zip: not a valid zip file")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(stderr), "\n")+1, "exactly one line: %q", stderr)
}

func TestRun_ExecutorFails_DebugDetail(t *testing.T) {
	h := newHarness("debug")
	h.executor.err = errors.New("zip: not a valid zip file")

	code := h.run("archive.ear", "-o", "/out")

	assert.Equal(t, ExitFailure, code)
	stderr := h.stderr.String()
	assert.Contains(t, stderr, "Analysis failed")
	assert.Contains(t, stderr, "zip: not a valid zip file")
	assert.Contains(t, stderr, "state=executing")
	assert.Contains(t, stderr, FailureMessage)
}

func TestRun_InitializationFails(t *testing.T) {
	h := newHarness("info")
	h.buildErr = errors.New(`unknown output type "html"`)

	code := h.run("archive.ear", "-o", "/out", "-t", "html")

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, []int{ExitFailure}, h.exitCodes)
	assert.Zero(t, h.executor.calls)
	assert.Contains(t, h.stderr.String(), FailureMessage)
	assert.NotContains(t, h.stderr.String(), "html")
}

func TestRun_ExecutorPanics(t *testing.T) {
	h := newHarness("debug")
	h.executor.panic = "index out of range"

	code := h.run("archive.ear", "-o", "/out")

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, []int{ExitFailure}, h.exitCodes)
	assert.Contains(t, h.stderr.String(), "index out of range")
	assert.Contains(t, h.stderr.String(), FailureMessage)
}

func TestRun_NilExecutor(t *testing.T) {
	h := newHarness("info")
	h.analysis.NewExecutor = func(config.Configuration) (Executor, error) { return nil, nil }

	assert.Equal(t, ExitFailure, h.run("archive.ear", "-o", "/out"))
	assert.Contains(t, h.stderr.String(), FailureMessage)
}

func TestRun_WithoutExitHook(t *testing.T) {
	h := newHarness("info")
	h.analysis.Exit = nil

	assert.Equal(t, ExitFailure, h.run("a.jar", "b.jar"))
}

func TestAnalysisFailure_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &AnalysisFailure{State: StateExecuting, cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "executing")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "parsing", StateParsing.String())
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "State(42)", State(42).String())
}
