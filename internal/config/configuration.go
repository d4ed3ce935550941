package config

import (
	"errors"
	"fmt"
	"slices"
)

// ErrArgumentCount is returned when the run is not given exactly one input path
var ErrArgumentCount = errors.New("only one argument expected")

// FieldError reports a run parameter that is present but unusable
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Configuration holds the validated parameters of a single analysis run.
// It has no setters; accessors hand out copies so a Configuration can be
// shared by value with every component of the run.
type Configuration struct {
	inputPath   string
	outputPath  string
	outputTypes []string
	excludes    []string
}

// New builds a Configuration from parsed command-line values. args are the
// positional arguments; exactly one is required. Paths are not checked for
// existence here.
func New(args []string, outputPath string, outputTypes, excludes []string) (Configuration, error) {
	if len(args) != 1 {
		return Configuration{}, ErrArgumentCount
	}
	if args[0] == "" {
		return Configuration{}, &FieldError{Field: "input path", Message: "must not be empty"}
	}
	if outputPath == "" {
		return Configuration{}, &FieldError{Field: "output path", Message: "must not be empty"}
	}

	return Configuration{
		inputPath:   args[0],
		outputPath:  outputPath,
		outputTypes: dedupe(outputTypes),
		excludes:    dedupe(excludes),
	}, nil
}

// InputPath is the archive or directory to analyze
func (c Configuration) InputPath() string {
	return c.inputPath
}

// OutputPath is the root directory reports are written under
func (c Configuration) OutputPath() string {
	return c.outputPath
}

// OutputTypes lists the requested report types in the order given.
// An empty result means the engine defaults apply.
func (c Configuration) OutputTypes() []string {
	return slices.Clone(c.outputTypes)
}

// Excludes lists the patterns of paths to skip
func (c Configuration) Excludes() []string {
	return slices.Clone(c.excludes)
}

// dedupe drops empty and repeated values, keeping first occurrences in order.
// It always returns a non-nil slice.
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
