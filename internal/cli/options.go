package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ThandieOps/migration-analysis/internal/config"
)

// Option names
const (
	OptionOutputType = "output-type"
	OptionOutputPath = "output-path"
	OptionExclude    = "exclude"
	OptionHelp       = "help"
)

type optionKind int

const (
	// kindSingle accepts one string value, at most once
	kindSingle optionKind = iota
	// kindList accepts repeated and comma separated values
	kindList
	// kindPatterns accepts repeated values taken verbatim
	kindPatterns
	kindSwitch
)

// Option describes one accepted command-line option
type Option struct {
	Name      string
	Shorthand string
	Usage     string
	Required  bool
	kind      optionKind
}

// Options is the command-line schema. It is fixed at build time.
var Options = []Option{
	{
		Name:      OptionOutputType,
		Shorthand: "t",
		Usage:     "Report `type` to produce: json, yaml or text. May be repeated or comma separated. Defaults to the configured report types.",
		kind:      kindList,
	},
	{
		Name:      OptionOutputPath,
		Shorthand: "o",
		Usage:     "Root `directory` the reports are written to. Required.",
		Required:  true,
		kind:      kindSingle,
	},
	{
		Name:      OptionExclude,
		Shorthand: "e",
		Usage:     "Gitignore-style `pattern` of paths to skip, relative to the input path. May be repeated.",
		kind:      kindPatterns,
	},
	{
		Name:      OptionHelp,
		Shorthand: "h",
		Usage:     "Display this help and exit.",
		kind:      kindSwitch,
	},
}

// onceValue is a string flag value that rejects a second occurrence
type onceValue struct {
	value string
	set   bool
}

func (v *onceValue) String() string { return v.value }
func (v *onceValue) Type() string   { return "string" }

func (v *onceValue) Set(s string) error {
	if v.set {
		return errors.New("option may only be given once")
	}
	if s == "" {
		return errors.New("value must not be empty")
	}
	v.value = s
	v.set = true
	return nil
}

// registerOptions adds the schema to fs
func registerOptions(fs *pflag.FlagSet) {
	for _, o := range Options {
		switch o.kind {
		case kindSingle:
			fs.VarP(&onceValue{}, o.Name, o.Shorthand, o.Usage)
		case kindList:
			fs.StringSliceP(o.Name, o.Shorthand, nil, o.Usage)
		case kindPatterns:
			fs.StringArrayP(o.Name, o.Shorthand, nil, o.Usage)
		case kindSwitch:
			fs.BoolP(o.Name, o.Shorthand, false, o.Usage)
		}
	}
}

// Parse turns raw arguments into a Configuration. It never writes output;
// presenting usage on failure is left to the caller.
//
// The command is never dispatched: cobra's hidden completion command would
// otherwise claim an input path named "__complete".
func Parse(args []string) (config.Configuration, error) {
	cmd := newCommand()
	if err := cmd.ParseFlags(args); err != nil {
		return config.Configuration{}, cmd.FlagErrorFunc()(cmd, err)
	}

	if help, _ := cmd.Flags().GetBool(OptionHelp); help {
		return config.Configuration{}, ErrHelpRequested
	}

	positional := cmd.Flags().Args()
	if err := cmd.ValidateArgs(positional); err != nil {
		return config.Configuration{}, err
	}
	return configurationFrom(cmd.Flags(), positional)
}

// newCommand builds the command carrying the option schema
func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migration-analysis <inputPath>",
		Args:          validateArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	registerOptions(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return classifyFlagError(err)
	})
	return cmd
}

// validateArgs checks positional cardinality, then required options
func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return newParseFailure(ArgumentCount,
			fmt.Sprintf("only one argument expected, got %d", len(args)), config.ErrArgumentCount)
	}
	for _, o := range Options {
		if o.Required && !cmd.Flags().Changed(o.Name) {
			return newParseFailure(MissingOption, fmt.Sprintf("required option --%s is missing", o.Name), nil)
		}
	}
	return nil
}

func configurationFrom(fs *pflag.FlagSet, positional []string) (config.Configuration, error) {
	outputTypes, err := fs.GetStringSlice(OptionOutputType)
	if err != nil {
		return config.Configuration{}, newParseFailure(InvalidValue, "invalid --"+OptionOutputType, err)
	}
	excludes, err := fs.GetStringArray(OptionExclude)
	if err != nil {
		return config.Configuration{}, newParseFailure(InvalidValue, "invalid --"+OptionExclude, err)
	}
	outputPath := fs.Lookup(OptionOutputPath).Value.String()

	cfg, err := config.New(positional, outputPath, outputTypes, excludes)
	if err != nil {
		if errors.Is(err, config.ErrArgumentCount) {
			return config.Configuration{}, newParseFailure(ArgumentCount, err.Error(), err)
		}
		return config.Configuration{}, newParseFailure(InvalidValue, err.Error(), err)
	}
	return cfg, nil
}

// classifyFlagError maps pflag parse errors onto failure kinds
func classifyFlagError(err error) error {
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown flag") || strings.HasPrefix(msg, "unknown shorthand flag") {
		return newParseFailure(UnknownOption, msg, err)
	}
	return newParseFailure(InvalidValue, msg, err)
}
