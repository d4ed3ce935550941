package cli

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/pflag"
)

const (
	usageWidth  = 80
	usageIndent = 2
)

const description = "Produces a migration analysis report for each archive found at the specified input path. " +
	"The input path may be either a single archive or a directory. In the case of a directory, the entire directory " +
	"structure is examined and all archives that are found are analyzed. The reports are written to the output path with each " +
	"report being written into a separate sub-directory. The sub-directory's name is of the form <archive-name>.migration-analysis. " +
	"For example, if my-app.ear is analyzed its report will be written to <outputPath>/my-app.ear.migration-analysis."

// ScriptSuffix returns the launcher script extension for the given GOOS
func ScriptSuffix(goos string) string {
	if goos == "windows" {
		return "bat"
	}
	return "sh"
}

// DisplayUsage writes the command syntax, description and option table to w.
// The output is flushed before returning.
func DisplayUsage(w io.Writer) error {
	return displayUsage(w, runtime.GOOS)
}

func displayUsage(w io.Writer, goos string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Usage: migration-analysis.%s <inputPath> [OPTION]...\n", ScriptSuffix(goos))
	printHeader(bw, "Description:")
	fmt.Fprintln(bw, indent(wordwrap.WrapString(description, usageWidth-usageIndent), usageIndent))
	printHeader(bw, "Options:")
	fmt.Fprint(bw, optionTable())

	return bw.Flush()
}

func printHeader(w io.Writer, header string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w)
}

// optionTable renders the schema; pflag already indents each row by two
func optionTable() string {
	fs := pflag.NewFlagSet("migration-analysis", pflag.ContinueOnError)
	fs.SortFlags = false
	registerOptions(fs)
	return fs.FlagUsagesWrapped(usageWidth)
}

func indent(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
