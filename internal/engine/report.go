package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ThandieOps/migration-analysis/internal/scanner"
	"github.com/ThandieOps/migration-analysis/internal/taxonomy"
)

// ReportDirSuffix is appended to an archive's file name to name its report directory
const ReportDirSuffix = ".migration-analysis"

// Report is the analysis result for one archive
type Report struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	Archive     string               `json:"archive" yaml:"archive"`
	ArchivePath string               `json:"archive_path" yaml:"archive_path"`
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	Source      *scanner.GitMetadata `json:"source,omitempty" yaml:"source,omitempty"`
	Inventory   `yaml:",inline"`
	// Summary counts facts per usage type label
	Summary map[string]int `json:"summary" yaml:"summary"`
}

func summarize(facts []Fact) map[string]int {
	summary := make(map[string]int)
	for _, f := range facts {
		summary[f.Type.String()]++
	}
	return summary
}

// Renderer writes a report in one output format
type Renderer interface {
	// Name is the output type selecting this renderer, e.g. "json"
	Name() string
	// Extension is the report file suffix without the dot
	Extension() string
	Render(w io.Writer, r *Report) error
}

var renderers = map[string]Renderer{
	"json": jsonRenderer{},
	"yaml": yamlRenderer{},
	"text": textRenderer{},
}

// OutputTypes lists the names of the available renderers
func OutputTypes() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveRenderers looks up a renderer for each output type, ignoring case
func resolveRenderers(outputTypes []string) ([]Renderer, error) {
	resolved := make([]Renderer, 0, len(outputTypes))
	seen := make(map[string]bool)
	for _, t := range outputTypes {
		name := strings.ToLower(strings.TrimSpace(t))
		r, ok := renderers[name]
		if !ok {
			return nil, fmt.Errorf("unknown output type %q (available: %s)", t, strings.Join(OutputTypes(), ", "))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		resolved = append(resolved, r)
	}
	return resolved, nil
}

type jsonRenderer struct{}

func (jsonRenderer) Name() string      { return "json" }
func (jsonRenderer) Extension() string { return "json" }

func (jsonRenderer) Render(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

type yamlRenderer struct{}

func (yamlRenderer) Name() string      { return "yaml" }
func (yamlRenderer) Extension() string { return "yaml" }

func (yamlRenderer) Render(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

type textRenderer struct{}

func (textRenderer) Name() string      { return "text" }
func (textRenderer) Extension() string { return "txt" }

func (textRenderer) Render(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Archive:\t%s\n", r.Archive)
	fmt.Fprintf(tw, "Path:\t%s\n", r.ArchivePath)
	fmt.Fprintf(tw, "Run:\t%s\n", r.RunID)
	fmt.Fprintf(tw, "Generated:\t%s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	if r.Source != nil && r.Source.IsGitRepo {
		fmt.Fprintf(tw, "Source:\t%s %s %s\n", r.Source.RemoteURL, r.Source.CurrentBranch, r.Source.Commit)
	}
	fmt.Fprintf(tw, "Entries:\t%d\n", r.Entries)
	fmt.Fprintf(tw, "Classes:\t%d\n", r.Classes)

	if len(r.NestedArchives) > 0 {
		fmt.Fprintln(tw, "\nNested archives:")
		for _, n := range r.NestedArchives {
			fmt.Fprintf(tw, "  %s\n", n)
		}
	}

	fmt.Fprintln(tw, "\nUsage summary:")
	for _, t := range taxonomy.All() {
		if n := r.Summary[t.String()]; n > 0 {
			fmt.Fprintf(tw, "  %s\t%d\n", t, n)
		}
	}

	if len(r.Facts) > 0 {
		fmt.Fprintln(tw, "\nFindings:")
		fmt.Fprintln(tw, "  TYPE\tSUBJECT\tLOCATION")
		for _, f := range r.Facts {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Type, f.Subject, f.Location)
		}
	}

	return tw.Flush()
}
