// Package engine is the default analysis engine behind the migration-analysis
// command. It inventories every archive found at the input path and writes one
// report directory per archive.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ThandieOps/migration-analysis/internal/config"
	"github.com/ThandieOps/migration-analysis/internal/scanner"
)

// Executor runs one analysis over the archives named by a Configuration
type Executor struct {
	cfg       config.Configuration
	settings  config.Settings
	renderers []Renderer
	logger    *slog.Logger
	runID     string
	now       func() time.Time
}

// New wires an Executor for cfg. Output types fall back to the settings'
// defaults when the run requested none; unknown output types fail here,
// before any archive is touched.
func New(cfg config.Configuration, settings config.Settings, logger *slog.Logger) (*Executor, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	outputTypes := cfg.OutputTypes()
	if len(outputTypes) == 0 {
		outputTypes = settings.Report.DefaultOutputTypes
	}
	if len(outputTypes) == 0 {
		return nil, fmt.Errorf("no output types requested and no defaults configured")
	}

	renderers, err := resolveRenderers(outputTypes)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	return &Executor{
		cfg:       cfg,
		settings:  settings,
		renderers: renderers,
		logger:    logger.With("run_id", runID),
		runID:     runID,
		now:       time.Now,
	}, nil
}

// RunID identifies this run in logs and reports
func (e *Executor) RunID() string {
	return e.runID
}

// Execute finds, inspects and reports on every archive. The first failure
// stops the run.
func (e *Executor) Execute(ctx context.Context) error {
	input := e.cfg.InputPath()

	e.logger.Info("scanning input", "path", input)
	archives, err := scanner.FindArchives(input, scanner.Options{
		Extensions:    e.settings.Report.ArchiveExtensions,
		Excludes:      e.cfg.Excludes(),
		IgnoreDirs:    e.settings.Scanner.IgnoreDirs,
		IncludeHidden: e.settings.Scanner.IncludeHidden,
	})
	if err != nil {
		return err
	}

	if len(archives) == 0 {
		e.logger.Warn("no archives found", "path", input, "excludes", e.cfg.Excludes())
		return nil
	}
	e.logger.Info("scan completed", "archives_found", len(archives))

	if err := checkReportDirs(e.cfg.OutputPath(), archives); err != nil {
		return err
	}

	source := scanner.CollectGitMetadata(input)
	if !source.IsGitRepo {
		source = nil
	}

	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.analyze(archive, source); err != nil {
			return err
		}
	}

	e.logger.Info("analysis completed", "reports", len(archives), "output_path", e.cfg.OutputPath())
	return nil
}

func (e *Executor) analyze(archive string, source *scanner.GitMetadata) error {
	e.logger.Debug("inspecting archive", "archive", archive)

	inv, err := Inspect(archive, e.settings.Report.ArchiveExtensions)
	if err != nil {
		return err
	}

	report := &Report{
		RunID:       e.runID,
		Archive:     filepath.Base(archive),
		ArchivePath: archive,
		GeneratedAt: e.now(),
		Source:      source,
		Inventory:   *inv,
		Summary:     summarize(inv.Facts),
	}

	dir := ReportDir(e.cfg.OutputPath(), archive)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	for _, r := range e.renderers {
		if err := writeReport(filepath.Join(dir, "report."+r.Extension()), r, report); err != nil {
			return err
		}
	}

	e.logger.Info("report written",
		"archive", report.Archive,
		"facts", len(inv.Facts),
		"nested_archives", len(inv.NestedArchives),
		"dir", dir)
	return nil
}

// ReportDir returns <outputPath>/<archive-file-name>.migration-analysis
func ReportDir(outputPath, archive string) string {
	return filepath.Join(outputPath, filepath.Base(archive)+ReportDirSuffix)
}

// checkReportDirs fails when two archives would share a report directory
func checkReportDirs(outputPath string, archives []string) error {
	seen := make(map[string]string, len(archives))
	for _, archive := range archives {
		dir := ReportDir(outputPath, archive)
		if prev, ok := seen[dir]; ok {
			return fmt.Errorf("archives %s and %s would both report to %s; exclude one of them", prev, archive, dir)
		}
		seen[dir] = archive
	}
	return nil
}

func writeReport(path string, r Renderer, report *Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file %s: %w", path, cerr)
		}
	}()

	if err := r.Render(f, report); err != nil {
		return fmt.Errorf("failed to render %s report: %w", r.Name(), err)
	}
	return nil
}
