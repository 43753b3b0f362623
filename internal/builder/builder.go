package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"classmin/internal/config"
	"classmin/internal/obfuscator"
	"classmin/internal/ui"
)

// ErrNoSources is returned when the include patterns match no files
var ErrNoSources = errors.New("no source files matched")

// FileReport describes one rewritten document
type FileReport struct {
	Path          string                  `yaml:"path"`
	InputBytes    int                     `yaml:"input_bytes"`
	OutputBytes   int                     `yaml:"output_bytes"`
	OriginalBytes int                     `yaml:"original_bytes"`
	MinifiedBytes int                     `yaml:"minified_bytes"`
	Audit         *obfuscator.AuditReport `yaml:"audit,omitempty"`
}

// Report summarizes a batch build
type Report struct {
	OutputDir     string       `yaml:"output_dir"`
	AliasMap      string       `yaml:"alias_map,omitempty"`
	Files         []FileReport `yaml:"files"`
	Classes       int          `yaml:"classes"`
	OriginalBytes int          `yaml:"original_bytes"`
	MinifiedBytes int          `yaml:"minified_bytes"`

	Audit obfuscator.AuditReport `yaml:"audit"`
}

// ReducedBytes returns the stylesheet bytes saved over every file
func (r *Report) ReducedBytes() int {
	return r.OriginalBytes - r.MinifiedBytes
}

// ReducedPercentage returns ReducedBytes as a share of the original stylesheet bytes
func (r *Report) ReducedPercentage() float64 {
	return obfuscator.Percentage(r.OriginalBytes, r.MinifiedBytes)
}

// Builder rewrites every included document of a project with one shared
// alias table
type Builder struct {
	SourceDir string
	Config    *config.Config
	Quiet     bool

	log *zap.Logger
}

// New creates a Builder for the project described by cfg
func New(cfg *config.Config, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		SourceDir: cfg.Dir,
		Config:    cfg,
		log:       log.Named("builder"),
	}
}

// document is a source file moving through the pipeline
type document struct {
	path    string
	content string
	report  FileReport
}

// Sources returns the files the build will process, in processing order
func (b *Builder) Sources() ([]string, error) {
	excludes := append([]string{}, b.Config.Exclude...)
	if output := b.Config.OutputInSources(); output != "" {
		excludes = append(excludes, output)
	}
	files, err := ExpandIncludes(b.SourceDir, b.Config.Include, excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to expand include patterns: %w", err)
	}
	return files, nil
}

// Build runs the whole pipeline. Every document is scanned for attribute
// selectors before any markup is rewritten, and every document's markup is
// rewritten before any stylesheet, so all files share one alias table.
// Per-file read and write failures do not stop the build; they are returned
// together alongside the report.
func (b *Builder) Build() (*Report, error) {
	// The output directory is removed below, so it must never hold the sources
	if err := b.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m, err := obfuscator.New(
		obfuscator.WithLogger(b.log),
		obfuscator.WithAlphabet(b.alphabet()),
		obfuscator.WithWhitelist(b.Config.Whitelist...),
		obfuscator.WithCompact(b.Config.Compact),
	)
	if err != nil {
		return nil, err
	}

	files, err := b.Sources()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, b.SourceDir)
	}

	b.info("Reading %d files...", len(files))
	docs, errs := b.read(files)

	for _, doc := range docs {
		m.DiscoverWhitelist(doc.content)
	}

	b.info("Rewriting class attributes...")
	for _, doc := range docs {
		doc.content = m.RewriteMarkup(doc.content)
	}

	b.info("Rewriting stylesheets...")
	report := &Report{OutputDir: b.Config.OutputDir()}
	for _, doc := range docs {
		m.ResetSizes()
		doc.content = m.RewriteStylesheets(doc.content)
		doc.report.OriginalBytes, doc.report.MinifiedBytes = m.Sizes()
		doc.report.OutputBytes = len(doc.content)

		if b.Config.Audit {
			audit := m.AuditDocument(doc.content)
			doc.report.Audit = &audit
			report.Audit.Merge(audit)
		}

		report.OriginalBytes += doc.report.OriginalBytes
		report.MinifiedBytes += doc.report.MinifiedBytes

		b.log.Debug("File rewritten",
			zap.String("file", doc.path),
			zap.Int("original", doc.report.OriginalBytes),
			zap.Int("minified", doc.report.MinifiedBytes))
	}
	report.Classes = len(m.ClassNames())

	b.info("Cleaning build directory...")
	if err := CleanBuildDir(report.OutputDir); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		dst := filepath.Join(report.OutputDir, doc.path)
		if err := WriteFile(dst, []byte(doc.content)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to write %s: %w", doc.path, err))
			continue
		}
		report.Files = append(report.Files, doc.report)
	}

	if path := b.Config.AliasMapPath(); path != "" {
		if err := WriteAliasMap(path, m.Aliases()); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			report.AliasMap = path
		}
	}

	b.log.Debug("Build finished",
		zap.Int("files", len(report.Files)),
		zap.Int("classes", report.Classes),
		zap.Int("reduced", report.ReducedBytes()))

	return report, errs
}

// read loads every file, skipping the ones that cannot be read
func (b *Builder) read(files []string) ([]*document, error) {
	var (
		docs []*document
		errs error
	)
	for _, file := range files {
		data, err := os.ReadFile(filepath.Join(b.SourceDir, file))
		if err != nil {
			b.log.Debug("Skipping unreadable file", zap.String("file", file), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("failed to read %s: %w", file, err))
			continue
		}
		docs = append(docs, &document{
			path:    file,
			content: string(data),
			report:  FileReport{Path: file, InputBytes: len(data)},
		})
	}
	return docs, errs
}

func (b *Builder) alphabet() string {
	if b.Config.Alphabet != "" {
		return b.Config.Alphabet
	}
	return obfuscator.DefaultAlphabet
}

func (b *Builder) info(format string, args ...interface{}) {
	if !b.Quiet {
		ui.PrintInfo(format, args...)
	}
}
