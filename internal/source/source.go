// Package source turns files on disk into documents ready for ingestion.
package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"assistant/internal/domain"
	"assistant/internal/logging"
)

// ErrPDFToolNotFound is returned when a PDF is found but pdftotext is not on
// the PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH (install poppler-utils)")

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Loader reads .txt, .md and .pdf files.
type Loader struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	return NewLoaderWithRunner(execRunner{}, logger)
}

// NewLoaderWithRunner builds a loader that extracts PDFs through runner.
func NewLoaderWithRunner(runner CommandRunner, logger *slog.Logger) *Loader {
	return &Loader{runner: runner, lookPath: exec.LookPath, logger: logging.OrDefault(logger)}
}

// Supported reports whether the file extension is one the loader can read.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".pdf":
		return true
	}
	return false
}

// Resolve expands files, globs and directories into a deduplicated list of
// supported file paths. Globs and directory walks yield lexical order, so a
// given set of patterns always resolves the same way. Patterns that match
// nothing are reported as errors.
func (l *Loader) Resolve(patterns []string) ([]string, []error) {
	var (
		out  []string
		errs []error
		seen = map[string]struct{}{}
	)
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: bad pattern %q: %w", domain.ErrIngestionFailure, pattern, err))
			continue
		}
		if len(matches) == 0 {
			errs = append(errs, fmt.Errorf("%w: %s: no such file or directory", domain.ErrIngestionFailure, pattern))
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrIngestionFailure, m, err))
				continue
			}
			if !info.IsDir() {
				if Supported(m) {
					add(m)
				} else {
					l.logger.Debug("skipping unsupported file", "path", m)
				}
				continue
			}
			err = filepath.WalkDir(m, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrIngestionFailure, p, err))
					return nil
				}
				if !d.IsDir() && Supported(p) {
					add(p)
				}
				return nil
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %w", domain.ErrIngestionFailure, m, err))
			}
		}
	}
	return out, errs
}

// Load reads one file into a document. Text files are taken byte for byte;
// PDFs go through pdftotext.
func (l *Loader) Load(ctx context.Context, path string) (domain.Document, error) {
	var (
		content string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		var data []byte
		data, err = os.ReadFile(path)
		content = string(data)
	case ".pdf":
		content, err = l.extractPDF(ctx, path)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s: %w", domain.ErrIngestionFailure, path, err)
	}
	return domain.Document{ID: hashString(path), Path: path, Content: content}, nil
}

// LoadAll resolves patterns and loads every match. Files that fail are logged
// and skipped; their errors are returned alongside the documents that loaded.
func (l *Loader) LoadAll(ctx context.Context, patterns []string) ([]domain.Document, []error) {
	paths, errs := l.Resolve(patterns)
	docs := make([]domain.Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", domain.ErrIngestionFailure, err))
			break
		}
		doc, err := l.Load(ctx, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	for _, err := range errs {
		l.logger.Warn("skipping document", "error", err)
	}
	return docs, errs
}

func (l *Loader) extractPDF(ctx context.Context, path string) (string, error) {
	if _, err := l.lookPath("pdftotext"); err != nil {
		return "", ErrPDFToolNotFound
	}
	out, err := l.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
