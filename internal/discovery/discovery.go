// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mcpick/mcpick/internal/config"
)

type (
	// Source is one file to be loaded. Index is its position in fold order.
	Source struct {
		Path  string
		Index int
	}

	// Result bundles discovered sources with diagnostics produced while
	// looking for them.
	Result struct {
		// BaseDir is the resolved project root.
		BaseDir string
		// ScanDir is the absolute directory that was listed. Empty in override mode.
		ScanDir string
		// Sources are sorted by path (scan mode) or in flag order (override mode).
		Sources []Source
		// Override is true when sources came from override paths.
		Override    bool
		Diagnostics []Diagnostic
	}

	// Option configures a Discovery.
	Option func(*Discovery)

	// Discovery finds server files under a project root.
	Discovery struct {
		scanDir   string
		suffix    string
		overrides []string
		getwd     func() (string, error)
	}
)

// WithOverridePaths replaces directory scanning with the given files.
// Empty strings are ignored; an empty list keeps the configured behavior.
func WithOverridePaths(paths ...string) Option {
	return func(d *Discovery) {
		var kept []string
		for _, p := range paths {
			if strings.TrimSpace(p) != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			d.overrides = kept
		}
	}
}

// WithGetwd replaces os.Getwd for resolving an empty base directory.
func WithGetwd(fn func() (string, error)) Option {
	return func(d *Discovery) { d.getwd = fn }
}

// New creates a Discovery from configuration.
func New(cfg *config.Config, opts ...Option) *Discovery {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &Discovery{
		scanDir: cfg.ScanDir.String(),
		suffix:  cfg.SourceSuffix.String(),
		getwd:   os.Getwd,
	}
	if cfg.OverridePath != "" {
		d.overrides = []string{cfg.OverridePath}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pattern returns the doublestar pattern that selects source file names.
func (d *Discovery) Pattern() string {
	return "*" + escapeMeta(d.suffix)
}

// ScanDirFor returns the absolute scan directory for baseDir.
func (d *Discovery) ScanDirFor(baseDir string) string {
	if filepath.IsAbs(d.scanDir) {
		return filepath.Clean(d.scanDir)
	}
	return filepath.Join(baseDir, d.scanDir)
}

// Discover returns the sources for the project rooted at baseDir. An empty
// baseDir means the working directory. The only error is ctx.Err().
func (d *Discovery) Discover(ctx context.Context, baseDir string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result

	resolved, diag := d.resolveBaseDir(baseDir)
	if diag != nil {
		res.Diagnostics = append(res.Diagnostics, *diag)
		return res, nil
	}
	res.BaseDir = resolved

	if len(d.overrides) > 0 {
		res.Override = true
		res.Sources = d.overrideSources(resolved)
		slog.Debug("using override sources", "count", len(res.Sources))
		return res, nil
	}

	res.ScanDir = d.ScanDirFor(resolved)
	paths, diags := d.scan(res.ScanDir)
	res.Diagnostics = append(res.Diagnostics, diags...)

	slices.Sort(paths)
	res.Sources = make([]Source, 0, len(paths))
	for i, p := range paths {
		res.Sources = append(res.Sources, Source{Path: p, Index: i})
	}

	slog.Debug("discovered sources", "scan_dir", res.ScanDir, "pattern", d.Pattern(), "count", len(res.Sources))
	return res, nil
}

// Matches reports whether name (a base name) selects as a source file.
func (d *Discovery) Matches(name string) bool {
	ok, err := doublestar.Match(d.Pattern(), name)
	return err == nil && ok
}

func (d *Discovery) resolveBaseDir(baseDir string) (string, *Diagnostic) {
	if baseDir == "" {
		wd, err := d.getwd()
		if err != nil {
			return "", &Diagnostic{
				Severity: SeverityError,
				Code:     CodeBaseDirUnresolved,
				Message:  fmt.Sprintf("cannot determine the working directory: %v", err),
				Cause:    err,
			}
		}
		baseDir = wd
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", &Diagnostic{
			Severity: SeverityError,
			Code:     CodeBaseDirUnresolved,
			Message:  fmt.Sprintf("cannot resolve project directory: %v", err),
			Path:     baseDir,
			Cause:    err,
		}
	}
	return abs, nil
}

func (d *Discovery) overrideSources(baseDir string) []Source {
	sources := make([]Source, 0, len(d.overrides))
	for i, p := range d.overrides {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		sources = append(sources, Source{Path: filepath.Clean(p), Index: i})
	}
	return sources
}

// scan lists dir without recursion and returns matching regular files.
func (d *Discovery) scan(dir string) ([]string, []Diagnostic) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, []Diagnostic{{
				Severity: SeverityWarning,
				Code:     CodeScanDirMissing,
				Message:  "scan directory does not exist",
				Path:     dir,
				Cause:    err,
			}}
		}
		return nil, []Diagnostic{{
			Severity: SeverityError,
			Code:     CodeScanDirUnreadable,
			Message:  fmt.Sprintf("cannot list scan directory: %v", err),
			Path:     dir,
			Cause:    err,
		}}
	}

	var (
		paths []string
		diags []Diagnostic
	)
	for _, entry := range entries {
		if !d.Matches(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		// Stat follows symlinks, so a link to a regular file qualifies.
		info, err := os.Stat(path)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeSourceEntryUnreadable,
				Message:  fmt.Sprintf("skipping unreadable entry: %v", err),
				Path:     path,
				Cause:    err,
			})
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	return paths, diags
}

func escapeMeta(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
