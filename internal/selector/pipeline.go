// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcpick/mcpick/internal/discovery"
	"github.com/mcpick/mcpick/internal/loader"
	"github.com/mcpick/mcpick/internal/servers"
)

// NoOutput is the Outcome.Path of every run that wrote nothing.
const NoOutput = ""

const (
	// StatusWritten means a file was written to Outcome.Path.
	StatusWritten Status = iota + 1
	// StatusNothingFound means no entries were discovered.
	StatusNothingFound
	// StatusDeclined means the prompt was dismissed or nothing was chosen.
	StatusDeclined
)

type (
	// Status classifies how a run ended.
	Status int

	// Discoverer finds sources for a project.
	Discoverer interface {
		Discover(ctx context.Context, baseDir string) (discovery.Result, error)
	}

	// SourceLoader merges sources into a table.
	SourceLoader interface {
		Load(ctx context.Context, sources []discovery.Source) (loader.Result, error)
	}

	// Request is the input to one pipeline run.
	Request struct {
		// BaseDir is the project root. Empty means the working directory.
		BaseDir string
		// Prompter chooses the entries. Run fails with ErrNoPrompter when it is nil.
		Prompter Prompter
		// Title heads the prompt. Empty means DefaultTitle.
		Title string
	}

	// Outcome is everything a run produced.
	Outcome struct {
		// Path is the written file, or NoOutput.
		Path   string
		Status Status
		// Table is the merged table. Never nil after Collect.
		Table *servers.Table
		// Selection is the chosen sub-table. Nil until the selection step ran.
		Selection *servers.Table
		Discovery discovery.Result
		Origins   map[string]string
		// Overridden lists names replaced by later sources.
		Overridden []loader.Override
		// Diagnostics holds discovery diagnostics followed by loader diagnostics.
		Diagnostics []discovery.Diagnostic
	}

	// Pipeline runs discovery, loading, selection and writing in order.
	Pipeline struct {
		discoverer Discoverer
		loader     SourceLoader
		writer     Writer
	}
)

// String returns a lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusNothingFound:
		return "nothing-found"
	case StatusDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// NewPipeline wires the stages together.
func NewPipeline(d Discoverer, l SourceLoader, w Writer) *Pipeline {
	return &Pipeline{discoverer: d, loader: l, writer: w}
}

// Collect runs discovery and loading only. Status is StatusNothingFound when
// the merged table is empty and zero otherwise.
func (p *Pipeline) Collect(ctx context.Context, baseDir string) (Outcome, error) {
	disc, err := p.discoverer.Discover(ctx, baseDir)
	if err != nil {
		return Outcome{}, err
	}

	loaded, err := p.loader.Load(ctx, disc.Sources)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Path:        NoOutput,
		Table:       loaded.Table,
		Discovery:   disc,
		Origins:     loaded.Origins,
		Overridden:  loaded.Overridden,
		Diagnostics: append(append([]discovery.Diagnostic{}, disc.Diagnostics...), loaded.Diagnostics...),
	}
	if out.Table == nil {
		out.Table = servers.NewTable()
	}
	if out.Table.Len() == 0 {
		out.Status = StatusNothingFound
	}
	return out, nil
}

// Run executes the whole pipeline. Nothing found, a dismissed prompt and an
// empty choice all return Path == NoOutput with a nil error. A write failure
// returns a non-nil error and NoOutput.
func (p *Pipeline) Run(ctx context.Context, req Request) (Outcome, error) {
	out, err := p.Collect(ctx, req.BaseDir)
	if err != nil {
		return out, err
	}
	if out.Status == StatusNothingFound {
		slog.Debug("no MCP servers found", "base_dir", out.Discovery.BaseDir)
		return out, nil
	}

	title := req.Title
	if title == "" {
		title = DefaultTitle
	}

	selection, err := pickWithTitle(ctx, out.Table, req.Prompter, title)
	if errors.Is(err, ErrNothingToSelect) {
		out.Status = StatusNothingFound
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.Selection = selection

	if selection.Len() == 0 {
		out.Status = StatusDeclined
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}

	path, err := p.writer.Write(selection)
	if err != nil {
		return out, err
	}
	out.Path = path
	out.Status = StatusWritten
	return out, nil
}
