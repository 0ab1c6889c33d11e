// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/buger/jsonparser"
	"golang.org/x/sync/errgroup"

	"github.com/mcpick/mcpick/internal/discovery"
	"github.com/mcpick/mcpick/internal/servers"
)

// DefaultConcurrency bounds simultaneous file reads.
const DefaultConcurrency = 8

// Diagnostic codes produced while loading.
const (
	CodeSourceReadFailed  = "source_read_failed"
	CodeSourceParseFailed = "source_parse_failed"
	CodeEntryInvalid      = "entry_invalid"
)

// errNotObject marks a document whose top-level value is not a JSON object.
var errNotObject = errors.New("top-level value is not a JSON object")

type (
	// Override records a name whose entry was replaced by a later source.
	Override struct {
		Name   string
		Loser  string
		Winner string
	}

	// Result is the merged table plus everything learned while building it.
	Result struct {
		Table *servers.Table
		// Origins maps each name to the source path its winning entry came from.
		Origins     map[string]string
		Overridden  []Override
		Diagnostics []discovery.Diagnostic
		// SourcesLoaded counts sources that were read and parsed.
		SourcesLoaded int
	}

	// Option configures a Loader.
	Option func(*Loader)

	// Loader reads and merges server files.
	Loader struct {
		limit    int
		readFile func(string) ([]byte, error)
	}

	readResult struct {
		data []byte
		err  error
	}
)

// WithConcurrency sets the number of files read at once. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(l *Loader) { l.readFile = fn }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{limit: DefaultConcurrency, readFile: os.ReadFile}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every source and folds the entries in source order.
// The only error is the context's.
func (l *Loader) Load(ctx context.Context, sources []discovery.Source) (Result, error) {
	reads := make([]readResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := l.readFile(src.Path)
			reads[i] = readResult{data: data, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Table:   servers.NewTable(),
		Origins: make(map[string]string),
	}
	for i, src := range sources {
		l.fold(&res, src, reads[i])
	}

	for _, o := range res.Overridden {
		slog.Debug("server entry overridden", "name", o.Name, "loser", o.Loser, "winner", o.Winner)
	}
	slog.Debug("loaded sources", "sources", len(sources), "loaded", res.SourcesLoaded, "entries", res.Table.Len())

	return res, nil
}

func (l *Loader) fold(res *Result, src discovery.Source, read readResult) {
	if read.err != nil {
		res.Diagnostics = append(res.Diagnostics, discovery.Diagnostic{
			Severity: discovery.SeverityError,
			Code:     CodeSourceReadFailed,
			Message:  fmt.Sprintf("cannot read source: %v", read.err),
			Path:     src.Path,
			Cause:    read.err,
		})
		return
	}

	entries, diags, err := parseDocument(read.data)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, discovery.Diagnostic{
			Severity: discovery.SeverityError,
			Code:     CodeSourceParseFailed,
			Message:  fmt.Sprintf("skipping source: %v", err),
			Path:     src.Path,
			Cause:    err,
		})
		return
	}
	res.SourcesLoaded++

	for i := range diags {
		diags[i].Path = src.Path
	}
	res.Diagnostics = append(res.Diagnostics, diags...)

	for _, ne := range entries {
		if res.Table.Set(ne.name, ne.entry) {
			res.Overridden = append(res.Overridden, Override{
				Name:   ne.name,
				Loser:  res.Origins[ne.name],
				Winner: src.Path,
			})
		}
		res.Origins[ne.name] = src.Path
	}
}

type namedEntry struct {
	name  string
	entry servers.Entry
}

// parseDocument extracts the entries under the container key in document
// order. A missing or non-object container yields no entries and no error.
func parseDocument(data []byte) ([]namedEntry, []discovery.Diagnostic, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, nil, errors.New("invalid JSON")
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil, errNotObject
	}

	container, dataType, _, err := jsonparser.Get(trimmed, servers.ContainerKey)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		slog.Debug("document has no container key", "key", servers.ContainerKey)
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if dataType != jsonparser.Object {
		slog.Debug("container is not an object", "key", servers.ContainerKey, "type", dataType.String())
		return nil, nil, nil
	}

	var (
		entries []namedEntry
		diags   []discovery.Diagnostic
	)
	err = jsonparser.ObjectEach(container, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("decode entry name: %w", err)
		}
		if vt != jsonparser.Object {
			diags = append(diags, invalidEntry(name, fmt.Errorf("entry is a %s, not an object", vt)))
			return nil
		}
		var entry servers.Entry
		if err := json.Unmarshal(value, &entry); err != nil {
			diags = append(diags, invalidEntry(name, err))
			return nil
		}
		entries = append(entries, namedEntry{name: name, entry: entry})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, diags, nil
}

func invalidEntry(name string, err error) discovery.Diagnostic {
	return discovery.Diagnostic{
		Severity: discovery.SeverityWarning,
		Code:     CodeEntryInvalid,
		Message:  fmt.Sprintf("skipping entry %q: %v", name, err),
		Cause:    err,
	}
}
