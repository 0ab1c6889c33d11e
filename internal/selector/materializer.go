// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mcpick/mcpick/internal/issue"
	"github.com/mcpick/mcpick/internal/servers"
)

// FilePrefix starts every written file name.
const FilePrefix = "mcpServers-"

// createAttempts bounds retries after an O_EXCL name collision.
const createAttempts = 3

type (
	// Writer persists a selection and returns the file path.
	Writer interface {
		Write(selection *servers.Table) (string, error)
	}

	// MaterializerOption configures a Materializer.
	MaterializerOption func(*Materializer)

	// Materializer writes selections as new files under a scratch directory.
	Materializer struct {
		dir   string
		newID func() (uuid.UUID, error)
	}
)

// WithIDSource replaces uuid.NewV7 for file names.
func WithIDSource(fn func() (uuid.UUID, error)) MaterializerOption {
	return func(m *Materializer) { m.newID = fn }
}

// NewMaterializer writes into dir, or os.TempDir() when dir is empty.
func NewMaterializer(dir string, opts ...MaterializerOption) *Materializer {
	m := &Materializer{dir: dir, newID: uuid.NewV7}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the directory files are written to.
func (m *Materializer) Dir() string {
	if m.dir == "" {
		return os.TempDir()
	}
	return m.dir
}

// Write creates <dir>/mcpServers-<uuidv7>.json holding {"mcpServers": selection}.
// The file is created exclusively, so no call overwrites an existing file.
func (m *Materializer) Write(selection *servers.Table) (string, error) {
	data, err := servers.NewDocument(selection).Bytes()
	if err != nil {
		return "", err
	}

	dir := m.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", writeError(dir, err)
	}

	for range createAttempts {
		id, err := m.newID()
		if err != nil {
			return "", writeError(dir, fmt.Errorf("generate file name: %w", err))
		}
		path := filepath.Join(dir, FilePrefix+id.String()+".json")

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			slog.Debug("output name collision, retrying", "path", path)
			continue
		}
		if err != nil {
			return "", writeError(path, err)
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", writeError(path, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", writeError(path, err)
		}

		slog.Debug("wrote MCP config", "path", path, "entries", selection.Len())
		return path, nil
	}

	return "", writeError(dir, fmt.Errorf("could not create a unique file after %d attempts", createAttempts))
}

func writeError(resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation("write MCP config").
		WithResource(resource).
		WithSuggestion("Check that the output directory exists and is writable").
		WithSuggestion("Set output_dir in config.cue or pass --output-dir to use another directory").
		Wrap(fmt.Errorf("%w: %w", ErrWriteFailed, err)).
		BuildError()
}
