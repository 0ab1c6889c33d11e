// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpick/mcpick/internal/config"
	"github.com/mcpick/mcpick/internal/launcher"
	"github.com/mcpick/mcpick/internal/selector"
	"github.com/mcpick/mcpick/internal/testutil"
)

// Tests in this package execute commands that install the App's logger as the
// slog default, so they do not run in parallel.

type (
	stubConfig struct {
		cfg *config.Config
		err error
	}

	stubPrompts struct {
		names   []string
		err     error
		args    string
		argsErr error

		titles     []string
		argsAsked  int
		choicesLen int
	}

	recordingLauncher struct {
		specs []launcher.Spec
		code  int
		err   error
	}

	testEnv struct {
		app      *App
		project  string
		outDir   string
		prompts  *stubPrompts
		launcher *recordingLauncher
		stdout   *bytes.Buffer
		stderr   *bytes.Buffer
	}
)

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (p *stubPrompts) Prompt(_ context.Context, title string, choices []selector.Choice) ([]string, error) {
	p.titles = append(p.titles, title)
	p.choicesLen = len(choices)
	return p.names, p.err
}

func (p *stubPrompts) PromptArgs(context.Context, string) (string, error) {
	p.argsAsked++
	return p.args, p.argsErr
}

func (l *recordingLauncher) Launch(_ context.Context, spec launcher.Spec) (int, error) {
	l.specs = append(l.specs, spec)
	return l.code, l.err
}

// newTestEnv builds an App around a temporary project whose .claude
// directory holds two server files where "shared" is overridden by the
// second file.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	project := testutil.NewProject(t)
	testutil.WriteServersFile(t, project, "a.mcpServers.json", `{
  "mcpServers": {
    "github": {"command": "gh-mcp", "args": ["--stdio"]},
    "shared": {"command": "old"}
  }
}`)
	testutil.WriteServersFile(t, project, "b.mcpServers.json", `{
  "mcpServers": {
    "shared": {"command": "new", "args": ["x", "y"]},
    "fs": {"command": "npx", "args": ["-y", "server-filesystem", "."], "env": {"DEBUG": "1"}}
  }
}`)

	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")

	env := &testEnv{
		project:  project,
		outDir:   cfg.OutputDir,
		prompts:  &stubPrompts{},
		launcher: &recordingLauncher{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
	}

	app, err := NewApp(Dependencies{
		Config:   stubConfig{cfg: cfg},
		Prompts:  func(*config.Config, io.Reader, io.Writer) PromptService { return env.prompts },
		Launcher: env.launcher,
		Stdin:    strings.NewReader(""),
		Stdout:   env.stdout,
		Stderr:   env.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	env.app = app
	return env
}

// run executes the root command with args, scoped to the env's project.
func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	return e.runRaw(t, append([]string{"--dir", e.project}, args...)...)
}

// runRaw executes the root command with args as given.
func (e *testEnv) runRaw(t *testing.T, args ...string) error {
	t.Helper()

	root := NewRootCommand(e.app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}
