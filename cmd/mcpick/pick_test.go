// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpick/mcpick/internal/selector"
	"github.com/mcpick/mcpick/internal/testutil"
	"github.com/mcpick/mcpick/pkg/types"
)

func readOutput(t *testing.T, stdout string) string {
	t.Helper()

	path := strings.TrimSpace(stdout)
	if path == "" {
		t.Fatal("expected a path on stdout")
	}
	if !strings.HasPrefix(filepath.Base(path), selector.FilePrefix) {
		t.Errorf("path %q does not start with %q", path, selector.FilePrefix)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPick_SelectFlag(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(t, "pick", "--select", "fs,shared"); err != nil {
		t.Fatalf("pick error = %v (stderr %q)", err, env.stderr.String())
	}

	got := readOutput(t, env.stdout.String())
	want := `{
  "mcpServers": {
    "shared": {
      "command": "new",
      "args": [
        "x",
        "y"
      ]
    },
    "fs": {
      "command": "npx",
      "args": [
        "-y",
        "server-filesystem",
        "."
      ],
      "env": {
        "DEBUG": "1"
      }
    }
  }
}
`
	if got != want {
		t.Errorf("written document =\n%s\nwant\n%s", got, want)
	}
	if env.prompts.titles != nil {
		t.Error("interactive prompt shown despite --select")
	}
	if filepath.Dir(strings.TrimSpace(env.stdout.String())) != env.outDir {
		t.Errorf("written outside output dir %s", env.outDir)
	}
}

func TestPick_All(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(t, "pick", "--all"); err != nil {
		t.Fatalf("pick --all error = %v", err)
	}

	got := readOutput(t, env.stdout.String())
	for _, name := range []string{`"github"`, `"shared"`, `"fs"`} {
		if !strings.Contains(got, name) {
			t.Errorf("document missing %s:\n%s", name, got)
		}
	}
	if strings.Index(got, `"github"`) > strings.Index(got, `"shared"`) || strings.Index(got, `"shared"`) > strings.Index(got, `"fs"`) {
		t.Errorf("entries not in merge order:\n%s", got)
	}
}

func TestPick_Interactive(t *testing.T) {
	env := newTestEnv(t)
	env.prompts.names = []string{"github"}

	if err := env.run(t, "pick", "--title", "Servers for today"); err != nil {
		t.Fatalf("pick error = %v", err)
	}

	if len(env.prompts.titles) != 1 || env.prompts.titles[0] != "Servers for today" {
		t.Errorf("prompt titles = %q", env.prompts.titles)
	}
	if env.prompts.choicesLen != 3 {
		t.Errorf("prompt got %d choices, want 3", env.prompts.choicesLen)
	}
	if got := readOutput(t, env.stdout.String()); !strings.Contains(got, `"gh-mcp"`) {
		t.Errorf("document = %s", got)
	}
}

func TestPick_NoOutputOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		promptErr  error
		wantStderr string
	}{
		{name: "dismissed", promptErr: selector.ErrDismissed, wantStderr: "No servers selected."},
		{name: "zero chosen", names: []string{}, wantStderr: "No servers selected."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.prompts.names = tt.names
			env.prompts.err = tt.promptErr

			if err := env.run(t, "pick"); err != nil {
				t.Fatalf("pick error = %v, want nil", err)
			}
			if env.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", env.stdout.String())
			}
			if !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", env.stderr.String(), tt.wantStderr)
			}
			if entries, _ := os.ReadDir(env.outDir); len(entries) != 0 {
				t.Errorf("output dir has %d files, want none", len(entries))
			}
		})
	}
}

func TestPick_NothingFound(t *testing.T) {
	env := newTestEnv(t)
	if err := os.RemoveAll(filepath.Join(env.project, ".claude")); err != nil {
		t.Fatal(err)
	}

	if err := env.run(t, "pick", "--all"); err != nil {
		t.Fatalf("pick error = %v, want nil", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout.String())
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, "scan directory does not exist") {
		t.Errorf("stderr missing scan dir warning: %q", stderr)
	}
	if !strings.Contains(stderr, "No MCP servers found") {
		t.Errorf("stderr missing nothing-found message: %q", stderr)
	}
}

func TestPick_UnknownName(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, "pick", "--select", "github,nope")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitUsage {
		t.Fatalf("error = %v, want ExitError with code %d", err, types.ExitUsage)
	}
	if !errors.Is(err, selector.ErrUnknownEntry) {
		t.Errorf("error = %v, want ErrUnknownEntry in chain", err)
	}
	if !strings.Contains(env.stderr.String(), "nope") {
		t.Errorf("stderr = %q, want unknown name mentioned", env.stderr.String())
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout.String())
	}
}

func TestPick_WriteFailure(t *testing.T) {
	env := newTestEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	err := env.run(t, "--output-dir", filepath.Join(blocker, "sub"), "pick", "--all")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("error = %v, want ExitError with code %d", err, types.ExitFailure)
	}
	if !errors.Is(err, selector.ErrWriteFailed) {
		t.Errorf("error = %v, want ErrWriteFailed in chain", err)
	}
	if !strings.Contains(env.stderr.String(), "write MCP config") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestPick_SelectAndAllAreExclusive(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(t, "pick", "--all", "--select", "github"); err == nil {
		t.Fatal("expected an error for --all with --select")
	}
}

func TestPick_SourceFlagReplacesScan(t *testing.T) {
	env := newTestEnv(t)
	other := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(other, []byte(`{"mcpServers":{"solo":{"command":"solo-mcp"}}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := env.run(t, "--source", other, "pick", "--all"); err != nil {
		t.Fatalf("pick error = %v", err)
	}

	got := readOutput(t, env.stdout.String())
	if !strings.Contains(got, `"solo"`) || strings.Contains(got, `"github"`) {
		t.Errorf("document = %s, want only the --source entries", got)
	}
}

func TestPick_DefaultsToWorkingDirectory(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(testutil.MustChdir(t, env.project))

	if err := env.runRaw(t, "pick", "--select", "github"); err != nil {
		t.Fatalf("pick error = %v", err)
	}
	if got := readOutput(t, env.stdout.String()); !strings.Contains(got, `"gh-mcp"`) {
		t.Errorf("document = %s", got)
	}
}
