// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpick/mcpick/internal/testutil"
)

func TestList_Table(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(t, "list"); err != nil {
		t.Fatalf("list error = %v", err)
	}

	out := env.stdout.String()
	for _, want := range []string{"NAME", "github", "gh-mcp", "--stdio", "fs", "-y server-filesystem ."} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// "shared" comes from the later file.
	sharedLine := ""
	for line := range strings.SplitSeq(out, "\n") {
		if strings.Contains(line, "shared") {
			sharedLine = line
		}
	}
	if !strings.Contains(sharedLine, "new") || !strings.Contains(sharedLine, filepath.Join(".claude", "b.mcpServers.json")) {
		t.Errorf("shared row = %q, want the winning entry from b.mcpServers.json", sharedLine)
	}
	if strings.Index(out, "github") > strings.Index(out, "shared") || strings.Index(out, "shared") > strings.Index(out, "fs ") {
		t.Errorf("rows not in merge order:\n%s", out)
	}
}

func TestList_RemoteServerShowsURL(t *testing.T) {
	env := newTestEnv(t)
	testutil.WriteServersFile(t, env.project, "c.mcpServers.json",
		`{"mcpServers":{"docs":{"type":"http","url":"https://mcp.example.com/docs"}}}`)

	if err := env.run(t, "list"); err != nil {
		t.Fatalf("list error = %v", err)
	}

	for line := range strings.SplitSeq(env.stdout.String(), "\n") {
		if strings.Contains(line, "docs") {
			if !strings.Contains(line, "https://mcp.example.com/docs") {
				t.Errorf("docs row = %q, want the url in place of a command", line)
			}
			return
		}
	}
	t.Errorf("no docs row in:\n%s", env.stdout.String())
}

func TestList_JSON(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(t, "list", "--json"); err != nil {
		t.Fatalf("list --json error = %v", err)
	}

	want := `{
  "mcpServers": {
    "github": {
      "command": "gh-mcp",
      "args": [
        "--stdio"
      ]
    },
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
	if got := env.stdout.String(); got != want {
		t.Errorf("list --json =\n%s\nwant\n%s", got, want)
	}
	if entries, _ := os.ReadDir(env.outDir); len(entries) != 0 {
		t.Error("list wrote a file")
	}
}

func TestList_JSONEmpty(t *testing.T) {
	env := newTestEnv(t)
	if err := os.RemoveAll(filepath.Join(env.project, ".claude")); err != nil {
		t.Fatal(err)
	}

	if err := env.run(t, "list", "--json"); err != nil {
		t.Fatalf("list --json error = %v", err)
	}
	if got, want := env.stdout.String(), "{\n  \"mcpServers\": {}\n}\n"; got != want {
		t.Errorf("list --json = %q, want %q", got, want)
	}
}

func TestList_Empty(t *testing.T) {
	env := newTestEnv(t)
	if err := os.RemoveAll(filepath.Join(env.project, ".claude")); err != nil {
		t.Fatal(err)
	}

	if err := env.run(t, "list"); err != nil {
		t.Fatalf("list error = %v", err)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout.String())
	}
	if !strings.Contains(env.stderr.String(), "No MCP servers found") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
}

func TestList_InvalidSourceReported(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(filepath.Join(env.project, ".claude", "c.mcpServers.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := env.run(t, "list"); err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(env.stderr.String(), "c.mcpServers.json") {
		t.Errorf("stderr = %q, want the broken file reported", env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "github") {
		t.Error("valid files were not listed")
	}
}

func TestList_WatchRejectsOverride(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.project, ".claude", "a.mcpServers.json")

	err := env.run(t, "--source", src, "list", "--watch")
	if !errors.Is(err, errWatchNeedsScan) {
		t.Fatalf("error = %v, want errWatchNeedsScan", err)
	}
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	base := filepath.Join(string(filepath.Separator), "proj")
	tests := []struct {
		base, path, want string
	}{
		{base, filepath.Join(base, ".claude", "x.json"), filepath.Join(".claude", "x.json")},
		{base, filepath.Join(string(filepath.Separator), "elsewhere", "x.json"), filepath.Join(string(filepath.Separator), "elsewhere", "x.json")},
		{"", "/a/b", "/a/b"},
		{base, "", ""},
	}
	for _, tt := range tests {
		if got := displayPath(tt.base, tt.path); got != tt.want {
			t.Errorf("displayPath(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
