// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/mcpick/mcpick/internal/discovery"
	"github.com/mcpick/mcpick/internal/loader"
	"github.com/mcpick/mcpick/internal/servers"
	"github.com/mcpick/mcpick/internal/testutil"
)

type recordingWriter struct {
	calls int
	err   error
}

func (w *recordingWriter) Write(*servers.Table) (string, error) {
	w.calls++
	if w.err != nil {
		return "", w.err
	}
	return "/scratch/out.json", nil
}

func newTestPipeline(w Writer) *Pipeline {
	return NewPipeline(discovery.New(nil), loader.New(), w)
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := testutil.NewProject(t)
	testutil.WriteServersFile(t, root, "a.mcpServers.json", `{"mcpServers":{"git":{"command":"old"},"fs":{"command":"npx"}}}`)
	testutil.WriteServersFile(t, root, "b.mcpServers.json", `{"mcpServers":{"git":{"command":"uvx","args":["mcp-server-git"]}}}`)
	testutil.WriteServersFile(t, root, "c.mcpServers.json", `{not json`)
	return root
}

func TestPipeline_RunWritesSelection(t *testing.T) {
	t.Parallel()

	root := writeProject(t)
	m := NewMaterializer(t.TempDir())

	out, err := newTestPipeline(m).Run(context.Background(), Request{
		BaseDir:  root,
		Prompter: StaticPrompter{Names: []string{"git"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Status != StatusWritten || out.Path == NoOutput {
		t.Fatalf("Outcome = %v %q", out.Status, out.Path)
	}
	if got := out.Table.Names(); !slices.Equal(got, []string{"git", "fs"}) {
		t.Errorf("Table = %v", got)
	}
	if got := out.Selection.Names(); !slices.Equal(got, []string{"git"}) {
		t.Errorf("Selection = %v", got)
	}
	if len(out.Overridden) != 1 || out.Overridden[0].Name != "git" {
		t.Errorf("Overridden = %v", out.Overridden)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Code != loader.CodeSourceParseFailed {
		t.Errorf("Diagnostics = %v", out.Diagnostics)
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"mcpServers\": {\n    \"git\": {\n      \"command\": \"uvx\",\n      \"args\": [\n        \"mcp-server-git\"\n      ]\n    }\n  }\n}\n"
	if string(data) != want {
		t.Errorf("written =\n%s", data)
	}
}

func TestPipeline_NoOutputOutcomes(t *testing.T) {
	t.Parallel()

	dismiss := promptFunc(func(context.Context, string, []Choice) ([]string, error) { return nil, ErrDismissed })

	tests := []struct {
		name       string
		project    func(t *testing.T) string
		prompter   Prompter
		wantStatus Status
	}{
		{"empty scan dir", func(t *testing.T) string { return testutil.NewProject(t) }, StaticPrompter{All: true}, StatusNothingFound},
		{"missing scan dir", func(t *testing.T) string { return t.TempDir() }, StaticPrompter{All: true}, StatusNothingFound},
		{"zero selected", writeProject, StaticPrompter{}, StatusDeclined},
		{"dismissed", writeProject, dismiss, StatusDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := &recordingWriter{}
			out, err := newTestPipeline(w).Run(context.Background(), Request{
				BaseDir:  tt.project(t),
				Prompter: tt.prompter,
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out.Path != NoOutput {
				t.Errorf("Path = %q, want NoOutput", out.Path)
			}
			if out.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", out.Status, tt.wantStatus)
			}
			if w.calls != 0 {
				t.Errorf("writer called %d times", w.calls)
			}
		})
	}
}

func TestPipeline_WriteFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	w := &recordingWriter{err: boom}
	out, err := newTestPipeline(w).Run(context.Background(), Request{
		BaseDir:  writeProject(t),
		Prompter: StaticPrompter{All: true},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if out.Path != NoOutput {
		t.Errorf("Path = %q", out.Path)
	}
}

func TestPipeline_UnknownSelection(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	_, err := newTestPipeline(w).Run(context.Background(), Request{
		BaseDir:  writeProject(t),
		Prompter: StaticPrompter{Names: []string{"nope"}},
	})
	if !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("err = %v, want ErrUnknownEntry", err)
	}
	if w.calls != 0 {
		t.Error("writer called for an invalid selection")
	}
}

func TestPipeline_NilPrompter(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	out, err := newTestPipeline(w).Run(context.Background(), Request{BaseDir: writeProject(t)})
	if !errors.Is(err, ErrNoPrompter) {
		t.Fatalf("err = %v, want ErrNoPrompter", err)
	}
	if out.Path != NoOutput || w.calls != 0 {
		t.Errorf("Path = %q, writer calls = %d, want no output", out.Path, w.calls)
	}
}

func TestPipeline_CanceledBeforeWrite(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	w := &recordingWriter{}
	p := promptFunc(func(_ context.Context, _ string, choices []Choice) ([]string, error) {
		cancel()
		return []string{choices[0].Name}, nil
	})

	_, err := newTestPipeline(w).Run(ctx, Request{BaseDir: writeProject(t), Prompter: p})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if w.calls != 0 {
		t.Error("writer called after cancellation")
	}
}

func TestPipeline_CustomTitle(t *testing.T) {
	t.Parallel()

	var gotTitle string
	p := promptFunc(func(_ context.Context, title string, _ []Choice) ([]string, error) {
		gotTitle = title
		return nil, nil
	})
	if _, err := newTestPipeline(&recordingWriter{}).Run(context.Background(), Request{
		BaseDir: writeProject(t), Prompter: p, Title: "Pick for run",
	}); err != nil {
		t.Fatal(err)
	}
	if gotTitle != "Pick for run" {
		t.Errorf("title = %q", gotTitle)
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for s, want := range map[Status]string{
		StatusWritten: "written", StatusNothingFound: "nothing-found", StatusDeclined: "declined", 0: "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
