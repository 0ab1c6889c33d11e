// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mcpick/mcpick/internal/servers"
)

// promptFunc adapts a function to Prompter.
type promptFunc func(ctx context.Context, title string, choices []Choice) ([]string, error)

func (f promptFunc) Prompt(ctx context.Context, title string, choices []Choice) ([]string, error) {
	return f(ctx, title, choices)
}

func sampleTable() *servers.Table {
	tbl := servers.NewTable()
	tbl.Set("git", servers.NewEntry("uvx", "mcp-server-git", "--repository", "."))
	tbl.Set("fs", servers.NewEntry("npx"))
	tbl.Set("web", servers.Entry{})
	return tbl
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tbl := sampleTable()
	got := Describe(tbl)
	want := []Choice{
		{Name: "git", Summary: "uvx", Detail: "mcp-server-git --repository ."},
		{Name: "fs", Summary: "npx", Detail: ""},
		{Name: "web", Summary: "", Detail: ""},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Describe() = %+v, want %+v", got, want)
	}

	if e, _ := tbl.Get("git"); len(e.Args) != 3 {
		t.Error("Describe mutated an entry")
	}
}

func TestChoice_Title(t *testing.T) {
	t.Parallel()

	if got := (Choice{Name: "git", Summary: "uvx"}).Title(); got != "git  uvx" {
		t.Errorf("Title() = %q", got)
	}
	if got := (Choice{Name: "web"}).Title(); got != "web" {
		t.Errorf("Title() = %q", got)
	}
}

func TestPick(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prompter Prompter
		want     []string
		wantErr  error
	}{
		{"static subset keeps table order", StaticPrompter{Names: []string{"web", "git"}}, []string{"git", "web"}, nil},
		{"all", StaticPrompter{All: true}, []string{"git", "fs", "web"}, nil},
		{"zero chosen", StaticPrompter{}, []string{}, nil},
		{"unknown name", StaticPrompter{Names: []string{"git", "nope"}}, nil, ErrUnknownEntry},
		{
			"dismissed",
			promptFunc(func(context.Context, string, []Choice) ([]string, error) { return nil, ErrDismissed }),
			[]string{},
			nil,
		},
		{
			"wrapped dismissal",
			promptFunc(func(context.Context, string, []Choice) ([]string, error) {
				return nil, errors.Join(errors.New("user aborted"), ErrDismissed)
			}),
			[]string{},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Pick(context.Background(), sampleTable(), tt.prompter)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Pick() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Pick() error = %v", err)
			}
			if names := got.Names(); !slices.Equal(names, tt.want) {
				t.Errorf("Pick() = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestPick_UnknownEntryDetails(t *testing.T) {
	t.Parallel()

	_, err := Pick(context.Background(), sampleTable(), StaticPrompter{Names: []string{"a", "git", "b"}})
	var unknown *UnknownEntryError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownEntryError", err)
	}
	if !slices.Equal(unknown.Names, []string{"a", "b"}) {
		t.Errorf("Names = %v", unknown.Names)
	}
	if !slices.Equal(unknown.Available, []string{"git", "fs", "web"}) {
		t.Errorf("Available = %v", unknown.Available)
	}
	if unknown.Error() != "unknown MCP server(s): a, b" {
		t.Errorf("Error() = %q", unknown.Error())
	}
}

func TestPick_EmptyTable(t *testing.T) {
	t.Parallel()

	called := false
	p := promptFunc(func(context.Context, string, []Choice) ([]string, error) {
		called = true
		return nil, nil
	})
	if _, err := Pick(context.Background(), servers.NewTable(), p); !errors.Is(err, ErrNothingToSelect) {
		t.Errorf("err = %v, want ErrNothingToSelect", err)
	}
	if called {
		t.Error("prompter called for an empty table")
	}
}

func TestPick_PrompterErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("tty gone")
	p := promptFunc(func(context.Context, string, []Choice) ([]string, error) { return nil, boom })
	if _, err := Pick(context.Background(), sampleTable(), p); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestStaticPrompter_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (StaticPrompter{All: true}).Prompt(ctx, "", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}
