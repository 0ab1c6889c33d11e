// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcpick/mcpick/internal/servers"
)

// DefaultTitle heads the interactive selection.
const DefaultTitle = "Select MCP servers"

var (
	// ErrDismissed is returned by a Prompter when the user aborts the prompt.
	ErrDismissed = errors.New("selection dismissed")
	// ErrNothingToSelect is returned by Pick when the table is empty.
	ErrNothingToSelect = errors.New("no MCP servers to select")
	// ErrNoPrompter is returned when a selection is requested without a Prompter.
	ErrNoPrompter = errors.New("no prompter configured")
	// ErrUnknownEntry is the sentinel error wrapped by UnknownEntryError.
	ErrUnknownEntry = errors.New("unknown MCP server")
	// ErrWriteFailed is wrapped by every Materializer write error.
	ErrWriteFailed = errors.New("write failed")
)

type (
	// Choice is one selectable entry.
	Choice struct {
		// Name is the entry name and the value returned when chosen.
		Name string
		// Summary is the entry's command.
		Summary string
		// Detail is the entry's args joined by single spaces.
		Detail string
	}

	// Prompter asks the user to choose among choices and returns the chosen names.
	Prompter interface {
		Prompt(ctx context.Context, title string, choices []Choice) ([]string, error)
	}

	// StaticPrompter answers without interaction, from names given up front.
	StaticPrompter struct {
		// Names are returned as-is, including names that are not offered.
		Names []string
		// All selects every offered choice and ignores Names.
		All bool
	}

	// UnknownEntryError is returned when a selection names entries that are not in the table.
	UnknownEntryError struct {
		Names     []string
		Available []string
	}
)

// Prompt returns the configured names, or every choice when All is set.
func (s StaticPrompter) Prompt(ctx context.Context, _ string, choices []Choice) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.All {
		return s.Names, nil
	}
	names := make([]string, 0, len(choices))
	for _, c := range choices {
		names = append(names, c.Name)
	}
	return names, nil
}

// Error implements the error interface.
func (e *UnknownEntryError) Error() string {
	return fmt.Sprintf("unknown MCP server(s): %s", strings.Join(e.Names, ", "))
}

// Unwrap returns ErrUnknownEntry for errors.Is() compatibility.
func (e *UnknownEntryError) Unwrap() error { return ErrUnknownEntry }

// Title returns the label shown for the choice: the name and its command.
func (c Choice) Title() string {
	if c.Summary == "" {
		return c.Name
	}
	return c.Name + "  " + c.Summary
}

// Describe returns one choice per entry in table order.
func Describe(table *servers.Table) []Choice {
	choices := make([]Choice, 0, table.Len())
	for name, entry := range table.All() {
		choices = append(choices, Choice{
			Name:    name,
			Summary: entry.Command,
			Detail:  entry.ArgLine(),
		})
	}
	return choices
}

// Pick asks p to choose among the entries of table and returns the chosen
// sub-table in table order. A dismissed prompt or an empty answer yields an
// empty selection and a nil error.
func Pick(ctx context.Context, table *servers.Table, p Prompter) (*servers.Table, error) {
	return pickWithTitle(ctx, table, p, DefaultTitle)
}

func pickWithTitle(ctx context.Context, table *servers.Table, p Prompter, title string) (*servers.Table, error) {
	if table.Len() == 0 {
		return nil, ErrNothingToSelect
	}
	if p == nil {
		return nil, ErrNoPrompter
	}

	names, err := p.Prompt(ctx, title, Describe(table))
	if errors.Is(err, ErrDismissed) {
		return servers.NewTable(), nil
	}
	if err != nil {
		return nil, err
	}

	selection, missing := table.Subset(names)
	if len(missing) > 0 {
		return nil, &UnknownEntryError{Names: missing, Available: table.Names()}
	}
	return selection, nil
}
