// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"

	"github.com/charmbracelet/huh"
)

// Option represents a selectable option with a display title and value.
type Option[T comparable] struct {
	// Title is the display text for the option.
	Title string
	// Value is the underlying value of the option.
	Value T
	// Selected indicates if this option is pre-selected.
	Selected bool
}

// MultiChooseOptions configures the MultiChoose component.
type MultiChooseOptions[T comparable] struct {
	// Title is the title/prompt displayed above the options.
	Title string
	// Description provides additional context below the title.
	Description string
	// Options is the list of options to choose from.
	Options []Option[T]
	// Height limits the number of visible options (0 for auto).
	Height int
	// Config holds common TUI configuration.
	Config Config
}

// MultiChoose prompts the user to select multiple options from a list.
// It returns huh.ErrUserAborted when the user cancels.
func MultiChoose[T comparable](ctx context.Context, opts MultiChooseOptions[T]) ([]T, error) {
	var result []T

	sel := huh.NewMultiSelect[T]().
		Title(opts.Title).
		Description(opts.Description).
		Options(huhOptions(opts.Options)...).
		Filterable(true).
		Value(&result)

	if opts.Height > 0 {
		sel = sel.Height(opts.Height)
	}

	if err := newForm(opts.Config, huh.NewGroup(sel)).RunWithContext(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func huhOptions[T comparable](opts []Option[T]) []huh.Option[T] {
	out := make([]huh.Option[T], len(opts))
	for i, opt := range opts {
		o := huh.NewOption(opt.Title, opt.Value)
		if opt.Selected {
			o = o.Selected(true)
		}
		out[i] = o
	}
	return out
}
