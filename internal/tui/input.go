// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"

	"github.com/charmbracelet/huh"
)

// InputOptions configures the Input component.
type InputOptions struct {
	// Title is the title/prompt displayed above the input.
	Title string
	// Description provides additional context below the title.
	Description string
	// Placeholder is the placeholder text shown when input is empty.
	Placeholder string
	// Value is the initial value of the input.
	Value string
	// Validate rejects an answer by returning an error.
	Validate func(string) error
	// Config holds common TUI configuration.
	Config Config
}

// Input prompts for a single line of text.
// It returns huh.ErrUserAborted when the user cancels.
func Input(ctx context.Context, opts InputOptions) (string, error) {
	result := opts.Value

	in := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&result)
	if opts.Validate != nil {
		in = in.Validate(opts.Validate)
	}

	if err := newForm(opts.Config, huh.NewGroup(in)).RunWithContext(ctx); err != nil {
		return "", err
	}
	return result, nil
}
