// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcpick/mcpick/internal/selector"
)

var detailStyle = lipgloss.NewStyle().Faint(true)

// Prompter is the interactive selector.Prompter.
type Prompter struct {
	cfg Config
	// run is swapped by tests.
	run func(ctx context.Context, opts MultiChooseOptions[string]) ([]string, error)
}

// NewPrompter returns a multi-select prompter using cfg.
func NewPrompter(cfg Config) *Prompter {
	return &Prompter{cfg: cfg, run: MultiChoose[string]}
}

// Prompt shows one option per choice, titled "name  command" followed by the
// args in a faint style. Nothing is pre-selected. Aborting returns an error
// wrapping selector.ErrDismissed.
func (p *Prompter) Prompt(ctx context.Context, title string, choices []selector.Choice) ([]string, error) {
	names, err := p.run(ctx, MultiChooseOptions[string]{
		Title:       title,
		Description: "space to toggle, / to filter, enter to confirm",
		Options:     ChoiceOptions(choices),
		Config:      p.cfg,
	})
	if errors.Is(err, huh.ErrUserAborted) {
		return nil, fmt.Errorf("%w: %w", selector.ErrDismissed, err)
	}
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ChoiceOptions converts choices into multi-select options valued by name.
func ChoiceOptions(choices []selector.Choice) []Option[string] {
	opts := make([]Option[string], len(choices))
	for i, c := range choices {
		label := c.Title()
		if c.Detail != "" {
			label += " " + detailStyle.Render(c.Detail)
		}
		opts[i] = Option[string]{Title: label, Value: c.Name}
	}
	return opts
}

// ArgsPrompt asks for extra launcher arguments as one shell-style line.
func ArgsPrompt(ctx context.Context, cfg Config, command string, validate func(string) error) (string, error) {
	line, err := Input(ctx, InputOptions{
		Title:       "Arguments for " + command,
		Description: "Leave empty to start without extra arguments",
		Placeholder: "--model sonnet",
		Validate:    validate,
		Config:      cfg,
	})
	if errors.Is(err, huh.ErrUserAborted) {
		return "", fmt.Errorf("%w: %w", selector.ErrDismissed, err)
	}
	return line, err
}
