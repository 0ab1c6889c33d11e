// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpick/mcpick/internal/config"
	"github.com/mcpick/mcpick/internal/discovery"
	"github.com/mcpick/mcpick/internal/issue"
	"github.com/mcpick/mcpick/internal/launcher"
	"github.com/mcpick/mcpick/internal/selector"
	"github.com/mcpick/mcpick/pkg/types"
)

// selectFlagValues are the selection flags shared by `pick` and `run`.
type selectFlagValues struct {
	names []string
	all   bool
	title string
}

func addSelectFlags(cmd *cobra.Command, flags *selectFlagValues) {
	cmd.Flags().StringSliceVarP(&flags.names, "select", "s", nil, "choose these servers without a prompt (comma-separated or repeated)")
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "choose every server without a prompt")
	cmd.Flags().StringVar(&flags.title, "title", "", "prompt title (default \""+selector.DefaultTitle+"\")")
	cmd.MarkFlagsMutuallyExclusive("select", "all")
}

// prompter returns a static prompter when --select or --all is set and the
// interactive one otherwise.
func (f *selectFlagValues) prompter(interactive selector.Prompter) selector.Prompter {
	if f.all || len(f.names) > 0 {
		return selector.StaticPrompter{Names: f.names, All: f.all}
	}
	return interactive
}

// selectAndWrite runs the pick pipeline and reports non-written outcomes on
// stderr. The returned error is already classified for the CLI.
func selectAndWrite(ctx context.Context, app *App, cfg *config.Config, rootFlags *rootFlagValues, selFlags *selectFlagValues, prompts PromptService, cfgDiags []discovery.Diagnostic) (selector.Outcome, error) {
	pipeline := app.Pipelines(cfg, rootFlags.sources)
	outcome, err := pipeline.Run(ctx, selector.Request{
		BaseDir:  rootFlags.dir,
		Prompter: selFlags.prompter(prompts),
		Title:    selFlags.title,
	})

	app.Diagnostics.Render(ctx, append(cfgDiags, outcome.Diagnostics...), app.stderr)
	logOverrides(outcome)
	if err != nil {
		return outcome, err
	}

	switch outcome.Status {
	case selector.StatusNothingFound:
		reportNothingFound(app, outcome)
	case selector.StatusDeclined:
		fmt.Fprintln(app.stderr, SubtitleStyle.Render("No servers selected."))
	case selector.StatusWritten:
		slog.Info("wrote MCP config", "path", outcome.Path, "servers", strings.Join(outcome.Selection.Names(), ","))
	}
	return outcome, nil
}

func reportNothingFound(app *App, outcome selector.Outcome) {
	where := outcome.Discovery.ScanDir
	if where == "" {
		where = outcome.Discovery.BaseDir
	}
	msg := "No MCP servers found"
	if where != "" {
		msg += " in " + where
	}
	fmt.Fprintln(app.stderr, WarningStyle.Render(msg+"."))
	if app.verbose() {
		renderIssue(app.stderr, issue.NothingFoundId)
	}
}

func logOverrides(outcome selector.Outcome) {
	for _, o := range outcome.Overridden {
		slog.Debug("server overridden", "name", o.Name, "loser", o.Loser, "winner", o.Winner)
	}
}

// fail renders err for the user and converts it to an ExitError so that the
// root command does not print it a second time.
func (a *App) fail(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	svcErr := classifyError(err, a.verbose())
	renderServiceError(a.stderr, svcErr)
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// classifyError attaches the matching issue catalog entry to err.
func classifyError(err error, verbose bool) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.StyledMessage == "" {
			svcErr = newServiceError(svcErr.Err, svcErr.IssueID, styledError(svcErr.Err, verbose))
		}
		return svcErr
	}

	var id issue.Id
	switch {
	case errors.Is(err, selector.ErrUnknownEntry):
		id = issue.UnknownEntryId
	case errors.Is(err, selector.ErrWriteFailed):
		id = issue.WriteFailedId
	case errors.Is(err, launcher.ErrCommandNotFound):
		id = issue.LauncherNotFoundId
	case errors.Is(err, config.ErrInvalidConfig):
		id = issue.ConfigLoadFailedId
	}
	return newServiceError(err, id, styledError(err, verbose))
}

func styledError(err error, verbose bool) string {
	return ErrorStyle.Render("Error: ") + formatErrorForDisplay(err, verbose) + "\n"
}

func exitCodeFor(err error) types.ExitCode {
	if errors.Is(err, selector.ErrUnknownEntry) {
		return types.ExitUsage
	}
	return types.ExitFailure
}
