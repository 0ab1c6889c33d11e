// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mcpick/mcpick/internal/config"
	"github.com/mcpick/mcpick/internal/discovery"
	"github.com/mcpick/mcpick/internal/selector"
	"github.com/mcpick/mcpick/internal/servers"
	"github.com/mcpick/mcpick/internal/watch"
)

// errWatchNeedsScan is returned by `list --watch` in override mode.
var errWatchNeedsScan = errors.New("--watch needs directory scanning; it cannot be combined with --source or override_path")

// listFlagValues holds the flags specific to `mcpick list`.
type listFlagValues struct {
	json  bool
	watch bool
}

func newListCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	listFlags := &listFlagValues{}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the merged MCP servers of the project",
		Long: `Show the merged MCP servers of the project.

Each row is the entry that would be written for that name, together with the
file it came from. --json prints the document exactly as pick would write it
with every server selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, rootFlags, listFlags)
		},
	}
	listCmd.Flags().BoolVar(&listFlags.json, "json", false, "print the merged document as JSON")
	listCmd.Flags().BoolVarP(&listFlags.watch, "watch", "w", false, "re-list whenever a server file changes")

	return listCmd
}

func runList(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, listFlags *listFlagValues) error {
	ctx := cmd.Context()

	cfg, cfgDiags, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return app.fail(cmd, err)
	}
	pipeline := app.Pipelines(cfg, rootFlags.sources)

	outcome, err := listOnce(ctx, app, pipeline, rootFlags.dir, listFlags.json, cfgDiags)
	if err != nil {
		return app.fail(cmd, err)
	}
	if !listFlags.watch {
		return nil
	}

	if outcome.Discovery.Override || outcome.Discovery.ScanDir == "" {
		return app.fail(cmd, errWatchNeedsScan)
	}
	return app.fail(cmd, watchList(ctx, app, cfg, pipeline, outcome.Discovery, listFlags.json))
}

// watchList re-runs listOnce on every change to a server file until ctx is done.
func watchList(ctx context.Context, app *App, cfg *config.Config, pipeline PipelineService, disc discovery.Result, asJSON bool) error {
	w, err := watch.New(watch.Config{
		ScanDir:     disc.ScanDir,
		Pattern:     discovery.New(cfg).Pattern(),
		ClearScreen: !asJSON && isTerminal(app.stdout),
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("changed: "+strings.Join(changed, ", ")))
			_, err := listOnce(ctx, app, pipeline, disc.BaseDir, asJSON, nil)
			return err
		},
		Stdout: app.stdout,
		Stderr: app.stderr,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stderr, SubtitleStyle.Render("Watching "+disc.ScanDir+" (Ctrl+C to stop)"))
	return w.Run(ctx)
}

// listOnce collects the merged table and prints it.
func listOnce(ctx context.Context, app *App, pipeline PipelineService, baseDir string, asJSON bool, cfgDiags []discovery.Diagnostic) (selector.Outcome, error) {
	outcome, err := pipeline.Collect(ctx, baseDir)
	if err != nil {
		return outcome, err
	}
	app.Diagnostics.Render(ctx, append(cfgDiags, outcome.Diagnostics...), app.stderr)
	logOverrides(outcome)

	if asJSON {
		return outcome, servers.NewDocument(outcome.Table).Encode(app.stdout)
	}

	if outcome.Status == selector.StatusNothingFound {
		reportNothingFound(app, outcome)
		return outcome, nil
	}
	fmt.Fprintln(app.stdout, renderServerTable(outcome))
	return outcome, nil
}

// renderServerTable renders name, command, args and source of every entry.
func renderServerTable(outcome selector.Outcome) string {
	baseDir := outcome.Discovery.BaseDir

	rows := make([][]string, 0, outcome.Table.Len())
	for name, entry := range outcome.Table.All() {
		rows = append(rows, []string{name, commandColumn(entry), entry.ArgLine(), displayPath(baseDir, outcome.Origins[name])})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("NAME", "COMMAND", "ARGS", "SOURCE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return tableNameStyle
			case col == 3:
				return tableSourceStyle
			default:
				return tableCellStyle
			}
		}).
		Render()
}

// commandColumn shows the command, or the url of a remote server.
func commandColumn(entry servers.Entry) string {
	if entry.HasCommand() {
		return entry.Command
	}
	if url, ok := entry.ExtraString("url"); ok {
		return url
	}
	return ""
}

// displayPath shortens path relative to baseDir when it lies inside it.
func displayPath(baseDir, path string) string {
	if baseDir == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
