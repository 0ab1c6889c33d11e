// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpick/mcpick/internal/selector"
)

func newPickCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	selFlags := &selectFlagValues{}

	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose MCP servers and print the path of the merged config",
		Long: `Choose MCP servers and print the path of the merged config.

The chosen entries are written to a new mcpServers-<id>.json file in the
output directory and the path is printed on stdout. Nothing is printed when
no servers are found or none are chosen, so the output can be used directly:

  claude --mcp-config "$(mcpick pick)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, app, rootFlags, selFlags)
		},
	}
	addSelectFlags(pickCmd, selFlags)

	return pickCmd
}

func runPick(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, selFlags *selectFlagValues) error {
	ctx := cmd.Context()

	cfg, cfgDiags, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return app.fail(cmd, err)
	}

	outcome, err := selectAndWrite(ctx, app, cfg, rootFlags, selFlags, app.Prompts(cfg, app.stdin, app.stderr), cfgDiags)
	if err != nil {
		return app.fail(cmd, err)
	}

	if outcome.Status == selector.StatusWritten {
		fmt.Fprintln(app.stdout, outcome.Path)
	}
	return nil
}
