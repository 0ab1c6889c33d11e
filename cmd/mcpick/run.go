// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpick/mcpick/internal/launcher"
	"github.com/mcpick/mcpick/internal/selector"
	"github.com/mcpick/mcpick/pkg/types"
)

// runFlagValues holds the flags specific to `mcpick run`.
type runFlagValues struct {
	promptArgs       bool
	dryRun           bool
	requireSelection bool
}

func newRunCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	selFlags := &selectFlagValues{}
	runFlags := &runFlagValues{}

	runCmd := &cobra.Command{
		Use:   "run [flags] [-- client-args...]",
		Short: "Choose MCP servers and start the client with them",
		Long: `Choose MCP servers and start the client with them.

The client is launcher.command from config.cue (default "claude"), started
with launcher.args, the arguments after "--", and --mcp-config pointing at
the merged file. Its exit code becomes mcpick's exit code.

When no servers are found or none are chosen the client still starts, just
without --mcp-config. Use --require-selection to stop instead.`,
		Example: `  mcpick run
  mcpick run --select github -- --resume
  mcpick run --prompt-args
  mcpick run --all --dry-run -- -p "summarize the repo"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, app, rootFlags, selFlags, runFlags, args)
		},
	}
	addSelectFlags(runCmd, selFlags)
	runCmd.Flags().BoolVarP(&runFlags.promptArgs, "prompt-args", "p", false, "ask for extra client arguments before choosing servers")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "print the client command line instead of running it")
	runCmd.Flags().BoolVar(&runFlags.requireSelection, "require-selection", false, "do not start the client unless a config was written")

	return runCmd
}

func runRun(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, selFlags *selectFlagValues, runFlags *runFlagValues, args []string) error {
	ctx := cmd.Context()

	cfg, cfgDiags, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return app.fail(cmd, err)
	}
	prompts := app.Prompts(cfg, app.stdin, app.stderr)

	spec := launcher.Spec{
		Command:   cfg.Launcher.Command,
		Args:      cfg.Launcher.Args,
		ExtraArgs: append([]string(nil), args...),
	}

	if runFlags.promptArgs {
		line, promptErr := prompts.PromptArgs(ctx, spec.Command)
		if errors.Is(promptErr, selector.ErrDismissed) {
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("Cancelled."))
			return nil
		}
		if promptErr != nil {
			return app.fail(cmd, promptErr)
		}
		extra, splitErr := launcher.SplitArgs(line)
		if splitErr != nil {
			return app.fail(cmd, splitErr)
		}
		spec.ExtraArgs = append(spec.ExtraArgs, extra...)
	}

	outcome, err := selectAndWrite(ctx, app, cfg, rootFlags, selFlags, prompts, cfgDiags)
	if err != nil {
		return app.fail(cmd, err)
	}
	if outcome.Status != selector.StatusWritten && runFlags.requireSelection {
		return nil
	}
	spec.ConfigPath = outcome.Path

	if runFlags.dryRun {
		line, quoteErr := spec.CommandLine()
		if quoteErr != nil {
			return app.fail(cmd, quoteErr)
		}
		fmt.Fprintln(app.stdout, line)
		return nil
	}

	code, err := app.Launcher.Launch(ctx, spec)
	if err != nil {
		return app.fail(cmd, err)
	}
	if code != 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: types.ExitCode(code).Clamp()}
	}
	return nil
}
