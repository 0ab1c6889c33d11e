// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mcpick/mcpick/internal/config"
	"github.com/mcpick/mcpick/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	verbose    bool
	dir        string
	sources    []string
	outputDir  string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "mcpick",
		Short: "Pick MCP servers for a Claude session",
		Long: TitleStyle.Render("mcpick") + SubtitleStyle.Render(" - Pick MCP servers for a Claude session") + `

mcpick collects the "mcpServers" entries of every .claude/*mcpServers.json
file in a project, lets you choose some of them, and writes the choice to a
fresh file that can be passed to claude --mcp-config.

When two files define the same server name, the file that sorts last wins.

` + SubtitleStyle.Render("Examples:") + `
  mcpick list                       Show every server found in the project
  mcpick pick                       Choose servers and print the file path
  claude --mcp-config "$(mcpick pick)"
  mcpick run -- --resume            Choose servers and start claude
  mcpick pick --select github,fs    Choose without a prompt`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.installLogger(flags.verbose)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is "+defaultConfigHint()+")")
	pf.StringVarP(&flags.dir, "dir", "C", "", "project directory (default is the working directory)")
	pf.StringArrayVar(&flags.sources, "source", nil, "read this file instead of scanning the project (repeatable)")
	pf.StringVar(&flags.outputDir, "output-dir", "", "directory for generated files (default is the system temp dir)")

	rootCmd.AddCommand(newPickCommand(app, flags))
	rootCmd.AddCommand(newRunCommand(app, flags))
	rootCmd.AddCommand(newListCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

func defaultConfigHint() string {
	path, err := config.DefaultPath("")
	if err != nil {
		return "config.cue in the user config dir"
	}
	return path
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI with os.Args and returns the process exit code.
func Run() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return int(types.ExitFailure)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(renderUnhandledError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code.Clamp())
		}
		return int(types.ExitFailure)
	}
	return int(types.ExitOK)
}

// renderUnhandledError prints errors that no command handler reported.
// An *ExitError was either rendered by App.fail or carries a child's exit code.
func renderUnhandledError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}
