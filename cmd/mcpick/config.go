// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpick/mcpick/internal/config"
	"github.com/mcpick/mcpick/internal/issue"
)

// newConfigCommand creates the `mcpick config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mcpick configuration",
		Long: `Manage mcpick configuration.

Configuration is stored in:
  - Linux: ~/.config/mcpick/config.cue
  - macOS: ~/Library/Application Support/mcpick/config.cue
  - Windows: %APPDATA%\mcpick\config.cue

Every key can also be set from the environment, e.g. MCPICK_OUTPUT_DIR or
MCPICK_LAUNCHER_COMMAND.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, showConfig(cmd.Context(), app, rootFlags))
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, initConfig(app.stdout, force))
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(cmd, showConfigPath(app.stdout, rootFlags))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return app.fail(cmd, newServiceError(err, issue.ConfigLoadFailedId, ""))
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rootFlags.configPath})
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, "")
	}
	w := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(v string) string {
		if v == "" {
			return SubtitleStyle.Render("(unset)")
		}
		return valueStyle.Render(v)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, pathErr := config.ResolvePath(config.LoadOptions{ConfigFilePath: rootFlags.configPath})
	if pathErr != nil || path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("scan_dir"), value(string(cfg.ScanDir)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("source_suffix"), value(string(cfg.SourceSuffix)))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("override_path"), value(cfg.OverridePath))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output_dir"), value(cfg.OutputDir))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("launcher"))
	fmt.Fprintf(w, "  command: %s\n", value(cfg.Launcher.Command))
	fmt.Fprintf(w, "  args: %s\n", value(strings.Join(cfg.Launcher.Args, " ")))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  theme: %s\n", value(string(cfg.UI.Theme)))
	fmt.Fprintf(w, "  color_scheme: %s\n", value(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", value(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  accessible: %s\n", value(fmt.Sprintf("%v", cfg.UI.Accessible)))

	return nil
}

func initConfig(w io.Writer, force bool) error {
	path, err := config.DefaultPath("")
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil && !force {
		fmt.Fprintf(w, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
		return nil
	}

	if _, err := config.CreateDefaultConfig("", true); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(w io.Writer, rootFlags *rootFlagValues) error {
	if rootFlags.configPath != "" {
		fmt.Fprintf(w, "Config file: %s\n", rootFlags.configPath)
		return nil
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path, err := config.DefaultPath("")
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", path)
	return nil
}
