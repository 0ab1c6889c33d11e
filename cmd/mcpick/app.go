// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mcpick/mcpick/internal/config"
	"github.com/mcpick/mcpick/internal/discovery"
	"github.com/mcpick/mcpick/internal/issue"
	"github.com/mcpick/mcpick/internal/launcher"
	"github.com/mcpick/mcpick/internal/loader"
	"github.com/mcpick/mcpick/internal/selector"
	"github.com/mcpick/mcpick/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and delegate
	// through its service interfaces.
	App struct {
		Config      ConfigProvider
		Pipelines   PipelineFactory
		Prompts     PromptFactory
		Launcher    LaunchService
		Diagnostics DiagnosticRenderer
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer
		logger      *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Pipelines   PipelineFactory
		Prompts     PromptFactory
		Launcher    LaunchService
		Diagnostics DiagnosticRenderer
		Stdin       io.Reader
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// PipelineService collects, selects and writes MCP server entries.
	PipelineService interface {
		Collect(ctx context.Context, baseDir string) (selector.Outcome, error)
		Run(ctx context.Context, req selector.Request) (selector.Outcome, error)
	}

	// PipelineFactory builds a pipeline for a loaded configuration. sources are
	// the --source flag values, which replace directory scanning when non-empty.
	PipelineFactory func(cfg *config.Config, sources []string) PipelineService

	// PromptService asks the user to choose servers and, for `run`, for extra
	// launcher arguments.
	PromptService interface {
		selector.Prompter
		PromptArgs(ctx context.Context, command string) (string, error)
	}

	// PromptFactory builds the interactive prompts for a loaded configuration.
	PromptFactory func(cfg *config.Config, stdin io.Reader, stderr io.Writer) PromptService

	// LaunchService starts the MCP client.
	LaunchService interface {
		Launch(ctx context.Context, spec launcher.Spec) (int, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	tuiPrompts struct {
		cfg      tui.Config
		prompter *tui.Prompter
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Pipelines == nil {
		deps.Pipelines = newPipeline
	}
	if deps.Prompts == nil {
		deps.Prompts = newTUIPrompts
	}
	if deps.Launcher == nil {
		deps.Launcher = launcher.New(launcher.WithStdio(deps.Stdin, deps.Stdout, deps.Stderr))
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	logger := log.NewWithOptions(deps.Stderr, log.Options{
		Prefix: "mcpick",
		Level:  log.WarnLevel,
	})

	return &App{
		Config:      deps.Config,
		Pipelines:   deps.Pipelines,
		Prompts:     deps.Prompts,
		Launcher:    deps.Launcher,
		Diagnostics: deps.Diagnostics,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		logger:      logger,
	}, nil
}

// installLogger makes the App's logger the slog default. Verbose lowers the
// level to debug.
func (a *App) installLogger(verbose bool) {
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(a.logger))
}

func (a *App) verbose() bool {
	return a.logger.GetLevel() <= log.DebugLevel
}

// loadConfig loads configuration and applies root flag overrides. On load
// failure it keeps the command operational with defaults and returns a
// diagnostic, except when the user named the file with --config.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, []discovery.Diagnostic, error) {
	cfg, diags, err := loadConfigWithFallback(ctx, a.Config, flags.configPath)
	if err != nil {
		return nil, nil, err
	}

	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if cfg.UI.Verbose {
		a.installLogger(true)
	}
	applyColorScheme(cfg.UI.ColorScheme)
	return cfg, diags, nil
}

// applyColorScheme pins lipgloss background detection for a fixed scheme.
// Adaptive colors in prompts, tables and issue help follow it; auto leaves
// detection to the terminal.
func applyColorScheme(scheme config.ColorScheme) {
	switch scheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// loadConfigWithFallback loads configuration via the provider.
//
// Failure handling depends on where the file came from:
//   - Explicit --config path: the error is returned (the user-specified file must work).
//   - Default path with an existing but malformed file: defaults plus an error diagnostic.
//   - Missing config dir or similar infrastructure error: defaults plus a warning.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string) (*config.Config, []discovery.Diagnostic, error) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil, nil
	}

	if configPath != "" {
		return nil, nil, newServiceError(err, issue.ConfigLoadFailedId, "")
	}

	severity := discovery.SeverityError
	if errors.Is(err, os.ErrNotExist) {
		severity = discovery.SeverityWarning
	}

	return config.DefaultConfig(), []discovery.Diagnostic{{
		Severity: severity,
		Code:     discovery.CodeConfigLoadFailed,
		Message:  fmt.Sprintf("failed to load config, using defaults: %v", err),
		Cause:    err,
	}}, nil
}

// newPipeline is the production PipelineFactory.
func newPipeline(cfg *config.Config, sources []string) PipelineService {
	return selector.NewPipeline(
		discovery.New(cfg, discovery.WithOverridePaths(sources...)),
		loader.New(),
		selector.NewMaterializer(cfg.OutputDir),
	)
}

// newTUIPrompts is the production PromptFactory.
func newTUIPrompts(cfg *config.Config, stdin io.Reader, stderr io.Writer) PromptService {
	tcfg := tui.DefaultConfig()
	tcfg.Theme = tui.Theme(cfg.UI.Theme)
	tcfg.Accessible = tcfg.Accessible || cfg.UI.Accessible
	tcfg.Output = stderr
	if stdin != os.Stdin {
		tcfg.Input = stdin
	}
	return &tuiPrompts{cfg: tcfg, prompter: tui.NewPrompter(tcfg)}
}

// Prompt shows the server multi-select.
func (p *tuiPrompts) Prompt(ctx context.Context, title string, choices []selector.Choice) ([]string, error) {
	return p.prompter.Prompt(ctx, title, choices)
}

// PromptArgs asks for extra launcher arguments and rejects lines that do not
// split with shell rules.
func (p *tuiPrompts) PromptArgs(ctx context.Context, command string) (string, error) {
	return tui.ArgsPrompt(ctx, p.cfg, command, func(line string) error {
		_, err := launcher.SplitArgs(line)
		return err
	})
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
