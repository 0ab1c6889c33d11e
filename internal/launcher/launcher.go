// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"

	"github.com/mcpick/mcpick/internal/issue"
)

// ConfigFlag passes the generated file to the client.
const ConfigFlag = "--mcp-config"

// waitDelay bounds how long a child may linger after an interrupt.
const waitDelay = 5 * time.Second

// ErrCommandNotFound is returned when the launcher command cannot be resolved.
var ErrCommandNotFound = errors.New("launcher command not found")

type (
	// Spec describes one launch.
	Spec struct {
		// Command is the program name or path.
		Command string
		// Args come from configuration and precede ExtraArgs.
		Args []string
		// ExtraArgs come from the command line or the argument prompt.
		ExtraArgs []string
		// ConfigPath is the generated file. Empty omits ConfigFlag.
		ConfigPath string
	}

	// Option configures a Launcher.
	Option func(*Launcher)

	// Launcher runs a Spec as a child process with inherited stdio.
	Launcher struct {
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		lookPath func(string) (string, error)
		env      []string
	}
)

// Argv returns the full argument vector, command first.
func (s Spec) Argv() []string {
	argv := make([]string, 0, 3+len(s.Args)+len(s.ExtraArgs))
	argv = append(argv, s.Command)
	argv = append(argv, s.Args...)
	argv = append(argv, s.ExtraArgs...)
	if s.ConfigPath != "" {
		argv = append(argv, ConfigFlag, s.ConfigPath)
	}
	return argv
}

// CommandLine returns Argv as a single shell-quoted line.
func (s Spec) CommandLine() (string, error) {
	argv := s.Argv()
	quoted := make([]string, 0, len(argv))
	for _, a := range argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", a, err)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

// SplitArgs splits line into words with POSIX shell rules: quotes group,
// backslashes escape and $VAR expands from the environment.
func SplitArgs(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	fields, err := shell.Fields(line, nil)
	if err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	return fields, nil
}

// WithStdio sets the child's standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin, l.stdout, l.stderr = stdin, stdout, stderr
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *Launcher) { l.lookPath = fn }
}

// WithEnv sets the child's environment. Nil inherits the current one.
func WithEnv(env []string) Option {
	return func(l *Launcher) { l.env = env }
}

// New creates a Launcher wired to the process's stdio.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the absolute path of spec.Command.
func (l *Launcher) Resolve(spec Spec) (string, error) {
	path, err := l.lookPath(spec.Command)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("start " + spec.Command).
			WithResource(spec.Command).
			WithSuggestion("Install the client or add it to PATH").
			WithSuggestion("Set launcher.command in config.cue to the full path of the client").
			Wrap(fmt.Errorf("%w: %w", ErrCommandNotFound, err)).
			BuildError()
	}
	return path, nil
}

// Launch runs spec and waits for it. A child that exits non-zero is not an
// error: its exit code is returned with a nil error. Cancelling ctx sends an
// interrupt and kills the child if it has not exited after a grace period.
func (l *Launcher) Launch(ctx context.Context, spec Spec) (int, error) {
	path, err := l.Resolve(spec)
	if err != nil {
		return 1, err
	}

	argv := spec.Argv()
	cmd := exec.CommandContext(ctx, path, argv[1:]...)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	cmd.Env = l.env
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = waitDelay

	slog.Debug("launching client", "path", path, "args", argv[1:])

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return 1, issue.WrapWithContext(err, "start "+spec.Command, path)
	}
	return 0, nil
}
