package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/m-mizutani/releasor/pkg/utils/logging"
)

// Runner executes commands through the host shell
type Runner struct {
	dir    string
	shell  string
	output io.Writer
}

// Option is a functional option for Runner
type Option func(*Runner)

// WithDir sets the working directory commands run in
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithOutput sets where non-silent command output is echoed
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.output = w
	}
}

// WithShell overrides the shell binary (default "sh")
func WithShell(shell string) Option {
	return func(r *Runner) {
		r.shell = shell
	}
}

// New creates a Runner
func New(opts ...Option) *Runner {
	r := &Runner{
		shell:  "sh",
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes command with `sh -c` and returns the combined output
func (r *Runner) Run(ctx context.Context, command string, opts model.RunOptions) (string, error) {
	logger := logging.From(ctx)
	logger.Debug("Executing command", "command", command, "dir", r.dir, "silent", opts.Silent)

	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Dir = r.dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if !opts.Silent && r.output != nil {
		w = io.MultiWriter(&buf, r.output)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}

		return "", goerr.Wrap(&types.CommandError{
			Command:  command,
			Output:   buf.String(),
			ExitCode: code,
			Err:      err,
		}, "command failed",
			goerr.V("command", command),
			goerr.V("output", buf.String()),
			goerr.V("exit_code", code),
			goerr.T(types.TagCommand),
		)
	}

	return buf.String(), nil
}

// Quote single-quotes s for safe use as one shell word
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// Join quotes every argument and joins them with spaces
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}
