package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/cli/config"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/m-mizutani/releasor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		loggerCfg  config.Logger
		sentryCfg  config.Sentry
		slackCfg   config.Slack
		releaseCfg config.Release
		logger     *slog.Logger
	)
	loggerCfg.Output = stderr

	var flags []cli.Flag
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, loggerCfg.Flags()...)

	app := &cli.Command{
		Name:      "releasor",
		Usage:     "Bump, tag, push and publish an npm package",
		UsageText: "releasor [options]\n\nExamples:\n  releasor\n  releasor --bump minor\n  releasor --dry-run\n  releasor --release=false --bump major\n  releasor --verify-branch=false",
		Version:   types.Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With("run_id", uuid.NewString())

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = logging.With(ctx, logger)
			return ctx, nil
		},
		OnUsageError: func(ctx context.Context, c *cli.Command, err error, isSubcommand bool) error {
			return goerr.Wrap(err, "invalid usage", goerr.T(types.TagValidation))
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runRelease(ctx, c, &releaseCfg, &slackCfg, stdout)
		},
		Commands: []*cli.Command{
			cmdChangelog(&releaseCfg, stdout),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		reportFailure(stderr, err)
		logger.Error("CLI execution failed", slog.Any("error", err), slog.String("kind", types.KindOf(err).String()))
		sentryCfg.Report(err)
		return err
	}

	return nil
}

// reportFailure prints the error with its stack trace and, for command
// failures, the offending command and its output.
func reportFailure(w io.Writer, err error) {
	fmt.Fprintln(w)
	color.New(color.FgRed, color.Bold).Fprintln(w, "Releasing failed!")
	fmt.Fprintf(w, "%+v\n", err)

	if cmdErr, ok := types.AsCommandError(err); ok {
		fmt.Fprintf(w, "\nCommand: %s\nExit code: %d\nOutput:\n%s\n", cmdErr.Command, cmdErr.ExitCode, cmdErr.Output)
	}
}
