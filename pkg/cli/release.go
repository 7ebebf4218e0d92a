package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/releasor/pkg/cli/config"
	"github.com/m-mizutani/releasor/pkg/infra/shell"
	"github.com/m-mizutani/releasor/pkg/usecase"
	"github.com/m-mizutani/releasor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func runRelease(ctx context.Context, c *cli.Command, releaseCfg *config.Release, slackCfg *config.Slack, stdout io.Writer) error {
	logger := logging.From(ctx)

	cfg, err := releaseCfg.Resolve(c)
	if err != nil {
		return err
	}
	if err := usecase.ValidateConfig(cfg); err != nil {
		return err
	}

	logger.Info("Starting release",
		"bump", cfg.Bump,
		"directory", cfg.Directory,
		"dry_run", cfg.DryRun,
		"release", cfg.Release,
	)

	var opts []usecase.TasksOption
	if notifier := slackCfg.Notifier(); notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	runner := shell.New(shell.WithDir(cfg.Directory), shell.WithOutput(stdout))
	uc := usecase.NewRelease(cfg, usecase.NewTasks(cfg, runner, opts...), usecase.WithOutput(stdout))

	_, err = uc.Run(ctx)
	return err
}
