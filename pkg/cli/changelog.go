package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/releasor/pkg/cli/config"
	"github.com/m-mizutani/releasor/pkg/infra/shell"
	"github.com/m-mizutani/releasor/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdChangelog(releaseCfg *config.Release, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "changelog",
		Aliases: []string{"log"},
		Usage:   "Print commits since the latest tag without changing anything",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := releaseCfg.Resolve(c)
			if err != nil {
				return err
			}
			// read-only: dry-run keeps every mutating task on the no-op strategy
			cfg.DryRun = true

			if err := usecase.ValidateConfig(cfg); err != nil {
				return err
			}

			runner := shell.New(shell.WithDir(cfg.Directory), shell.WithOutput(stdout))
			uc := usecase.NewRelease(cfg, usecase.NewTasks(cfg, runner), usecase.WithOutput(stdout))

			_, _, err = uc.Changelog(ctx)
			return err
		},
	}
}
