package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Sentry holds failure reporting configuration
type Sentry struct {
	DSN         string `masq:"secret"`
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN to report release failures to (optional)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("RELEASOR_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Value:       "ci",
			Destination: &c.Environment,
			Sources:     cli.EnvVars("RELEASOR_SENTRY_ENV"),
		},
	}
}

// Enabled reports whether a DSN is configured
func (c *Sentry) Enabled() bool {
	return c.DSN != ""
}

// Configure initializes the Sentry client when a DSN is set
func (c *Sentry) Configure() error {
	if !c.Enabled() {
		return nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Environment,
		Release:     "releasor@" + types.Version,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize Sentry", goerr.T(types.TagValidation))
	}
	return nil
}

// Report sends err to Sentry and waits for delivery
func (c *Sentry) Report(err error) {
	if !c.Enabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_kind", types.KindOf(err).String())
		if cmdErr, ok := types.AsCommandError(err); ok {
			scope.SetContext("command", sentry.Context{
				"command":   cmdErr.Command,
				"output":    cmdErr.Output,
				"exit_code": cmdErr.ExitCode,
			})
		}
		sentry.CaptureException(err)
	})
	sentry.Flush(2 * time.Second)
}
