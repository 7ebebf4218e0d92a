package config

import (
	"github.com/m-mizutani/releasor/pkg/domain/interfaces"
	slackinfra "github.com/m-mizutani/releasor/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds release notification configuration
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook to announce releases to (optional)",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("RELEASOR_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifier returns the Slack notifier, or nil when no webhook is configured
func (c *Slack) Notifier() interfaces.Notifier {
	if c.WebhookURL == "" {
		return nil
	}
	return slackinfra.New(c.WebhookURL)
}
