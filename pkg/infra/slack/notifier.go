package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasor/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts release announcements to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

// Option is a functional option for Notifier
type Option func(*Notifier)

// WithHTTPClient sets the HTTP client used to post the webhook
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = client
	}
}

// New creates a Notifier posting to webhookURL
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts the release summary
func (n *Notifier) Notify(ctx context.Context, rn *model.ReleaseNotification) error {
	msg := &slack.WebhookMessage{
		Text: FormatMessage(rn),
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post release notification to Slack",
			goerr.V("tag", rn.TagName),
		)
	}
	return nil
}

// FormatMessage renders a release notification as Slack mrkdwn text
func FormatMessage(rn *model.ReleaseNotification) string {
	var sb strings.Builder

	name := rn.Package
	if name == "" {
		name = "package"
	}
	sb.WriteString(fmt.Sprintf(":rocket: Released *%s* `%s` (tag `%s`)\n", name, rn.Version, rn.TagName))

	if len(rn.Commits) == 0 {
		sb.WriteString("No commits since the previous release.\n")
		return sb.String()
	}

	sb.WriteString("\n*Changes*:\n")
	for _, c := range rn.Commits {
		sb.WriteString(fmt.Sprintf("• %s\n", c))
	}
	return sb.String()
}
