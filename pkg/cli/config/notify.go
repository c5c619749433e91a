package config

import (
	"log/slog"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/service/notify"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Notify holds flags of the submission notifiers
type Notify struct {
	console      bool
	webhookURL   string
	botToken     string
	channel      string
	onlyFailures bool
}

func (x *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "notify-console",
			Usage:       "Print submission results to stdout",
			Category:    "Notification",
			Sources:     cli.EnvVars("GROCERY_ADMIN_NOTIFY_CONSOLE"),
			Destination: &x.console,
		},
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for submission results",
			Category:    "Notification",
			Sources:     cli.EnvVars("GROCERY_ADMIN_SLACK_WEBHOOK_URL"),
			Destination: &x.webhookURL,
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token (alternative to the webhook)",
			Category:    "Notification",
			Sources:     cli.EnvVars("GROCERY_ADMIN_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID used with --slack-bot-token",
			Category:    "Notification",
			Sources:     cli.EnvVars("GROCERY_ADMIN_SLACK_CHANNEL"),
			Destination: &x.channel,
		},
		&cli.BoolFlag{
			Name:        "slack-only-failures",
			Usage:       "Send only failed submissions to Slack",
			Category:    "Notification",
			Sources:     cli.EnvVars("GROCERY_ADMIN_SLACK_ONLY_FAILURES"),
			Destination: &x.onlyFailures,
		},
	}
}

func (x Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("console", x.console),
		slog.Bool("slack_webhook", x.webhookURL != ""),
		slog.Int("slack_bot_token.len", len(x.botToken)),
		slog.String("slack_channel", x.channel),
	)
}

// Configure returns the configured notifiers fanned out, or nil when none is
// enabled
func (x *Notify) Configure() (interfaces.Notifier, error) {
	var notifiers notify.Multi

	if x.console {
		notifiers = append(notifiers, notify.NewConsole())
	}

	var slackOpts []notify.SlackOption
	if x.onlyFailures {
		slackOpts = append(slackOpts, notify.WithOnlyErrors())
	}
	switch {
	case x.botToken != "":
		s, err := notify.NewSlackBot(x.botToken, x.channel, slackOpts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure Slack notifier")
		}
		notifiers = append(notifiers, s)
		logging.Default().Info("Slack notifier enabled", "mode", "bot", "channel", x.channel)

	case x.webhookURL != "":
		s, err := notify.NewSlackWebhook(x.webhookURL, slackOpts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure Slack notifier")
		}
		notifiers = append(notifiers, s)
		logging.Default().Info("Slack notifier enabled", "mode", "webhook")
	}

	if len(notifiers) == 0 {
		return nil, nil
	}
	return notifiers, nil
}
