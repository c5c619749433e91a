package notify

import (
	"context"
	"fmt"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const (
	colorSuccess = "good"
	colorFailure = "danger"
)

// poster is the part of slack.Client used for bot-token delivery
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Slack posts notifications to a channel, either through an incoming webhook
// or with a bot token.
type Slack struct {
	webhookURL string
	api        poster
	channel    string
	onlyErrors bool
}

var _ interfaces.Notifier = &Slack{}

type SlackOption func(*Slack)

// WithOnlyErrors drops success notifications
func WithOnlyErrors() SlackOption {
	return func(s *Slack) {
		s.onlyErrors = true
	}
}

// NewSlackWebhook delivers through an incoming webhook URL
func NewSlackWebhook(webhookURL string, opts ...SlackOption) (*Slack, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}
	s := &Slack{webhookURL: webhookURL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSlackBot delivers with chat.postMessage using a bot token
func NewSlackBot(token, channel string, opts []SlackOption, clientOpts ...slack.Option) (*Slack, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}
	s := &Slack{
		api:     slack.New(token, clientOpts...),
		channel: channel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Slack) Notify(ctx context.Context, n *model.Notification) error {
	if s.onlyErrors && n.Level != types.NoticeLevelError {
		return nil
	}

	attachment := buildAttachment(n)

	if s.api != nil {
		if _, _, err := s.api.PostMessageContext(ctx, s.channel,
			slack.MsgOptionText(n.Message, false),
			slack.MsgOptionAttachments(attachment),
		); err != nil {
			return goerr.Wrap(err, "failed to post Slack message",
				goerr.V("channel", s.channel), goerr.V(model.ResourceKey, n.Resource))
		}
		return nil
	}

	msg := &slack.WebhookMessage{
		Text:        n.Message,
		Attachments: []slack.Attachment{attachment},
	}
	if err := slack.PostWebhookContext(ctx, s.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook", goerr.V(model.ResourceKey, n.Resource))
	}
	return nil
}

func buildAttachment(n *model.Notification) slack.Attachment {
	color := colorSuccess
	if n.Level == types.NoticeLevelError {
		color = colorFailure
	}

	fields := []slack.AttachmentField{
		{Title: "Resource", Value: string(n.Resource), Short: true},
		{Title: "Mode", Value: string(n.Mode), Short: true},
	}
	if n.RecordID != "" {
		fields = append(fields, slack.AttachmentField{Title: "Record", Value: n.RecordID, Short: true})
	}
	if n.Kind != types.FailureKindNone {
		fields = append(fields, slack.AttachmentField{Title: "Failure", Value: n.Kind.String(), Short: true})
	}

	return slack.Attachment{
		Color:    color,
		Fallback: fmt.Sprintf("[%s] %s", n.Resource, n.Message),
		Fields:   fields,
	}
}
