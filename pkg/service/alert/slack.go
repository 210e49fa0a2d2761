package alert

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// SlackSender posts reminder alerts to a Slack channel
type SlackSender struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.AlertSender = &SlackSender{}

// NewSlackSender creates a Slack alert sender with the provided bot token
func NewSlackSender(token, channelID string) (*SlackSender, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &SlackSender{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

func (s *SlackSender) Send(ctx context.Context, medicineName, dosage string) error {
	text := Message(medicineName, dosage)

	_, _, err := s.api.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post reminder to Slack",
			goerr.V("channel_id", s.channelID),
			goerr.V("medicine", medicineName),
		)
	}
	return nil
}
