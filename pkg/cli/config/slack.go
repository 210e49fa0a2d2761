package config

import (
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/service/alert"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack reminder delivery
type Slack struct {
	botToken  string
	channelID string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for reminder delivery (optional)",
			Sources:     cli.EnvVars("HEALGUARD_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID reminders are posted to",
			Sources:     cli.EnvVars("HEALGUARD_SLACK_CHANNEL_ID"),
			Destination: &s.channelID,
		},
	}
}

// IsConfigured reports whether Slack delivery is fully configured
func (s *Slack) IsConfigured() bool {
	return s.botToken != "" && s.channelID != ""
}

// Configure builds the alert sender: Slack when configured, the
// structured log otherwise.
func (s *Slack) Configure() (interfaces.AlertSender, error) {
	if !s.IsConfigured() {
		logging.Default().Info("Slack not configured, reminders are delivered to the log")
		return alert.NewLogSender(), nil
	}

	sender, err := alert.NewSlackSender(s.botToken, s.channelID)
	if err != nil {
		return nil, err
	}
	logging.Default().Info("Slack reminder delivery enabled", "channel_id", s.channelID)
	return sender, nil
}
