package alert

import (
	"context"
	"fmt"

	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
)

// LogSender emits reminder alerts to the structured log. It is the
// default sender when no external channel is configured.
type LogSender struct{}

var _ interfaces.AlertSender = &LogSender{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, medicineName, dosage string) error {
	logging.From(ctx).Info("medicine reminder",
		"medicine", medicineName,
		"dosage", dosage,
		"message", Message(medicineName, dosage),
	)
	return nil
}

// Message renders the reminder wording shown to the user
func Message(medicineName, dosage string) string {
	return fmt.Sprintf("Time to take your %s, %s", medicineName, dosage)
}
