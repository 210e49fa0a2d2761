package interfaces

import "context"

// AlertSender emits the user-visible alert when a reminder fires
type AlertSender interface {
	Send(ctx context.Context, medicineName, dosage string) error
}
