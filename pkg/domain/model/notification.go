package model

import (
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// NotificationItem is one entry of the notification log. Entries are immutable
// once appended; ordering for display is by Timestamp descending.
type NotificationItem struct {
	ID           types.NotificationID
	Type         types.NotificationType
	Message      string
	MedicineName string
	Dosage       string
	TimeOfDay    string // "HH:MM" of the related reminder, empty if none
	Timestamp    time.Time
	IsRead       bool
}
