package types

import "fmt"

// NotificationType represents the kind of a notification log entry
type NotificationType string

const (
	// NotificationTypeScheduled is written when a reminder is armed
	NotificationTypeScheduled NotificationType = "scheduled"
	// NotificationTypeSuccess is written when a user mutation completes
	NotificationTypeSuccess NotificationType = "success"
	// NotificationTypeReminder is written when a reminder fires
	NotificationTypeReminder NotificationType = "reminder"
)

// AllNotificationTypes returns all valid notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationTypeScheduled,
		NotificationTypeSuccess,
		NotificationTypeReminder,
	}
}

// IsValid checks if the notification type is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeScheduled,
		NotificationTypeSuccess,
		NotificationTypeReminder:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notification type
func (t NotificationType) String() string {
	return string(t)
}

// ParseNotificationType parses a string into a NotificationType
func ParseNotificationType(s string) (NotificationType, error) {
	nt := NotificationType(s)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return nt, nil
}
