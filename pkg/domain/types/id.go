package types

import "github.com/google/uuid"

// UserID identifies a user session. All Record Store paths are namespaced by it.
type UserID string

func (id UserID) String() string { return string(id) }

// MedicineID is a UUID-based identifier for a Medicine. It is stable across
// edits; at most one live schedule entry exists per MedicineID.
type MedicineID string

// NewMedicineID generates a new UUID v4 MedicineID
func NewMedicineID() MedicineID {
	return MedicineID(uuid.New().String())
}

func (id MedicineID) String() string { return string(id) }

// NotificationID is a UUID-based identifier for a NotificationItem
type NotificationID string

// NewNotificationID generates a new UUID v4 NotificationID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.New().String())
}

func (id NotificationID) String() string { return string(id) }

// HistoryID is a UUID-based identifier for a HistoryItem
type HistoryID string

// NewHistoryID generates a new UUID v4 HistoryID
func NewHistoryID() HistoryID {
	return HistoryID(uuid.New().String())
}

func (id HistoryID) String() string { return string(id) }
