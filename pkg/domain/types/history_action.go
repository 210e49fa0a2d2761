package types

import "fmt"

// HistoryAction represents a medicine lifecycle action recorded in history
type HistoryAction string

const (
	HistoryActionAdded          HistoryAction = "added"
	HistoryActionEdited         HistoryAction = "edited"
	HistoryActionDeleted        HistoryAction = "deleted"
	HistoryActionSentToHardware HistoryAction = "sent_to_hardware"
)

// AllHistoryActions returns all valid history actions
func AllHistoryActions() []HistoryAction {
	return []HistoryAction{
		HistoryActionAdded,
		HistoryActionEdited,
		HistoryActionDeleted,
		HistoryActionSentToHardware,
	}
}

// IsValid checks if the history action is valid
func (a HistoryAction) IsValid() bool {
	switch a {
	case HistoryActionAdded,
		HistoryActionEdited,
		HistoryActionDeleted,
		HistoryActionSentToHardware:
		return true
	default:
		return false
	}
}

// String returns the string representation of the history action
func (a HistoryAction) String() string {
	return string(a)
}

// ParseHistoryAction parses a string into a HistoryAction
func ParseHistoryAction(s string) (HistoryAction, error) {
	action := HistoryAction(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid history action: %s", s)
	}
	return action, nil
}
