package model

import (
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// HistoryItem is one entry of the medicine lifecycle history. Entries are
// immutable once appended; ordering for display is by Timestamp descending.
type HistoryItem struct {
	ID           types.HistoryID
	Date         string // display date in the civil zone, e.g. "January 02, 2006"
	Time         string // display time in the civil zone, e.g. "3:04PM"
	Action       types.HistoryAction
	MedicineName string
	Dosage       string
	Message      string
	Timestamp    time.Time
}
