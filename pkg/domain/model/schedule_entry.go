package model

import (
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// ScheduleEntry is the live daily trigger derived from one medicine's
// time-of-day. NextFire is always in the future at arm time.
type ScheduleEntry struct {
	MedicineID types.MedicineID
	TimeOfDay  types.TimeOfDay
	NextFire   time.Time
}
