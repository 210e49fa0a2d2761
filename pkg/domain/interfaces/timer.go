package interfaces

import (
	"errors"
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// ErrExactUnavailable is returned by ScheduleExact when the platform denies
// exact-timing delivery. Callers degrade to Schedule instead of failing.
var ErrExactUnavailable = errors.New("exact timing is not available")

// TimerService is the platform timer boundary. Scheduling the same medicine ID
// again replaces the pending trigger. Delivery to the fire handler is
// at-least-once; consumers must deduplicate.
type TimerService interface {
	// ScheduleExact arms a one-shot trigger at the given instant. May return
	// ErrExactUnavailable when exact-timing permission is denied.
	ScheduleExact(id types.MedicineID, at time.Time) error
	// Schedule arms a best-effort (inexact) one-shot trigger
	Schedule(id types.MedicineID, at time.Time) error
	// Cancel disarms a pending trigger. Cancelling an unknown ID is a no-op.
	// A delivery already in flight may still reach the handler; consumers
	// drop deliveries for IDs they no longer track.
	Cancel(id types.MedicineID)
}

// FireHandler consumes trigger deliveries from a TimerService
type FireHandler func(id types.MedicineID, firedAt time.Time)
