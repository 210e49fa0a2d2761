package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/service/clock"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
)

// DefaultDedupRetention bounds how long fired-occurrence keys are kept
// to absorb timer redelivery after crash recovery.
const DefaultDedupRetention = 48 * time.Hour

// FireListener consumes deduplicated fire events. It is invoked at
// most once per (medicine id, fire minute) occurrence.
type FireListener func(ctx context.Context, id types.MedicineID, firedAt time.Time)

type dedupKey struct {
	id     types.MedicineID
	minute int64
}

// Scheduler owns the set of live schedule entries, computes next-fire
// instants and arms the timer service. Timer delivery is at-least-once;
// the scheduler deduplicates so each daily occurrence reaches the fire
// listener exactly once.
type Scheduler struct {
	mu        sync.Mutex
	clock     *clock.Clock
	timer     interfaces.TimerService
	entries   map[types.MedicineID]*model.ScheduleEntry
	dedup     map[dedupKey]time.Time
	retention time.Duration
	listener  FireListener
	hooks     *interfaces.Hooks
}

type Option func(*Scheduler)

// WithDedupRetention overrides how long fired-occurrence keys are kept
func WithDedupRetention(d time.Duration) Option {
	return func(s *Scheduler) {
		s.retention = d
	}
}

// WithHooks registers UI-facing callbacks
func WithHooks(hooks *interfaces.Hooks) Option {
	return func(s *Scheduler) {
		s.hooks = hooks
	}
}

// New creates a scheduler. newTimer is called once with the
// scheduler's fire handler so timer deliveries flow back in.
func New(clk *clock.Clock, newTimer func(interfaces.FireHandler) interfaces.TimerService, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:     clk,
		entries:   make(map[types.MedicineID]*model.ScheduleEntry),
		dedup:     make(map[dedupKey]time.Time),
		retention: DefaultDedupRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timer = newTimer(s.handleFired)
	return s
}

// OnFire registers the listener for deduplicated fire events
func (s *Scheduler) OnFire(listener FireListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

// Arm registers (or replaces) the daily trigger for the medicine. A
// medicine without a time of day is a no-op. When exact timing is
// denied the trigger degrades to inexact delivery and Arm returns an
// advisory error wrapping interfaces.ErrExactUnavailable; the entry is
// armed either way.
func (s *Scheduler) Arm(ctx context.Context, medicine *model.Medicine) (*time.Time, error) {
	if !medicine.Scheduled() {
		return nil, nil
	}

	s.mu.Lock()
	next, warn := s.armLocked(ctx, medicine.ID, *medicine.TimeOfDay)
	s.mu.Unlock()

	s.notifyScheduleChanged(medicine.ID, &next)
	return &next, warn
}

// armLocked computes the next occurrence and arms the timer. Caller
// holds s.mu.
func (s *Scheduler) armLocked(ctx context.Context, id types.MedicineID, tod types.TimeOfDay) (time.Time, error) {
	next := s.clock.NextOccurrence(tod)

	var warn error
	if err := s.timer.ScheduleExact(id, next); err != nil {
		if !errors.Is(err, interfaces.ErrExactUnavailable) {
			logging.From(ctx).Error("exact scheduling failed", "id", id, "error", err.Error())
		}
		logging.From(ctx).Warn("exact timing unavailable, degrading to inexact delivery",
			"id", id,
			"next_fire", next,
		)
		if inexactErr := s.timer.Schedule(id, next); inexactErr != nil {
			logging.From(ctx).Error("inexact scheduling failed", "id", id, "error", inexactErr.Error())
		}
		warn = err
	}

	s.entries[id] = &model.ScheduleEntry{
		MedicineID: id,
		TimeOfDay:  tod,
		NextFire:   next,
	}
	return next, warn
}

// Cancel disarms the trigger for the ID. Cancelling an unarmed ID is
// a no-op. The entry is gone before Cancel returns, so a late timer
// delivery for it is dropped.
func (s *Scheduler) Cancel(ctx context.Context, id types.MedicineID) {
	s.mu.Lock()
	_, existed := s.entries[id]
	if existed {
		s.timer.Cancel(id)
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if existed {
		s.notifyScheduleChanged(id, nil)
	}
}

// ReconcileAll replaces the armed set so it is exactly the scheduled
// medicines in the given list: stale entries are cancelled, changed
// times re-armed, missing ones armed. Returns an advisory error when
// any arm degraded to inexact delivery.
func (s *Scheduler) ReconcileAll(ctx context.Context, medicines []*model.Medicine) error {
	wanted := make(map[types.MedicineID]types.TimeOfDay, len(medicines))
	for _, m := range medicines {
		if m.Scheduled() {
			wanted[m.ID] = *m.TimeOfDay
		}
	}

	var warn error
	var changed []struct {
		id   types.MedicineID
		next *time.Time
	}

	s.mu.Lock()
	for id := range s.entries {
		if _, keep := wanted[id]; !keep {
			s.timer.Cancel(id)
			delete(s.entries, id)
			changed = append(changed, struct {
				id   types.MedicineID
				next *time.Time
			}{id, nil})
		}
	}
	for id, tod := range wanted {
		if entry, exists := s.entries[id]; exists && entry.TimeOfDay == tod {
			continue
		}
		next, w := s.armLocked(ctx, id, tod)
		if w != nil {
			warn = w
		}
		changed = append(changed, struct {
			id   types.MedicineID
			next *time.Time
		}{id, &next})
	}
	s.mu.Unlock()

	for _, c := range changed {
		s.notifyScheduleChanged(c.id, c.next)
	}
	return warn
}

// handleFired consumes timer deliveries. Redeliveries for the same
// occurrence and deliveries for cancelled IDs are dropped. Each fire
// re-arms the next calendar day by recomputing the wall-clock instant,
// so zone transitions do not drift the schedule.
func (s *Scheduler) handleFired(id types.MedicineID, firedAt time.Time) {
	ctx := context.Background()

	s.mu.Lock()
	entry, exists := s.entries[id]
	if !exists {
		s.mu.Unlock()
		logging.From(ctx).Info("dropping fire for unarmed medicine", "id", id)
		return
	}

	key := dedupKey{id: id, minute: firedAt.Truncate(time.Minute).Unix()}
	if _, seen := s.dedup[key]; seen {
		s.mu.Unlock()
		logging.From(ctx).Info("dropping redelivered fire", "id", id, "fired_at", firedAt)
		return
	}
	s.dedup[key] = s.clock.Now()
	s.pruneDedupLocked()

	tod := entry.TimeOfDay
	next, _ := s.armLocked(ctx, id, tod)
	listener := s.listener
	s.mu.Unlock()

	s.notifyScheduleChanged(id, &next)
	if listener != nil {
		listener(ctx, id, firedAt)
	}
}

// pruneDedupLocked drops dedup keys older than the retention window.
// Caller holds s.mu.
func (s *Scheduler) pruneDedupLocked() {
	cutoff := s.clock.Now().Add(-s.retention)
	for key, recordedAt := range s.dedup {
		if recordedAt.Before(cutoff) {
			delete(s.dedup, key)
		}
	}
}

// Entries returns a snapshot of the armed schedule entries
func (s *Scheduler) Entries() []*model.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*model.ScheduleEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		copied := *entry
		result = append(result, &copied)
	}
	return result
}

// NextFire returns the next fire instant for the ID, if armed
func (s *Scheduler) NextFire(id types.MedicineID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[id]
	if !exists {
		return time.Time{}, false
	}
	return entry.NextFire, true
}

func (s *Scheduler) notifyScheduleChanged(id types.MedicineID, next *time.Time) {
	if s.hooks != nil && s.hooks.OnScheduleChanged != nil {
		s.hooks.OnScheduleChanged(id, next)
	}
}
