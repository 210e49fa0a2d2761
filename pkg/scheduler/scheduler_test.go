package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/scheduler"
	"github.com/secmon-lab/healguard/pkg/service/clock"
)

// fakeTimer records scheduling calls and lets tests deliver fires
// manually, including redeliveries.
type fakeTimer struct {
	mu          sync.Mutex
	handler     interfaces.FireHandler
	scheduled   map[types.MedicineID]time.Time
	exactDenied bool
	inexact     map[types.MedicineID]bool
}

func newFakeTimer(handler interfaces.FireHandler) *fakeTimer {
	return &fakeTimer{
		handler:   handler,
		scheduled: make(map[types.MedicineID]time.Time),
		inexact:   make(map[types.MedicineID]bool),
	}
}

func (f *fakeTimer) ScheduleExact(id types.MedicineID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exactDenied {
		return goerr.Wrap(interfaces.ErrExactUnavailable, "denied")
	}
	f.scheduled[id] = at
	f.inexact[id] = false
	return nil
}

func (f *fakeTimer) Schedule(id types.MedicineID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[id] = at
	f.inexact[id] = true
	return nil
}

func (f *fakeTimer) Cancel(id types.MedicineID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, id)
}

func (f *fakeTimer) fire(id types.MedicineID, at time.Time) {
	f.handler(id, at)
}

func (f *fakeTimer) scheduledAt(id types.MedicineID) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.scheduled[id]
	return at, ok
}

func fixedClock(t *testing.T, at time.Time) *clock.Clock {
	t.Helper()
	c, err := clock.New("Asia/Manila", clock.WithNow(func() time.Time { return at }))
	gt.NoError(t, err).Required()
	return c
}

func scheduledMedicine(name string, hour, minute int) *model.Medicine {
	return &model.Medicine{
		ID:        types.NewMedicineID(),
		Name:      name,
		Usage:     "1 tablet",
		Form:      types.DosageFormTablet,
		TimeOfDay: &types.TimeOfDay{Hour: hour, Minute: minute},
	}
}

func newScheduler(t *testing.T, now time.Time, opts ...scheduler.Option) (*scheduler.Scheduler, *fakeTimer) {
	t.Helper()
	var ft *fakeTimer
	s := scheduler.New(fixedClock(t, now), func(h interfaces.FireHandler) interfaces.TimerService {
		ft = newFakeTimer(h)
		return ft
	}, opts...)
	return s, ft
}

func manilaTime(t *testing.T, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	gt.NoError(t, err).Required()
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func TestArmComputesNextFire(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()

	t.Run("future time arms today", func(t *testing.T) {
		s, ft := newScheduler(t, now)
		m := scheduledMedicine("Paracetamol", 9, 30)

		next, err := s.Arm(ctx, m)
		gt.NoError(t, err)
		gt.Value(t, next).NotNil()
		gt.Value(t, *next).Equal(manilaTime(t, 2025, 6, 10, 9, 30))

		at, ok := ft.scheduledAt(m.ID)
		gt.Bool(t, ok).True()
		gt.Value(t, at).Equal(*next)
	})

	t.Run("past time arms tomorrow", func(t *testing.T) {
		s, _ := newScheduler(t, now)
		m := scheduledMedicine("Paracetamol", 7, 0)

		next, err := s.Arm(ctx, m)
		gt.NoError(t, err)
		gt.Value(t, *next).Equal(manilaTime(t, 2025, 6, 11, 7, 0))
	})

	t.Run("unscheduled medicine is a no-op", func(t *testing.T) {
		s, ft := newScheduler(t, now)
		m := scheduledMedicine("Paracetamol", 9, 0)
		m.TimeOfDay = nil

		next, err := s.Arm(ctx, m)
		gt.NoError(t, err)
		gt.Value(t, next).Nil()
		gt.Array(t, s.Entries()).Length(0)

		_, ok := ft.scheduledAt(m.ID)
		gt.Bool(t, ok).False()
	})
}

func TestRearmReplacesEntry(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()
	s, ft := newScheduler(t, now)

	m := scheduledMedicine("Paracetamol", 9, 0)
	_, err := s.Arm(ctx, m)
	gt.NoError(t, err)

	m.TimeOfDay = &types.TimeOfDay{Hour: 10, Minute: 15}
	next, err := s.Arm(ctx, m)
	gt.NoError(t, err)
	gt.Value(t, *next).Equal(manilaTime(t, 2025, 6, 10, 10, 15))

	gt.Array(t, s.Entries()).Length(1)
	at, ok := ft.scheduledAt(m.ID)
	gt.Bool(t, ok).True()
	gt.Value(t, at).Equal(*next)
}

func TestCancel(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()
	s, ft := newScheduler(t, now)

	m := scheduledMedicine("Paracetamol", 9, 0)
	_, err := s.Arm(ctx, m)
	gt.NoError(t, err)

	s.Cancel(ctx, m.ID)
	gt.Array(t, s.Entries()).Length(0)
	_, ok := ft.scheduledAt(m.ID)
	gt.Bool(t, ok).False()

	// Idempotent
	s.Cancel(ctx, m.ID)
	s.Cancel(ctx, types.NewMedicineID())
}

func TestLateFireAfterCancelIsDropped(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()
	s, ft := newScheduler(t, now)

	var fired int
	s.OnFire(func(ctx context.Context, id types.MedicineID, firedAt time.Time) {
		fired++
	})

	m := scheduledMedicine("Paracetamol", 9, 0)
	_, err := s.Arm(ctx, m)
	gt.NoError(t, err)
	s.Cancel(ctx, m.ID)

	ft.fire(m.ID, manilaTime(t, 2025, 6, 10, 9, 0))
	gt.Number(t, fired).Equal(0)
}

func TestReconcileAll(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()
	s, ft := newScheduler(t, now)

	stale := scheduledMedicine("Old", 9, 0)
	kept := scheduledMedicine("Kept", 10, 0)
	changed := scheduledMedicine("Changed", 11, 0)

	_, err := s.Arm(ctx, stale)
	gt.NoError(t, err)
	_, err = s.Arm(ctx, kept)
	gt.NoError(t, err)
	_, err = s.Arm(ctx, changed)
	gt.NoError(t, err)

	changed.TimeOfDay = &types.TimeOfDay{Hour: 12, Minute: 30}
	added := scheduledMedicine("Added", 13, 0)
	unscheduled := scheduledMedicine("NoTime", 14, 0)
	unscheduled.TimeOfDay = nil

	gt.NoError(t, s.ReconcileAll(ctx, []*model.Medicine{kept, changed, added, unscheduled}))

	entries := s.Entries()
	gt.Array(t, entries).Length(3)

	byID := make(map[types.MedicineID]time.Time)
	for _, e := range entries {
		byID[e.MedicineID] = e.NextFire
	}
	gt.Value(t, byID[kept.ID]).Equal(manilaTime(t, 2025, 6, 10, 10, 0))
	gt.Value(t, byID[changed.ID]).Equal(manilaTime(t, 2025, 6, 10, 12, 30))
	gt.Value(t, byID[added.ID]).Equal(manilaTime(t, 2025, 6, 10, 13, 0))

	if _, ok := byID[stale.ID]; ok {
		t.Error("stale entry survived reconcile")
	}
	if _, ok := byID[unscheduled.ID]; ok {
		t.Error("unscheduled medicine was armed")
	}
	_, ok := ft.scheduledAt(stale.ID)
	gt.Bool(t, ok).False()
}

func TestFireDedupAndDailyRearm(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()
	s, ft := newScheduler(t, now)

	var mu sync.Mutex
	var fired []time.Time
	s.OnFire(func(ctx context.Context, id types.MedicineID, firedAt time.Time) {
		mu.Lock()
		fired = append(fired, firedAt)
		mu.Unlock()
	})

	m := scheduledMedicine("Paracetamol", 9, 0)
	_, err := s.Arm(ctx, m)
	gt.NoError(t, err)

	fireAt := manilaTime(t, 2025, 6, 10, 9, 0)
	ft.fire(m.ID, fireAt)
	// Redelivery within the same minute is dropped
	ft.fire(m.ID, fireAt.Add(20*time.Second))

	mu.Lock()
	gt.Array(t, fired).Length(1)
	mu.Unlock()

	// Fire re-armed the next occurrence of the wall-clock time
	next, ok := s.NextFire(m.ID)
	gt.Bool(t, ok).True()
	gt.Value(t, next).Equal(manilaTime(t, 2025, 6, 11, 9, 0))
}

func TestExactDeniedDegradesToInexact(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()
	s, ft := newScheduler(t, now)
	ft.exactDenied = true

	m := scheduledMedicine("Paracetamol", 9, 0)
	next, err := s.Arm(ctx, m)
	gt.Error(t, err).Is(interfaces.ErrExactUnavailable)

	// Still armed, inexactly
	gt.Value(t, next).NotNil()
	gt.Array(t, s.Entries()).Length(1)
	at, ok := ft.scheduledAt(m.ID)
	gt.Bool(t, ok).True()
	gt.Value(t, at).Equal(*next)
	gt.Bool(t, ft.inexact[m.ID]).True()
}

func TestScheduleChangedHook(t *testing.T) {
	now := manilaTime(t, 2025, 6, 10, 8, 0)
	ctx := context.Background()

	var mu sync.Mutex
	events := make(map[types.MedicineID][]*time.Time)
	hooks := &interfaces.Hooks{
		OnScheduleChanged: func(id types.MedicineID, nextFire *time.Time) {
			mu.Lock()
			events[id] = append(events[id], nextFire)
			mu.Unlock()
		},
	}

	s, _ := newScheduler(t, now, scheduler.WithHooks(hooks))

	m := scheduledMedicine("Paracetamol", 9, 0)
	_, err := s.Arm(ctx, m)
	gt.NoError(t, err)
	s.Cancel(ctx, m.ID)

	mu.Lock()
	defer mu.Unlock()
	gt.Array(t, events[m.ID]).Length(2)
	gt.Value(t, events[m.ID][0]).NotNil()
	gt.Value(t, events[m.ID][1]).Nil()
}
