package timer

import (
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// Timer delivers fire callbacks at absolute instants using in-process
// timers. Scheduling an ID that already has a pending timer replaces
// it. Cancel drops a pending delivery but a callback already in
// flight may still run; consumers must drop deliveries for IDs they
// no longer track.
type Timer struct {
	mu      sync.Mutex
	pending map[types.MedicineID]*entry
	handler interfaces.FireHandler
	exact   bool
}

type entry struct {
	timer *time.Timer
	at    time.Time
}

var _ interfaces.TimerService = &Timer{}

type Option func(*Timer)

// WithoutExact simulates an environment where exact delivery is not
// permitted: ScheduleExact fails and callers must degrade to
// Schedule.
func WithoutExact() Option {
	return func(t *Timer) {
		t.exact = false
	}
}

func New(handler interfaces.FireHandler, opts ...Option) *Timer {
	t := &Timer{
		pending: make(map[types.MedicineID]*entry),
		handler: handler,
		exact:   true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ScheduleExact schedules an exact-time delivery. It fails with
// ErrExactUnavailable when exact delivery is not permitted.
func (t *Timer) ScheduleExact(id types.MedicineID, at time.Time) error {
	if !t.exact {
		return goerr.Wrap(interfaces.ErrExactUnavailable, "exact delivery not permitted", goerr.V("id", id))
	}
	t.schedule(id, at)
	return nil
}

// Schedule schedules a delivery that may be delayed by the runtime
func (t *Timer) Schedule(id types.MedicineID, at time.Time) error {
	t.schedule(id, at)
	return nil
}

func (t *Timer) schedule(id types.MedicineID, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, exists := t.pending[id]; exists {
		prev.timer.Stop()
	}

	e := &entry{at: at}
	e.timer = time.AfterFunc(time.Until(at), func() {
		t.fire(id, e)
	})
	t.pending[id] = e
}

func (t *Timer) fire(id types.MedicineID, e *entry) {
	t.mu.Lock()
	if t.pending[id] != e {
		// Replaced or cancelled after the timer expired
		t.mu.Unlock()
		return
	}
	delete(t.pending, id)
	t.mu.Unlock()

	t.handler(id, e.at)
}

// Cancel removes any pending delivery for the ID.
func (t *Timer) Cancel(id types.MedicineID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, exists := t.pending[id]; exists {
		e.timer.Stop()
		delete(t.pending, id)
	}
}

// Pending returns the instants of all pending deliveries
func (t *Timer) Pending() map[types.MedicineID]time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[types.MedicineID]time.Time, len(t.pending))
	for id, e := range t.pending {
		result[id] = e.at
	}
	return result
}
