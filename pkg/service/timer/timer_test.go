package timer_test

import (
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/service/timer"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired []types.MedicineID
	ch    chan types.MedicineID
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{ch: make(chan types.MedicineID, 16)}
}

func (r *fireRecorder) handler(id types.MedicineID, firedAt time.Time) {
	r.mu.Lock()
	r.fired = append(r.fired, id)
	r.mu.Unlock()
	r.ch <- id
}

func (r *fireRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func (r *fireRecorder) wait(t *testing.T) types.MedicineID {
	t.Helper()
	select {
	case id := <-r.ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fire")
		return ""
	}
}

func TestScheduleFires(t *testing.T) {
	rec := newFireRecorder()
	svc := timer.New(rec.handler)

	id := types.NewMedicineID()
	gt.NoError(t, svc.ScheduleExact(id, time.Now().Add(10*time.Millisecond)))

	gt.Value(t, rec.wait(t)).Equal(id)
}

func TestReschedulingReplacesPending(t *testing.T) {
	rec := newFireRecorder()
	svc := timer.New(rec.handler)

	id := types.NewMedicineID()
	gt.NoError(t, svc.ScheduleExact(id, time.Now().Add(time.Hour)))
	gt.NoError(t, svc.ScheduleExact(id, time.Now().Add(10*time.Millisecond)))

	gt.Value(t, rec.wait(t)).Equal(id)

	// Only one pending timer survived the replacement
	time.Sleep(50 * time.Millisecond)
	gt.Number(t, rec.count()).Equal(1)
	gt.Number(t, len(svc.Pending())).Equal(0)
}

func TestCancelDropsPending(t *testing.T) {
	rec := newFireRecorder()
	svc := timer.New(rec.handler)

	id := types.NewMedicineID()
	gt.NoError(t, svc.ScheduleExact(id, time.Now().Add(30*time.Millisecond)))
	svc.Cancel(id)

	time.Sleep(100 * time.Millisecond)
	gt.Number(t, rec.count()).Equal(0)
	gt.Number(t, len(svc.Pending())).Equal(0)
}

func TestCancelUnknownIDIsNoop(t *testing.T) {
	svc := timer.New(newFireRecorder().handler)
	svc.Cancel(types.NewMedicineID())
}

func TestWithoutExactDegrades(t *testing.T) {
	rec := newFireRecorder()
	svc := timer.New(rec.handler, timer.WithoutExact())

	id := types.NewMedicineID()
	err := svc.ScheduleExact(id, time.Now().Add(time.Hour))
	gt.Error(t, err).Is(interfaces.ErrExactUnavailable)

	// Inexact scheduling still works
	gt.NoError(t, svc.Schedule(id, time.Now().Add(10*time.Millisecond)))
	gt.Value(t, rec.wait(t)).Equal(id)
}
