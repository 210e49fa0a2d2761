package worker

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
)

// DefaultPollInterval is how often the hardware status is refreshed
const DefaultPollInterval = 30 * time.Second

// HardwareStatusWorker polls the dispenser status record and notifies
// observers when the status changes.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement leader election
type HardwareStatusWorker struct {
	repo     interfaces.Repository
	userID   types.UserID
	onChange func(status types.HardwareStatus)
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu   sync.RWMutex
	last types.HardwareStatus
}

// NewHardwareStatusWorker creates a worker polling the status of the
// dispenser serving the given user. onChange may be nil.
func NewHardwareStatusWorker(repo interfaces.Repository, userID types.UserID, interval time.Duration, onChange func(status types.HardwareStatus)) *HardwareStatusWorker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &HardwareStatusWorker{
		repo:     repo,
		userID:   userID,
		onChange: onChange,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		last:     types.HardwareStatusUnknown,
	}
}

// Start begins the background poll loop. Does not block startup.
func (w *HardwareStatusWorker) Start(ctx context.Context) error {
	logging.From(ctx).Info("hardware status worker starting",
		"user_id", w.userID,
		"interval", w.interval.String(),
	)

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *HardwareStatusWorker) Stop() {
	logging.Default().Info("hardware status worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("hardware status worker stopped")
}

// Status returns the most recently observed hardware status
func (w *HardwareStatusWorker) Status() types.HardwareStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

func (w *HardwareStatusWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.refresh(ctx); err != nil {
		logging.From(ctx).Error("initial hardware status refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				logging.From(ctx).Error("hardware status refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.From(ctx).Info("hardware status worker received stop signal")
			return

		case <-ctx.Done():
			logging.From(ctx).Info("hardware status worker context cancelled")
			return
		}
	}
}

func (w *HardwareStatusWorker) refresh(ctx context.Context) error {
	status, err := w.repo.Hardware().Status(ctx, w.userID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	changed := status != w.last
	w.last = status
	w.mu.Unlock()

	if changed {
		logging.From(ctx).Info("hardware status changed",
			"user_id", w.userID,
			"status", status,
		)
		if w.onChange != nil {
			w.onChange(status)
		}
	}
	return nil
}
