package usecase

import (
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/scheduler"
	"github.com/secmon-lab/healguard/pkg/service/clock"
	"github.com/secmon-lab/healguard/pkg/service/syncq"
)

const (
	// DefaultHistoryLimit is how many history entries the log surfaces
	DefaultHistoryLimit = 20
	// DefaultNotificationLimit is how many notifications the log surfaces
	DefaultNotificationLimit = 10
)

type UseCases struct {
	repo  interfaces.Repository
	clock *clock.Clock
	sched *scheduler.Scheduler
	queue *syncq.Queue
	alert interfaces.AlertSender
	hooks *interfaces.Hooks

	historyLimit      int
	notificationLimit int

	Medicine *MedicineUseCase
	Log      *LogUseCase
	Hardware *HardwareUseCase
}

type Option func(*UseCases)

// WithAlert sets the sender used for reminder delivery
func WithAlert(sender interfaces.AlertSender) Option {
	return func(uc *UseCases) {
		uc.alert = sender
	}
}

// WithHooks registers UI-facing callbacks
func WithHooks(hooks *interfaces.Hooks) Option {
	return func(uc *UseCases) {
		uc.hooks = hooks
	}
}

// WithSyncQueue sets the queue for ordered best-effort persistence.
// Without a queue, writes run synchronously but stay advisory.
func WithSyncQueue(queue *syncq.Queue) Option {
	return func(uc *UseCases) {
		uc.queue = queue
	}
}

// WithLimits overrides the log read limits
func WithLimits(history, notification int) Option {
	return func(uc *UseCases) {
		uc.historyLimit = history
		uc.notificationLimit = notification
	}
}

func New(repo interfaces.Repository, clk *clock.Clock, sched *scheduler.Scheduler, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:              repo,
		clock:             clk,
		sched:             sched,
		historyLimit:      DefaultHistoryLimit,
		notificationLimit: DefaultNotificationLimit,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Log = NewLogUseCase(repo, clk, uc.queue, uc.hooks, uc.historyLimit, uc.notificationLimit)
	uc.Medicine = NewMedicineUseCase(repo, clk, sched, uc.queue, uc.Log, uc.alert, uc.hooks)
	uc.Hardware = NewHardwareUseCase(repo, uc.hooks)

	if sched != nil {
		sched.OnFire(uc.Medicine.handleReminderFired)
	}

	return uc
}
