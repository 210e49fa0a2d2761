package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/service/clock"
	"github.com/secmon-lab/healguard/pkg/service/syncq"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
)

// LogUseCase is the append-only event log: medicine change history and
// user-facing notifications. Appends are best-effort and reads degrade
// to empty when the store is unreachable, so the log never blocks or
// fails a user action.
type LogUseCase struct {
	repo  interfaces.Repository
	clock *clock.Clock
	queue *syncq.Queue
	hooks *interfaces.Hooks

	historyLimit      int
	notificationLimit int
}

func NewLogUseCase(repo interfaces.Repository, clk *clock.Clock, queue *syncq.Queue, hooks *interfaces.Hooks, historyLimit, notificationLimit int) *LogUseCase {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if notificationLimit <= 0 {
		notificationLimit = DefaultNotificationLimit
	}
	return &LogUseCase{
		repo:              repo,
		clock:             clk,
		queue:             queue,
		hooks:             hooks,
		historyLimit:      historyLimit,
		notificationLimit: notificationLimit,
	}
}

// AppendHistory records a medicine change event. Missing ID and
// timestamp fields are filled in; persistence is best-effort.
func (uc *LogUseCase) AppendHistory(ctx context.Context, userID types.UserID, item *model.HistoryItem) *model.HistoryItem {
	if item.ID == "" {
		item.ID = types.NewHistoryID()
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = uc.clock.Now()
	}
	if item.Date == "" {
		item.Date = uc.clock.FormatDate(item.Timestamp)
	}
	if item.Time == "" {
		item.Time = uc.clock.FormatTime(item.Timestamp)
	}

	stored := *item
	uc.persist(ctx, userID, string(userID)+"/history", func(bgCtx context.Context) error {
		return uc.repo.History().Put(bgCtx, userID, &stored)
	})

	if uc.hooks != nil && uc.hooks.OnHistoryAppended != nil {
		uc.hooks.OnHistoryAppended(item)
	}
	return item
}

// AppendNotification records a user-facing notification. Missing ID
// and timestamp fields are filled in; persistence is best-effort.
func (uc *LogUseCase) AppendNotification(ctx context.Context, userID types.UserID, item *model.NotificationItem) *model.NotificationItem {
	if item.ID == "" {
		item.ID = types.NewNotificationID()
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = uc.clock.Now()
	}

	stored := *item
	uc.persist(ctx, userID, string(userID)+"/notifications", func(bgCtx context.Context) error {
		return uc.repo.Notification().Put(bgCtx, userID, &stored)
	})

	if uc.hooks != nil && uc.hooks.OnNotificationAppended != nil {
		uc.hooks.OnNotificationAppended(item)
	}
	return item
}

// RecentHistory returns the most recent history entries, newest first.
// An unreachable store yields an empty list, never an error.
func (uc *LogUseCase) RecentHistory(ctx context.Context, userID types.UserID) []*model.HistoryItem {
	items, err := uc.repo.History().Recent(ctx, userID, uc.historyLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to read history, degrading to empty",
			UserIDKey, userID,
			"error", err.Error(),
		)
		return []*model.HistoryItem{}
	}
	return items
}

// RecentNotifications returns the most recent notifications, newest
// first. An unreachable store yields an empty list, never an error.
func (uc *LogUseCase) RecentNotifications(ctx context.Context, userID types.UserID) []*model.NotificationItem {
	items, err := uc.repo.Notification().Recent(ctx, userID, uc.notificationLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to read notifications, degrading to empty",
			UserIDKey, userID,
			"error", err.Error(),
		)
		return []*model.NotificationItem{}
	}
	return items
}

// persist runs the write through the sync queue when configured, or
// synchronously otherwise. Failures are advisory either way, and a
// session without a signed-in user stays in memory only.
func (uc *LogUseCase) persist(ctx context.Context, userID types.UserID, key string, op func(ctx context.Context) error) {
	if userID == "" {
		logging.From(ctx).Debug("no signed-in user, keeping local state only", "key", key)
		return
	}
	if uc.queue != nil {
		if err := uc.queue.Enqueue(ctx, key, op); err != nil {
			logging.From(ctx).Warn("failed to enqueue log write", "key", key, "error", err.Error())
		}
		return
	}
	if err := op(ctx); err != nil {
		logging.From(ctx).Warn("log write failed, keeping local state",
			"key", key,
			"error", goerr.Unwrap(err),
		)
	}
}
