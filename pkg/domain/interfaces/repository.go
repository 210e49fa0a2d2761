package interfaces

import (
	"context"

	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// Repository defines the interface for the Record Store. All collections are
// namespaced by user ID. Writes are eventually consistent; reads may be served
// from a local cache.
type Repository interface {
	Medicine() MedicineRepository
	History() HistoryRepository
	Notification() NotificationRepository
	Hardware() HardwareRepository

	Close() error
}

// MedicineRepository persists the per-user medicine set
type MedicineRepository interface {
	Put(ctx context.Context, userID types.UserID, medicine *model.Medicine) error
	Get(ctx context.Context, userID types.UserID, id types.MedicineID) (*model.Medicine, error)
	List(ctx context.Context, userID types.UserID) ([]*model.Medicine, error)
	Delete(ctx context.Context, userID types.UserID, id types.MedicineID) error
}

// HistoryRepository persists the immutable medicine lifecycle history
type HistoryRepository interface {
	Put(ctx context.Context, userID types.UserID, item *model.HistoryItem) error
	// Recent returns up to limit entries ordered by timestamp descending
	Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryItem, error)
}

// NotificationRepository persists the immutable notification log
type NotificationRepository interface {
	Put(ctx context.Context, userID types.UserID, item *model.NotificationItem) error
	// Recent returns up to limit entries ordered by timestamp descending
	Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.NotificationItem, error)
}

// HardwareRepository stores the dispenser hardware state shared with the device
type HardwareRepository interface {
	Status(ctx context.Context, userID types.UserID) (types.HardwareStatus, error)
	SetStatus(ctx context.Context, userID types.UserID, status types.HardwareStatus) error
	// SetActiveUser marks which user's reminders the hardware should serve
	SetActiveUser(ctx context.Context, userID types.UserID) error
}
