package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

type notificationRecord struct {
	item *model.NotificationItem
	seq  uint64
}

type notificationRepository struct {
	mu      sync.RWMutex
	entries map[types.UserID]map[types.NotificationID]notificationRecord
	nextSeq uint64
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		entries: make(map[types.UserID]map[types.NotificationID]notificationRecord),
	}
}

func copyNotification(n *model.NotificationItem) *model.NotificationItem {
	copied := *n
	return &copied
}

func (r *notificationRepository) Put(ctx context.Context, userID types.UserID, item *model.NotificationItem) error {
	if item.ID == "" {
		return goerr.New("notification ID is required for persistence")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, exists := r.entries[userID]
	if !exists {
		bucket = make(map[types.NotificationID]notificationRecord)
		r.entries[userID] = bucket
	}
	r.nextSeq++
	bucket[item.ID] = notificationRecord{item: copyNotification(item), seq: r.nextSeq}
	return nil
}

func (r *notificationRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.NotificationItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[userID]
	if !exists {
		return []*model.NotificationItem{}, nil
	}

	records := make([]notificationRecord, 0, len(bucket))
	for _, rec := range bucket {
		records = append(records, rec)
	}
	// Newest first; insertion order breaks timestamp ties
	sort.Slice(records, func(i, j int) bool {
		if !records[i].item.Timestamp.Equal(records[j].item.Timestamp) {
			return records[i].item.Timestamp.After(records[j].item.Timestamp)
		}
		return records[i].seq > records[j].seq
	})

	if limit < len(records) {
		records = records[:limit]
	}
	all := make([]*model.NotificationItem, 0, len(records))
	for _, rec := range records {
		all = append(all, copyNotification(rec.item))
	}
	return all, nil
}
