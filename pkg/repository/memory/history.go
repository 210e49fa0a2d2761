package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

type historyRecord struct {
	item *model.HistoryItem
	seq  uint64
}

type historyRepository struct {
	mu      sync.RWMutex
	entries map[types.UserID]map[types.HistoryID]historyRecord
	nextSeq uint64
}

func newHistoryRepository() *historyRepository {
	return &historyRepository{
		entries: make(map[types.UserID]map[types.HistoryID]historyRecord),
	}
}

func copyHistory(h *model.HistoryItem) *model.HistoryItem {
	copied := *h
	return &copied
}

func (r *historyRepository) Put(ctx context.Context, userID types.UserID, item *model.HistoryItem) error {
	if item.ID == "" {
		return goerr.New("history ID is required for persistence")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, exists := r.entries[userID]
	if !exists {
		bucket = make(map[types.HistoryID]historyRecord)
		r.entries[userID] = bucket
	}
	r.nextSeq++
	bucket[item.ID] = historyRecord{item: copyHistory(item), seq: r.nextSeq}
	return nil
}

func (r *historyRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[userID]
	if !exists {
		return []*model.HistoryItem{}, nil
	}

	records := make([]historyRecord, 0, len(bucket))
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
	all := make([]*model.HistoryItem, 0, len(records))
	for _, rec := range records {
		all = append(all, copyHistory(rec.item))
	}
	return all, nil
}
