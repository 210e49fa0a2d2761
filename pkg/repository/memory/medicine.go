package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

type medicineRepository struct {
	mu        sync.RWMutex
	medicines map[types.UserID]map[types.MedicineID]*model.Medicine
}

func newMedicineRepository() *medicineRepository {
	return &medicineRepository{
		medicines: make(map[types.UserID]map[types.MedicineID]*model.Medicine),
	}
}

func (r *medicineRepository) Put(ctx context.Context, userID types.UserID, medicine *model.Medicine) error {
	if medicine.ID == "" {
		return goerr.New("medicine ID is required for persistence", goerr.V("name", medicine.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, exists := r.medicines[userID]
	if !exists {
		bucket = make(map[types.MedicineID]*model.Medicine)
		r.medicines[userID] = bucket
	}
	bucket[medicine.ID] = medicine.Clone()
	return nil
}

func (r *medicineRepository) Get(ctx context.Context, userID types.UserID, id types.MedicineID) (*model.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.medicines[userID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "medicine not found", goerr.V("id", id))
	}
	m, exists := bucket[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "medicine not found", goerr.V("id", id))
	}
	return m.Clone(), nil
}

func (r *medicineRepository) List(ctx context.Context, userID types.UserID) ([]*model.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.medicines[userID]
	if !exists {
		return []*model.Medicine{}, nil
	}

	result := make([]*model.Medicine, 0, len(bucket))
	for _, m := range bucket {
		result = append(result, m.Clone())
	}
	return result, nil
}

func (r *medicineRepository) Delete(ctx context.Context, userID types.UserID, id types.MedicineID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, exists := r.medicines[userID]
	if !exists {
		return goerr.Wrap(ErrNotFound, "medicine not found", goerr.V("id", id))
	}
	if _, exists := bucket[id]; !exists {
		return goerr.Wrap(ErrNotFound, "medicine not found", goerr.V("id", id))
	}
	delete(bucket, id)
	return nil
}
