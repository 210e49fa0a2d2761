package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/healguard/pkg/domain/types"
)

type hardwareRepository struct {
	mu         sync.RWMutex
	status     map[types.UserID]types.HardwareStatus
	activeUser types.UserID
}

func newHardwareRepository() *hardwareRepository {
	return &hardwareRepository{
		status: make(map[types.UserID]types.HardwareStatus),
	}
}

func (r *hardwareRepository) Status(ctx context.Context, userID types.UserID) (types.HardwareStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, exists := r.status[userID]
	if !exists {
		return types.HardwareStatusUnknown, nil
	}
	return st, nil
}

func (r *hardwareRepository) SetStatus(ctx context.Context, userID types.UserID, st types.HardwareStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status[userID] = st
	return nil
}

func (r *hardwareRepository) SetActiveUser(ctx context.Context, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeUser = userID
	return nil
}

// ActiveUser returns the user the hardware currently serves (test helper)
func (r *hardwareRepository) ActiveUser() types.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeUser
}
