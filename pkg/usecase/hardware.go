package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// HardwareUseCase exposes the dispenser status record. Status reports
// from the device arrive as free-form strings and are normalized
// before storage.
type HardwareUseCase struct {
	repo  interfaces.Repository
	hooks *interfaces.Hooks
}

func NewHardwareUseCase(repo interfaces.Repository, hooks *interfaces.Hooks) *HardwareUseCase {
	return &HardwareUseCase{
		repo:  repo,
		hooks: hooks,
	}
}

// Status returns the last reported dispenser status for the user
func (uc *HardwareUseCase) Status(ctx context.Context, userID types.UserID) (types.HardwareStatus, error) {
	status, err := uc.repo.Hardware().Status(ctx, userID)
	if err != nil {
		return types.HardwareStatusUnknown, goerr.Wrap(err, "failed to read hardware status", goerr.V(UserIDKey, userID))
	}
	return status, nil
}

// ReportStatus normalizes and stores a raw status string from the
// device, notifying observers on change.
func (uc *HardwareUseCase) ReportStatus(ctx context.Context, userID types.UserID, raw string) (types.HardwareStatus, error) {
	status := types.NormalizeHardwareStatus(raw)

	prev, err := uc.repo.Hardware().Status(ctx, userID)
	if err != nil {
		prev = types.HardwareStatusUnknown
	}

	if err := uc.repo.Hardware().SetStatus(ctx, userID, status); err != nil {
		return status, goerr.Wrap(err, "failed to store hardware status",
			goerr.V(UserIDKey, userID),
			goerr.V("status", status),
		)
	}

	if status != prev && uc.hooks != nil && uc.hooks.OnHardwareStatusChanged != nil {
		uc.hooks.OnHardwareStatusChanged(status)
	}
	return status, nil
}
