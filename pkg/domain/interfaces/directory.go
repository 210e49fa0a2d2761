package interfaces

import (
	"context"

	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// UserDirectory resolves the identity of the active session. When no user is
// signed in, CurrentUserID returns false and all persistence is skipped; the
// session continues in memory only.
type UserDirectory interface {
	CurrentUserID(ctx context.Context) (types.UserID, bool)
	CurrentUser(ctx context.Context) (*model.User, bool)
}
