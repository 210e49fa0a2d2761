package directory

import (
	"context"
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// Static resolves every request to one fixed user. The server runs a
// single signed-in session, matching a dedicated dispenser deployment.
type Static struct {
	user model.User
}

var _ interfaces.UserDirectory = &Static{}

type Option func(*Static)

// WithEmail sets the contact email on the session user
func WithEmail(email string) Option {
	return func(d *Static) {
		d.user.Email = email
	}
}

func NewStatic(userID types.UserID, opts ...Option) *Static {
	d := &Static{
		user: model.User{
			ID:        userID,
			Username:  string(userID),
			CreatedAt: time.Now(),
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Static) CurrentUserID(ctx context.Context) (types.UserID, bool) {
	if d.user.ID == "" {
		return "", false
	}
	return d.user.ID, true
}

func (d *Static) CurrentUser(ctx context.Context) (*model.User, bool) {
	if d.user.ID == "" {
		return nil, false
	}
	user := d.user
	return &user, true
}
