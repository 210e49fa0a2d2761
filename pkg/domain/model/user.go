package model

import (
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// User represents the profile of an account in the user directory
type User struct {
	ID        types.UserID
	Username  string
	Email     string `masq:"secret"`
	CreatedAt time.Time
}
