package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	IsVerified   bool

	// Email notification preferences, both opt-in.
	NotifyOwnStatusChange bool
	NotifyNewApplicant    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is what notification emails address the user by.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
