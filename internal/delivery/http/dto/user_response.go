package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID                    uuid.UUID `json:"id"`
	Email                 string    `json:"email"`
	Username              string    `json:"username"`
	IsVerified            bool      `json:"is_verified"`
	NotifyOwnStatusChange bool      `json:"notify_own_status_change"`
	NotifyNewApplicant    bool      `json:"notify_new_applicant_for_my_job"`
	CreatedAt             time.Time `json:"created_at"`
}
