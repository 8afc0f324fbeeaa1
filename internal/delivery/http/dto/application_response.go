package dto

import (
	"time"

	"jobboard/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type MyApplicationResponse struct {
	ApplicationResponse
	JobTitle  string `json:"job_title"`
	JobStatus string `json:"job_status"`
}

type ReceivedApplicationResponse struct {
	ApplicationResponse
	JobTitle   string               `json:"job_title"`
	Applicant  string               `json:"applicant"`
	SkillMatch OverallMatchResponse `json:"skill_match"`
}

type AcceptOfferResponse struct {
	Application ApplicationResponse `json:"application"`
	JobClosed   bool                `json:"job_closed"`
	Warning     string              `json:"warning,omitempty"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplicantID: a.ApplicantID,
		Title:       a.Title,
		Description: a.Description,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}
