package dto

import (
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID                  uuid.UUID              `json:"id"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Author              string                 `json:"author"`
	UserID              uuid.UUID              `json:"user_id"`
	CompanyName         string                 `json:"company_name"`
	ApplicationDeadline string                 `json:"application_deadline"`
	StartDate           string                 `json:"start_date"`
	SalaryAmount        int64                  `json:"salary_amount"`
	WeeklyHours         float64                `json:"weekly_hours"`
	WorkingHoursDetails []job.WorkingHoursSlot `json:"working_hours_details"`
	WorkingLocation     string                 `json:"working_location"`
	InPersonLocation    *string                `json:"in_person_location"`
	Status              string                 `json:"status"`
	CreatedAt           time.Time              `json:"created_at"`
}

type JobListItemResponse struct {
	JobResponse
	HasApplied bool `json:"has_applied"`
}

type JobListResponse struct {
	Jobs       []JobListItemResponse `json:"jobs"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	TotalJobs  int                   `json:"total_jobs"`
}

type SkillMatchResponse struct {
	SkillID       uuid.UUID `json:"skill_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	RequiredYears float64   `json:"required_years"`
	UserYears     *float64  `json:"user_years"`
	Status        string    `json:"status"`
	Difference    *float64  `json:"difference,omitempty"`
}

type OverallMatchResponse struct {
	Status string `json:"status"`
	Label  string `json:"label"`
}

type JobDetailResponse struct {
	JobResponse
	Skills     []SkillMatchResponse  `json:"skills"`
	Overall    *OverallMatchResponse `json:"overall_match,omitempty"`
	HasApplied bool                  `json:"has_applied"`
	IsOwner    bool                  `json:"is_owner"`
}

// DateOnly renders DATE columns the way clients expect them.
func DateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}

func NewJobResponse(j job.Job) JobResponse {
	details := j.WorkingHoursDetails
	if details == nil {
		details = []job.WorkingHoursSlot{}
	}
	return JobResponse{
		ID:                  j.ID,
		Title:               j.Title,
		Description:         j.Description,
		Author:              j.Author,
		UserID:              j.UserID,
		CompanyName:         j.CompanyName,
		ApplicationDeadline: DateOnly(j.ApplicationDeadline),
		StartDate:           DateOnly(j.StartDate),
		SalaryAmount:        j.SalaryAmount,
		WeeklyHours:         j.WeeklyHours,
		WorkingHoursDetails: details,
		WorkingLocation:     string(j.WorkingLocation),
		InPersonLocation:    j.InPersonLocation,
		Status:              string(j.Status),
		CreatedAt:           j.CreatedAt,
	}
}
