package job

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type WorkingLocation string

const (
	LocationRemote   WorkingLocation = "remote"
	LocationInPerson WorkingLocation = "in_person"
	LocationHybrid   WorkingLocation = "hybrid"
)

const (
	MaxTitleLen       = 100
	MaxCompanyLen     = 100
	MaxDescriptionLen = 5000
	MinWeeklyHours    = 1.0
	MaxWeeklyHours    = 48.0
)

type WorkingHoursSlot struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type Job struct {
	ID                  uuid.UUID
	Title               string
	Description         string
	Author              string
	UserID              uuid.UUID
	CompanyName         string
	ApplicationDeadline time.Time
	StartDate           time.Time
	SalaryAmount        int64
	WeeklyHours         float64
	WorkingHoursDetails []WorkingHoursSlot
	WorkingLocation     WorkingLocation
	InPersonLocation    *string
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type RequiredSkill struct {
	SkillID  uuid.UUID
	Name     string
	Category string
	MinYears float64
}

var ErrInvalid = errors.New("invalid job")

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

func (l WorkingLocation) Valid() bool {
	switch l {
	case LocationRemote, LocationInPerson, LocationHybrid:
		return true
	}
	return false
}

func (j *Job) Open() bool {
	return j != nil && j.Status == StatusOpen
}

// Validate checks the posting fields an owner controls. weekly_hours is
// authoritative over working_hours_details; slots are only checked for
// well-formedness.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" || len(j.Title) > MaxTitleLen {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalid, MaxTitleLen)
	}
	if strings.TrimSpace(j.Description) == "" || len(j.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description must be 1-%d characters", ErrInvalid, MaxDescriptionLen)
	}
	if strings.TrimSpace(j.CompanyName) == "" || len(j.CompanyName) > MaxCompanyLen {
		return fmt.Errorf("%w: company name must be 1-%d characters", ErrInvalid, MaxCompanyLen)
	}
	if j.ApplicationDeadline.IsZero() {
		return fmt.Errorf("%w: application deadline is required", ErrInvalid)
	}
	if j.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalid)
	}
	if !j.StartDate.After(j.ApplicationDeadline) {
		return fmt.Errorf("%w: start date must be after the application deadline", ErrInvalid)
	}
	if j.SalaryAmount <= 0 {
		return fmt.Errorf("%w: salary must be a positive amount", ErrInvalid)
	}
	if j.WeeklyHours < MinWeeklyHours || j.WeeklyHours > MaxWeeklyHours {
		return fmt.Errorf("%w: weekly hours must be between %v and %v", ErrInvalid, MinWeeklyHours, MaxWeeklyHours)
	}
	if !j.WorkingLocation.Valid() {
		return fmt.Errorf("%w: unknown working location", ErrInvalid)
	}
	for _, slot := range j.WorkingHoursDetails {
		if strings.TrimSpace(slot.Day) == "" || strings.TrimSpace(slot.Time) == "" {
			return fmt.Errorf("%w: working hours slots need both a day and a time", ErrInvalid)
		}
	}
	if j.WorkingLocation != LocationRemote {
		if j.InPersonLocation == nil || strings.TrimSpace(*j.InPersonLocation) == "" {
			return fmt.Errorf("%w: in-person location is required unless the job is remote", ErrInvalid)
		}
	}
	return nil
}

// NormalizeLocation clears the in-person location whenever the job flips back
// to remote, so stale client payloads cannot leave one behind.
func (j *Job) NormalizeLocation() {
	if j.WorkingLocation == LocationRemote {
		j.InPersonLocation = nil
		return
	}
	if j.InPersonLocation != nil {
		loc := strings.TrimSpace(*j.InPersonLocation)
		j.InPersonLocation = &loc
	}
}
