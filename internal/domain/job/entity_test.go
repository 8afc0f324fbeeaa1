package job

import (
	"strings"
	"testing"
	"time"
)

func validJob() Job {
	loc := "Berlin"
	return Job{
		Title:               "Backend Engineer",
		Description:         "Build things",
		CompanyName:         "Acme",
		ApplicationDeadline: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		StartDate:           time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		SalaryAmount:        60000,
		WeeklyHours:         40,
		WorkingLocation:     LocationInPerson,
		InPersonLocation:    &loc,
		Status:              StatusOpen,
	}
}

func TestValidate_OK(t *testing.T) {
	j := validJob()
	if err := j.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	long := strings.Repeat("x", MaxDescriptionLen+1)

	cases := []struct {
		name   string
		mutate func(*Job)
	}{
		{"empty title", func(j *Job) { j.Title = "  " }},
		{"title too long", func(j *Job) { j.Title = strings.Repeat("x", MaxTitleLen+1) }},
		{"empty description", func(j *Job) { j.Description = "" }},
		{"description too long", func(j *Job) { j.Description = long }},
		{"empty company", func(j *Job) { j.CompanyName = "" }},
		{"zero deadline", func(j *Job) { j.ApplicationDeadline = time.Time{} }},
		{"zero start date", func(j *Job) { j.StartDate = time.Time{} }},
		{"start before deadline", func(j *Job) { j.StartDate = j.ApplicationDeadline.AddDate(0, 0, -1) }},
		{"start equals deadline", func(j *Job) { j.StartDate = j.ApplicationDeadline }},
		{"zero salary", func(j *Job) { j.SalaryAmount = 0 }},
		{"negative salary", func(j *Job) { j.SalaryAmount = -1 }},
		{"hours too low", func(j *Job) { j.WeeklyHours = 0.5 }},
		{"hours too high", func(j *Job) { j.WeeklyHours = 49 }},
		{"unknown location", func(j *Job) { j.WorkingLocation = "boat" }},
		{"in-person without address", func(j *Job) { j.InPersonLocation = nil }},
		{"blank address", func(j *Job) { s := "  "; j.InPersonLocation = &s }},
		{"half-filled hours slot", func(j *Job) {
			j.WorkingHoursDetails = []WorkingHoursSlot{{Day: "Monday", Time: ""}}
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			j := validJob()
			c.mutate(&j)
			if err := j.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_RemoteNeedsNoAddress(t *testing.T) {
	j := validJob()
	j.WorkingLocation = LocationRemote
	j.InPersonLocation = nil
	if err := j.Validate(); err != nil {
		t.Fatalf("remote job must not require an address: %v", err)
	}
}

func TestNormalizeLocation_RemoteClearsAddress(t *testing.T) {
	j := validJob()
	j.WorkingLocation = LocationRemote
	j.NormalizeLocation()
	if j.InPersonLocation != nil {
		t.Fatal("address must be cleared when the job flips to remote")
	}
}

func TestNormalizeLocation_TrimsAddress(t *testing.T) {
	j := validJob()
	s := "  Berlin  "
	j.InPersonLocation = &s
	j.NormalizeLocation()
	if *j.InPersonLocation != "Berlin" {
		t.Fatalf("expected trimmed address, got %q", *j.InPersonLocation)
	}
}

func TestHalfHourWeeklyHours(t *testing.T) {
	j := validJob()
	j.WeeklyHours = 37.5
	if err := j.Validate(); err != nil {
		t.Fatalf("fractional hours within range must pass: %v", err)
	}
}
