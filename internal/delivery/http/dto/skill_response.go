package dto

import "github.com/google/uuid"

type SkillResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type UserSkillResponse struct {
	SkillID         uuid.UUID `json:"skill_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	YearsExperience float64   `json:"years_experience"`
}
