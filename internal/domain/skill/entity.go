package skill

import (
	"time"

	"github.com/google/uuid"
)

// Skill is immutable reference data, seeded outside the request path.
type Skill struct {
	ID        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}

type UserSkill struct {
	UserID          uuid.UUID
	SkillID         uuid.UUID
	Name            string
	Category        string
	YearsExperience float64
}

type JobSkill struct {
	JobID    uuid.UUID
	SkillID  uuid.UUID
	Name     string
	Category string
	MinYears float64
}
