package skillmatch

import "github.com/google/uuid"

type Status string

const (
	StatusMet     Status = "met"
	StatusPartial Status = "partial"
	StatusMissing Status = "missing"
)

type SkillStatus string

const (
	SkillMet          SkillStatus = "met"
	SkillInsufficient SkillStatus = "insufficient"
	SkillMissing      SkillStatus = "missing"
)

type UserSkill struct {
	SkillID         uuid.UUID
	Name            string
	Category        string
	YearsExperience float64
}

type RequiredSkill struct {
	SkillID  uuid.UUID
	Name     string
	Category string
	MinYears float64
}

type Result struct {
	Status Status
	Label  string
}

type SkillMatch struct {
	SkillID       uuid.UUID
	Name          string
	Category      string
	RequiredYears float64
	UserYears     *float64
	Status        SkillStatus
	Difference    *float64
}

// Overall classifies a candidate's skill profile against a job's
// requirements. A single absent skill marks the whole profile missing,
// regardless of how the remaining skills compare; insufficient experience
// on a present skill only downgrades to partial.
func Overall(userSkills []UserSkill, required []RequiredSkill) Result {
	if len(required) == 0 {
		return Result{Status: StatusMet, Label: "Met (No skills required)"}
	}
	if len(userSkills) == 0 {
		return Result{Status: StatusMissing, Label: "Missing All Skills"}
	}

	years := yearsBySkillID(userSkills)

	sufficient := true
	for _, req := range required {
		have, ok := years[req.SkillID]
		if !ok {
			// Presence failure dominates, no need to inspect the rest.
			return Result{Status: StatusMissing, Label: "Missing Some Skills"}
		}
		if have < req.MinYears {
			sufficient = false
		}
	}

	if sufficient {
		return Result{Status: StatusMet, Label: "Meets Requirements"}
	}
	return Result{Status: StatusPartial, Label: "Insufficient Experience"}
}

// PerSkill produces the per-requirement breakdown shown on the job detail
// page. It is independent of Overall but agrees with it on fully-met
// profiles.
func PerSkill(userSkills []UserSkill, required []RequiredSkill) []SkillMatch {
	if len(required) == 0 {
		return []SkillMatch{}
	}

	years := yearsBySkillID(userSkills)

	out := make([]SkillMatch, 0, len(required))
	for _, req := range required {
		m := SkillMatch{
			SkillID:       req.SkillID,
			Name:          req.Name,
			Category:      req.Category,
			RequiredYears: req.MinYears,
			Status:        SkillMissing,
		}
		if have, ok := years[req.SkillID]; ok {
			y := have
			m.UserYears = &y
			if have >= req.MinYears {
				m.Status = SkillMet
			} else {
				m.Status = SkillInsufficient
				d := req.MinYears - have
				m.Difference = &d
			}
		}
		out = append(out, m)
	}
	return out
}

func yearsBySkillID(userSkills []UserSkill) map[uuid.UUID]float64 {
	m := make(map[uuid.UUID]float64, len(userSkills))
	for _, us := range userSkills {
		if us.SkillID == uuid.Nil {
			continue
		}
		m[us.SkillID] = us.YearsExperience
	}
	return m
}
