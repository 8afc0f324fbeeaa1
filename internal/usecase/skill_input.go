package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SkillYears is one parsed entry from a skills form payload.
type SkillYears struct {
	SkillID uuid.UUID
	Years   float64
}

var uuidKeyRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ParseSkillsInput converts a raw skills object (skill id → years) into typed
// entries. Malformed keys and values are dropped with a warning rather than
// failing the whole request.
func ParseSkillsInput(raw map[string]string, logger *log.Logger) []SkillYears {
	out := make([]SkillYears, 0, len(raw))
	for key, val := range raw {
		if !uuidKeyRe.MatchString(key) {
			warnSkillInput(logger, key, val)
			continue
		}
		id, err := uuid.Parse(key)
		if err != nil {
			warnSkillInput(logger, key, val)
			continue
		}
		years, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || years < 0 {
			warnSkillInput(logger, key, val)
			continue
		}
		out = append(out, SkillYears{SkillID: id, Years: years})
	}
	return out
}

func warnSkillInput(logger *log.Logger, key, val string) {
	if logger != nil {
		logger.Printf("[Skills] skipping invalid skill input | id=%q years=%q", key, val)
	}
}
