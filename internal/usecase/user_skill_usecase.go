package usecase

import (
	"context"
	"log"

	"jobboard/internal/domain/skill"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

type UserSkillUsecase interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	Replace(ctx context.Context, userID uuid.UUID, raw map[string]string) ([]skill.UserSkill, error)
}

// UserSkillManager maintains a user's skill profile. Updates replace the
// whole set; there is no per-skill patching.
type UserSkillManager struct {
	userSkills repository.UserSkillRepository
	skills     repository.SkillRepository
	logger     *log.Logger
}

func NewUserSkillUsecase(
	userSkills repository.UserSkillRepository,
	skills repository.SkillRepository,
	logger *log.Logger,
) *UserSkillManager {
	return &UserSkillManager{userSkills: userSkills, skills: skills, logger: logger}
}

func (u *UserSkillManager) ListMine(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	out, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return nil, u.internal("list user skills", err)
	}
	return out, nil
}

// Replace overwrites the user's profile with the parsed entries. An empty or
// entirely malformed payload clears the profile.
func (u *UserSkillManager) Replace(ctx context.Context, userID uuid.UUID, raw map[string]string) ([]skill.UserSkill, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	parsed := ParseSkillsInput(raw, u.logger)
	next := make([]skill.UserSkill, 0, len(parsed))
	for _, sy := range parsed {
		ok, err := u.skills.ExistsByID(ctx, sy.SkillID)
		if err != nil {
			return nil, u.internal("replace: check skill", err)
		}
		if !ok {
			return nil, ErrInvalidInput
		}
		next = append(next, skill.UserSkill{
			UserID:          userID,
			SkillID:         sy.SkillID,
			YearsExperience: sy.Years,
		})
	}

	if err := u.userSkills.ReplaceForUser(ctx, userID, next); err != nil {
		return nil, u.internal("replace user skills", err)
	}
	out, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return nil, u.internal("replace: reload", err)
	}
	return out, nil
}

func (u *UserSkillManager) internal(op string, err error) error {
	if u.logger != nil {
		u.logger.Printf("[UserSkills] %s: %v", op, err)
	}
	return ErrInternal
}
