package usecase

import (
	"context"
	"log"

	"jobboard/internal/domain/skill"
	"jobboard/internal/repository"
)

type SkillUsecase interface {
	ListAll(ctx context.Context) ([]skill.Skill, error)
}

// SkillCatalog serves the reference skill taxonomy users and jobs pick from.
type SkillCatalog struct {
	skills repository.SkillRepository
	logger *log.Logger
}

func NewSkillUsecase(skills repository.SkillRepository, logger *log.Logger) *SkillCatalog {
	return &SkillCatalog{skills: skills, logger: logger}
}

func (u *SkillCatalog) ListAll(ctx context.Context) ([]skill.Skill, error) {
	out, err := u.skills.ListAll(ctx)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Skills] list catalog: %v", err)
		}
		return nil, ErrInternal
	}
	return out, nil
}
