package usecase

import (
	"context"
	"errors"
	"testing"

	"jobboard/internal/domain/skill"

	"github.com/google/uuid"
)

func newUserSkillFixture() (*UserSkillManager, *fakeUserSkillRepo, *fakeSkillRepo) {
	userSkills := &fakeUserSkillRepo{}
	skills := &fakeSkillRepo{known: map[uuid.UUID]skill.Skill{}}
	return NewUserSkillUsecase(userSkills, skills, nil), userSkills, skills
}

func TestReplace_OverwritesProfile(t *testing.T) {
	uc, userSkills, skills := newUserSkillFixture()
	userID := uuid.New()
	goID := uuid.New()
	sqlID := uuid.New()
	skills.known[goID] = skill.Skill{ID: goID, Name: "Go"}
	skills.known[sqlID] = skill.Skill{ID: sqlID, Name: "SQL"}

	userSkills.byUser = map[uuid.UUID][]skill.UserSkill{
		userID: {{UserID: userID, SkillID: sqlID, YearsExperience: 1}},
	}

	out, err := uc.Replace(context.Background(), userID, map[string]string{goID.String(): "3"})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if len(out) != 1 || out[0].SkillID != goID || out[0].YearsExperience != 3 {
		t.Fatalf("unexpected profile %+v", out)
	}
}

func TestReplace_EmptyPayloadClearsProfile(t *testing.T) {
	uc, userSkills, _ := newUserSkillFixture()
	userID := uuid.New()
	userSkills.byUser = map[uuid.UUID][]skill.UserSkill{
		userID: {{UserID: userID, SkillID: uuid.New(), YearsExperience: 2}},
	}

	out, err := uc.Replace(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("profile not cleared: %+v", out)
	}
}

func TestReplace_UnknownSkillRejected(t *testing.T) {
	uc, _, _ := newUserSkillFixture()

	_, err := uc.Replace(context.Background(), uuid.New(), map[string]string{uuid.NewString(): "2"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReplace_RequiresAuth(t *testing.T) {
	uc, _, _ := newUserSkillFixture()
	if _, err := uc.Replace(context.Background(), uuid.Nil, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.ListMine(context.Background(), uuid.Nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
