package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/domain/skill"

	"github.com/google/uuid"
)

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, skills []skill.UserSkill) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.user_id, us.skill_id, s.name, s.category, us.years_experience
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		var us skill.UserSkill
		if err := rows.Scan(&us.UserID, &us.SkillID, &us.Name, &us.Category, &us.YearsExperience); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForUser swaps the user's whole skill profile in one transaction.
// Updates are full replacements, never merges.
func (r *PostgresUserSkillRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, skills []skill.UserSkill) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for _, us := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_skills (user_id, skill_id, years_experience) VALUES ($1, $2, $3)`,
			userID, us.SkillID, us.YearsExperience,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
