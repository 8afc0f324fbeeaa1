package repository

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/domain/skill"

	"github.com/google/uuid"
)

type JobSkillRepository interface {
	FindByJobID(ctx context.Context, jobID uuid.UUID) ([]skill.JobSkill, error)
	ReplaceForJob(ctx context.Context, jobID uuid.UUID, skills []skill.JobSkill) error
}

type PostgresJobSkillRepository struct {
	db database.DB
}

func NewPostgresJobSkillRepository(db database.DB) *PostgresJobSkillRepository {
	return &PostgresJobSkillRepository{db: db}
}

func (r *PostgresJobSkillRepository) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]skill.JobSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT js.job_id, js.skill_id, s.name, s.category, js.min_years_experience
		 FROM job_skills js
		 JOIN skills s ON s.id = js.skill_id
		 WHERE js.job_id = $1
		 ORDER BY s.name ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.JobSkill, 0)
	for rows.Next() {
		var js skill.JobSkill
		if err := rows.Scan(&js.JobID, &js.SkillID, &js.Name, &js.Category, &js.MinYears); err != nil {
			return nil, err
		}
		out = append(out, js)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForJob swaps a job's requirement set in one transaction, mirroring
// the delete-all-then-insert contract user skills use.
func (r *PostgresJobSkillRepository) ReplaceForJob(ctx context.Context, jobID uuid.UUID, skills []skill.JobSkill) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM job_skills WHERE job_id = $1`, jobID); err != nil {
		return err
	}

	for _, js := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id, min_years_experience) VALUES ($1, $2, $3)`,
			jobID, js.SkillID, js.MinYears,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
