package seeder

import (
	"context"
	"fmt"

	"jobboard/internal/database"
)

// SkillsSeeder loads the reference taxonomy job postings and user profiles
// pick from. Re-running it only fills gaps.
type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name     string
		Category string
	}{
		{Name: "Go", Category: "Programming Language"},
		{Name: "JavaScript", Category: "Programming Language"},
		{Name: "TypeScript", Category: "Programming Language"},
		{Name: "Python", Category: "Programming Language"},
		{Name: "Java", Category: "Programming Language"},
		{Name: "SQL", Category: "Programming Language"},
		{Name: "React", Category: "Frontend"},
		{Name: "Vue", Category: "Frontend"},
		{Name: "HTML/CSS", Category: "Frontend"},
		{Name: "Node.js", Category: "Backend"},
		{Name: "PostgreSQL", Category: "Database"},
		{Name: "MySQL", Category: "Database"},
		{Name: "Redis", Category: "Database"},
		{Name: "Docker", Category: "DevOps"},
		{Name: "Kubernetes", Category: "DevOps"},
		{Name: "CI/CD", Category: "DevOps"},
		{Name: "AWS", Category: "Cloud"},
		{Name: "GCP", Category: "Cloud"},
		{Name: "Azure", Category: "Cloud"},
		{Name: "Project Management", Category: "Soft Skills"},
		{Name: "Technical Writing", Category: "Soft Skills"},
	}

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.Category,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
