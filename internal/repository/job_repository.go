package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrJobNotFound = errors.New("job not found")

// JobListFilter is the conjunctive filter set for the job board listing.
// Zero values mean "no filter". IDs, when non-nil, restricts the result to
// that id set; callers pass a single impossible id to force an empty page.
type JobListFilter struct {
	MinSalary  *int64
	Status     job.Status
	Location   job.WorkingLocation
	HoursOp    string // "gt" or "lt"
	HoursValue *float64
	IDs        []uuid.UUID
	Limit      int
	Offset     int
}

// JobRequirements pairs a candidate job id with its required-skill set for
// the in-memory match pass.
type JobRequirements struct {
	JobID    uuid.UUID
	Required []skill.JobSkill
}

type OpenJobDeadline struct {
	ID       uuid.UUID
	Deadline *string
}

type JobRepository interface {
	Create(ctx context.Context, j job.Job) (job.Job, error)
	FindByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Update(ctx context.Context, j job.Job) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f JobListFilter) ([]job.Job, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error)
	ListCandidatesWithSkills(ctx context.Context, f JobListFilter) ([]JobRequirements, error)
	ListOpenDeadlines(ctx context.Context) ([]OpenJobDeadline, error)
	CloseJobs(ctx context.Context, ids []uuid.UUID) (int64, error)
	CloseIfOpen(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, title, description, author, user_id, company_name,
	application_deadline, start_date, salary_amount, weekly_hours,
	working_hours_details, working_location, in_person_location, status,
	created_at, updated_at`

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var details []byte
	err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Author, &j.UserID, &j.CompanyName,
		&j.ApplicationDeadline, &j.StartDate, &j.SalaryAmount, &j.WeeklyHours,
		&details, &j.WorkingLocation, &j.InPersonLocation, &j.Status,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &j.WorkingHoursDetails); err != nil {
			return job.Job{}, fmt.Errorf("decode working_hours_details for job %s: %w", j.ID, err)
		}
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	details, err := json.Marshal(j.WorkingHoursDetails)
	if err != nil {
		return job.Job{}, err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO jobs (id, title, description, author, user_id, company_name,
			application_deadline, start_date, salary_amount, weekly_hours,
			working_hours_details, working_location, in_person_location, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'open')`,
		j.ID, j.Title, j.Description, j.Author, j.UserID, j.CompanyName,
		j.ApplicationDeadline, j.StartDate, j.SalaryAmount, j.WeeklyHours,
		details, j.WorkingLocation, j.InPersonLocation,
	)
	if err != nil {
		return job.Job{}, err
	}
	return r.FindByID(ctx, j.ID)
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	details, err := json.Marshal(j.WorkingHoursDetails)
	if err != nil {
		return job.Job{}, err
	}

	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE jobs
		 SET title = $1, description = $2, company_name = $3,
			application_deadline = $4, start_date = $5, salary_amount = $6,
			weekly_hours = $7, working_hours_details = $8, working_location = $9,
			in_person_location = $10, status = $11, updated_at = now()
		 WHERE id = $12`,
		j.Title, j.Description, j.CompanyName,
		j.ApplicationDeadline, j.StartDate, j.SalaryAmount,
		j.WeeklyHours, details, j.WorkingLocation,
		j.InPersonLocation, j.Status, j.ID,
	)
	if err != nil {
		return job.Job{}, err
	}
	if rowsAffected == 0 {
		return job.Job{}, ErrJobNotFound
	}
	return r.FindByID(ctx, j.ID)
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) List(ctx context.Context, f JobListFilter) ([]job.Job, int, error) {
	where, args := buildJobFilter(f, "", true)

	var total int
	countQuery := `SELECT COUNT(*) FROM jobs` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + jobColumns + ` FROM jobs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rowScanner{rows})
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rowScanner{rows})
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCandidatesWithSkills is the first pass of the skill-match filter: every
// job satisfying the basic filters together with its required skills. The IDs
// restriction and pagination do not apply to this pass.
func (r *PostgresJobRepository) ListCandidatesWithSkills(ctx context.Context, f JobListFilter) ([]JobRequirements, error) {
	where, args := buildJobFilter(f, "j.", false)

	rows, err := r.db.Query(ctx,
		`SELECT j.id, js.skill_id, COALESCE(s.name, ''), COALESCE(s.category, ''), COALESCE(js.min_years_experience, 0)
		 FROM jobs j
		 LEFT JOIN job_skills js ON js.job_id = j.id
		 LEFT JOIN skills s ON s.id = js.skill_id`+where+` ORDER BY j.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byJob := make(map[uuid.UUID]*JobRequirements)
	order := make([]uuid.UUID, 0)
	for rows.Next() {
		var jobID uuid.UUID
		var skillID *uuid.UUID
		var name, category string
		var minYears float64
		if err := rows.Scan(&jobID, &skillID, &name, &category, &minYears); err != nil {
			return nil, err
		}
		jr, ok := byJob[jobID]
		if !ok {
			jr = &JobRequirements{JobID: jobID}
			byJob[jobID] = jr
			order = append(order, jobID)
		}
		if skillID != nil {
			jr.Required = append(jr.Required, skill.JobSkill{
				JobID:    jobID,
				SkillID:  *skillID,
				Name:     name,
				Category: category,
				MinYears: minYears,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]JobRequirements, 0, len(order))
	for _, id := range order {
		out = append(out, *byJob[id])
	}
	return out, nil
}

// ListOpenDeadlines returns deadlines as raw text so the sweep can skip and
// report rows it cannot parse instead of failing wholesale.
func (r *PostgresJobRepository) ListOpenDeadlines(ctx context.Context) ([]OpenJobDeadline, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, application_deadline::text FROM jobs WHERE status = 'open'`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OpenJobDeadline, 0)
	for rows.Next() {
		var d OpenJobDeadline
		if err := rows.Scan(&d.ID, &d.Deadline); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) CloseJobs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.db.Exec(ctx,
		`UPDATE jobs SET status = 'closed', updated_at = now()
		 WHERE id = ANY($1::uuid[]) AND status = 'open'`,
		uuidStrings(ids),
	)
}

// CloseIfOpen is the conditional close used when an offer is accepted; the
// status predicate makes re-closing a no-op.
func (r *PostgresJobRepository) CloseIfOpen(ctx context.Context, id uuid.UUID) (bool, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = 'closed', updated_at = now()
		 WHERE id = $1 AND status = 'open'`,
		id,
	)
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// rowScanner adapts database.Rows to database.Row for the shared scan helper.
type rowScanner struct {
	rows database.Rows
}

func (s rowScanner) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func buildJobFilter(f JobListFilter, col string, includeIDs bool) (string, []any) {
	conds := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, col+fmt.Sprintf(cond, len(args)))
	}

	if f.MinSalary != nil {
		add(`salary_amount >= $%d`, *f.MinSalary)
	}
	if f.Status != "" {
		add(`status = $%d`, string(f.Status))
	}
	if f.Location != "" {
		add(`working_location = $%d`, string(f.Location))
	}
	if f.HoursValue != nil {
		switch f.HoursOp {
		case "gt":
			add(`weekly_hours > $%d`, *f.HoursValue)
		case "lt":
			add(`weekly_hours < $%d`, *f.HoursValue)
		}
	}
	if includeIDs && f.IDs != nil {
		add(`id = ANY($%d::uuid[])`, uuidStrings(f.IDs))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
