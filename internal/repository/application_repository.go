package repository

import (
	"context"
	"database/sql"
	"errors"

	"jobboard/internal/database"
	"jobboard/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrApplicationNotFound = errors.New("application not found")

	// ErrDuplicateApplication surfaces the UNIQUE (job_id, applicant_id)
	// violation; callers translate it to an "already applied" message
	// instead of a generic failure.
	ErrDuplicateApplication = errors.New("already applied for this job")

	// ErrStaleStatus means a conditional status update matched no row: the
	// application moved out of the expected state between read and write.
	ErrStaleStatus = errors.New("application status changed concurrently")
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) (application.Application, error)
	FindByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error)
	ListForJobOwner(ctx context.Context, ownerID uuid.UUID) ([]application.Application, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to application.Status) (application.Application, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, applicant_id, title, description, status, created_at`

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Title, &a.Description, &a.Status, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, applicant_id, title, description, status)
		 VALUES ($1, $2, $3, $4, $5, 'pending')`,
		a.ID, a.JobID, a.ApplicantID, a.Title, a.Description,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return application.Application{}, ErrDuplicateApplication
		}
		return application.Application{}, err
	}
	return r.FindByID(ctx, a.ID)
}

func (r *PostgresApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return scanApplication(r.db.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE applicant_id = $1 ORDER BY created_at DESC`,
		applicantID)
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID)
}

func (r *PostgresApplicationRepository) ListForJobOwner(ctx context.Context, ownerID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT a.id, a.job_id, a.applicant_id, a.title, a.description, a.status, a.created_at
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE j.user_id = $1
		 ORDER BY a.created_at DESC`,
		ownerID)
}

// UpdateStatusFrom performs a compare-and-swap on the status column. The
// store, not a pair of sequential reads, is what rejects the second of two
// concurrent transitions.
func (r *PostgresApplicationRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to application.Status) (application.Application, error) {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return application.Application{}, err
	}
	if rowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); errors.Is(err, ErrApplicationNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrStaleStatus
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rowScanner{rows})
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
