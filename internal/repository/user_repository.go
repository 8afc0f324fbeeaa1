package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

type UserRepository interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	FindByUsername(ctx context.Context, username string) (user.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	UpdatePreferences(ctx context.Context, id uuid.UUID, ownStatus, newApplicant bool) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, is_verified,
	notify_own_status_change, notify_new_applicant_for_my_job, created_at, updated_at`

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsVerified,
		&u.NotifyOwnStatusChange, &u.NotifyNewApplicant, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, is_verified,
			notify_own_status_change, notify_new_applicant_for_my_job)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, strings.ToLower(u.Email), u.Username, u.PasswordHash, u.IsVerified,
		u.NotifyOwnStatusChange, u.NotifyNewApplicant,
	)
	if err != nil {
		return user.User{}, uniqueUserError(err)
	}
	return r.FindByID(ctx, u.ID)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email))
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
}

func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateOne(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
}

func (r *PostgresUserRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	err := r.updateOne(ctx,
		`UPDATE users SET email = lower($1), updated_at = now() WHERE id = $2`,
		email, id)
	return uniqueUserError(err)
}

func (r *PostgresUserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	err := r.updateOne(ctx,
		`UPDATE users SET username = $1, updated_at = now() WHERE id = $2`,
		username, id)
	return uniqueUserError(err)
}

func (r *PostgresUserRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, ownStatus, newApplicant bool) error {
	return r.updateOne(ctx,
		`UPDATE users
		 SET notify_own_status_change = $1, notify_new_applicant_for_my_job = $2, updated_at = now()
		 WHERE id = $3`,
		ownStatus, newApplicant, id)
}

func (r *PostgresUserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.updateOne(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1`, id)
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) updateOne(ctx context.Context, query string, args ...any) error {
	rowsAffected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func uniqueUserError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return ErrUsernameTaken
		}
		return ErrEmailTaken
	}
	return err
}
