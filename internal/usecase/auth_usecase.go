package usecase

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"regexp"
	"strings"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
	minUsernameLen = 3
	maxUsernameLen = 30
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email address not verified")
)

// AccountMailer sends the confirmation-link emails for account flows.
type AccountMailer interface {
	VerificationLink(ctx context.Context, u user.User, subject, path, token string)
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, error)
	Login(ctx context.Context, email, password string) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type Auth struct {
	users  repository.UserRepository
	tokens jwt.Service
	mailer AccountMailer
	logger *log.Logger

	hash    func(password []byte, cost int) ([]byte, error)
	compare func(hash, password []byte) error
}

func NewAuthUsecase(users repository.UserRepository, tokens jwt.Service, mailer AccountMailer, logger *log.Logger) *Auth {
	return &Auth{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		logger:  logger,
		hash:    bcrypt.GenerateFromPassword,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Register creates an unverified account and mails the verification link.
// Uniqueness of email and username is enforced by storage, so a race between
// two registrations surfaces as the same error as a plain duplicate.
func (u *Auth) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if _, err := mail.ParseAddress(email); err != nil {
		return user.User{}, ErrInvalidInput
	}
	if len(username) < minUsernameLen || len(username) > maxUsernameLen || !usernameRe.MatchString(username) {
		return user.User{}, ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return user.User{}, ErrInvalidInput
	}

	hashed, err := u.hash([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, u.internal("register: hash password", err)
	}

	created, err := u.users.Create(ctx, user.User{
		Email:                 email,
		Username:              username,
		PasswordHash:          string(hashed),
		NotifyOwnStatusChange: true,
		NotifyNewApplicant:    true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) || errors.Is(err, repository.ErrUsernameTaken) {
			return user.User{}, err
		}
		return user.User{}, u.internal("register: create user", err)
	}

	u.sendActionLink(created, jwt.ActionVerifyEmail, "", "Verify your email address", "/verify-email")
	return created, nil
}

func (u *Auth) Login(ctx context.Context, email, password string) (user.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return user.User{}, TokenPair{}, u.internal("login: load user", err)
	}
	if err := u.compare([]byte(account.PasswordHash), []byte(password)); err != nil {
		return user.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if !account.IsVerified {
		return user.User{}, TokenPair{}, ErrNotVerified
	}

	pair, err := u.issueTokens(account)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return account, pair, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := u.tokens.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}
	if !u.tokens.IsRefreshToken(claims) {
		return TokenPair{}, ErrUnauthorized
	}

	account, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, u.internal("refresh: load user", err)
	}
	return u.issueTokens(account)
}

func (u *Auth) VerifyEmail(ctx context.Context, token string) error {
	claims, err := u.tokens.RedeemActionToken(token, jwt.ActionVerifyEmail)
	if err != nil {
		return ErrInvalidInput
	}
	if err := u.users.MarkVerified(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("verify email", err)
	}
	return nil
}

// RequestPasswordReset never reveals whether the address exists; an unknown
// email is logged and reported as success.
func (u *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			u.logf("password reset requested for unknown email")
			return nil
		}
		return u.internal("password reset: load user", err)
	}

	u.sendActionLink(account, jwt.ActionResetPassword, "", "Reset your password", "/reset-password")
	return nil
}

func (u *Auth) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen || len(newPassword) > maxPasswordLen {
		return ErrInvalidInput
	}
	claims, err := u.tokens.RedeemActionToken(token, jwt.ActionResetPassword)
	if err != nil {
		return ErrInvalidInput
	}

	hashed, err := u.hash([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return u.internal("reset password: hash", err)
	}
	if err := u.users.UpdatePassword(ctx, claims.UserID, string(hashed)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("reset password: update", err)
	}
	return nil
}

func (u *Auth) issueTokens(account user.User) (TokenPair, error) {
	access, err := u.tokens.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return TokenPair{}, u.internal("issue access token", err)
	}
	refresh, err := u.tokens.GenerateRefreshToken(account.ID)
	if err != nil {
		return TokenPair{}, u.internal("issue refresh token", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (u *Auth) sendActionLink(account user.User, action, payload, subject, path string) {
	if u.mailer == nil {
		return
	}
	token, err := u.tokens.GenerateActionToken(account.ID, action, payload)
	if err != nil {
		u.logf("generate %s token for %s: %v", action, account.ID, err)
		return
	}
	u.mailer.VerificationLink(context.WithoutCancel(context.Background()), account, subject, path, token)
}

func (u *Auth) internal(op string, err error) error {
	u.logf("%s: %v", op, err)
	return ErrInternal
}

func (u *Auth) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf("[Auth] "+format, args...)
	}
}
