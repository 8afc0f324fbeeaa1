package usecase

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type PreferencesInput struct {
	NotifyOwnStatusChange bool
	NotifyNewApplicant    bool
}

type UserUsecase interface {
	Profile(ctx context.Context, userID uuid.UUID) (user.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	UpdatePreferences(ctx context.Context, userID uuid.UUID, in PreferencesInput) (user.User, error)

	RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error
	ConfirmEmailChange(ctx context.Context, token string) error
	RequestUsernameChange(ctx context.Context, userID uuid.UUID, newUsername string) error
	ConfirmUsernameChange(ctx context.Context, token string) error
	RequestAccountDeletion(ctx context.Context, userID uuid.UUID) error
	ConfirmAccountDeletion(ctx context.Context, token string) error
}

// Account covers the signed-in user's settings. Identity changes (email,
// username) and deletion are two-step: a request mails a single-action
// confirmation link, and only redeeming it applies the change.
type Account struct {
	users  repository.UserRepository
	tokens jwt.Service
	mailer AccountMailer
	logger *log.Logger

	hash    func(password []byte, cost int) ([]byte, error)
	compare func(hash, password []byte) error
}

func NewUserUsecase(users repository.UserRepository, tokens jwt.Service, mailer AccountMailer, logger *log.Logger) *Account {
	return &Account{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		logger:  logger,
		hash:    bcrypt.GenerateFromPassword,
		compare: bcrypt.CompareHashAndPassword,
	}
}

func (u *Account) Profile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	if userID == uuid.Nil {
		return user.User{}, ErrUnauthorized
	}
	account, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, u.internal("profile", err)
	}
	return account, nil
}

// ChangePassword requires the current password; it is the one settings
// change applied immediately, without a confirmation link.
func (u *Account) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if len(next) < minPasswordLen || len(next) > maxPasswordLen {
		return ErrInvalidInput
	}

	account, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("change password: load user", err)
	}
	if err := u.compare([]byte(account.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := u.hash([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return u.internal("change password: hash", err)
	}
	if err := u.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return u.internal("change password: update", err)
	}
	return nil
}

func (u *Account) UpdatePreferences(ctx context.Context, userID uuid.UUID, in PreferencesInput) (user.User, error) {
	if userID == uuid.Nil {
		return user.User{}, ErrUnauthorized
	}
	if err := u.users.UpdatePreferences(ctx, userID, in.NotifyOwnStatusChange, in.NotifyNewApplicant); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, u.internal("update preferences", err)
	}
	account, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return user.User{}, u.internal("update preferences: reload", err)
	}
	return account, nil
}

// RequestEmailChange checks availability up front, then carries the new
// address inside the token payload so the confirmation applies exactly what
// was requested.
func (u *Account) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if _, err := mail.ParseAddress(newEmail); err != nil {
		return ErrInvalidInput
	}

	if _, err := u.users.FindByEmail(ctx, newEmail); err == nil {
		return repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return u.internal("email change: availability check", err)
	}

	account, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("email change: load user", err)
	}

	u.sendActionLink(account, jwt.ActionChangeEmail, newEmail, "Confirm your new email address", "/confirm-email-change")
	return nil
}

func (u *Account) ConfirmEmailChange(ctx context.Context, token string) error {
	claims, err := u.tokens.RedeemActionToken(token, jwt.ActionChangeEmail)
	if err != nil {
		return ErrInvalidInput
	}
	if claims.Payload == "" {
		return ErrInvalidInput
	}
	if err := u.users.UpdateEmail(ctx, claims.UserID, claims.Payload); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrEmailTaken):
			// The address was free at request time; someone claimed it
			// before the link was clicked.
			return repository.ErrEmailTaken
		}
		return u.internal("confirm email change", err)
	}
	return nil
}

func (u *Account) RequestUsernameChange(ctx context.Context, userID uuid.UUID, newUsername string) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	newUsername = strings.TrimSpace(newUsername)
	if len(newUsername) < minUsernameLen || len(newUsername) > maxUsernameLen || !usernameRe.MatchString(newUsername) {
		return ErrInvalidInput
	}

	if _, err := u.users.FindByUsername(ctx, newUsername); err == nil {
		return repository.ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return u.internal("username change: availability check", err)
	}

	account, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("username change: load user", err)
	}

	u.sendActionLink(account, jwt.ActionChangeUsername, newUsername, "Confirm your new username", "/confirm-username-change")
	return nil
}

func (u *Account) ConfirmUsernameChange(ctx context.Context, token string) error {
	claims, err := u.tokens.RedeemActionToken(token, jwt.ActionChangeUsername)
	if err != nil {
		return ErrInvalidInput
	}
	if claims.Payload == "" {
		return ErrInvalidInput
	}
	if err := u.users.UpdateUsername(ctx, claims.UserID, claims.Payload); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return ErrNotFound
		case errors.Is(err, repository.ErrUsernameTaken):
			return repository.ErrUsernameTaken
		}
		return u.internal("confirm username change", err)
	}
	return nil
}

func (u *Account) RequestAccountDeletion(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	account, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("account deletion: load user", err)
	}

	u.sendActionLink(account, jwt.ActionDeleteAccount, "", "Confirm account deletion", "/confirm-account-deletion")
	return nil
}

func (u *Account) ConfirmAccountDeletion(ctx context.Context, token string) error {
	claims, err := u.tokens.RedeemActionToken(token, jwt.ActionDeleteAccount)
	if err != nil {
		return ErrInvalidInput
	}
	if err := u.users.Delete(ctx, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return u.internal("confirm account deletion", err)
	}
	return nil
}

func (u *Account) sendActionLink(account user.User, action, payload, subject, path string) {
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

func (u *Account) internal(op string, err error) error {
	u.logf("%s: %v", op, err)
	return ErrInternal
}

func (u *Account) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf("[Account] "+format, args...)
	}
}
