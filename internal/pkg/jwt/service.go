package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Actions an action token may authorize. Each token carries exactly one and
// redemption requires an exact match.
const (
	ActionVerifyEmail    = "verify_email"
	ActionResetPassword  = "reset_password"
	ActionChangeEmail    = "change_email"
	ActionChangeUsername = "change_username"
	ActionDeleteAccount  = "delete_account"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrWrongAction  = errors.New("token issued for a different action")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

// ActionClaims gate one sensitive confirmation link: the user, the single
// permitted action, and an optional payload (e.g. the new email address).
type ActionClaims struct {
	UserID  uuid.UUID `json:"user_id"`
	Action  string    `json:"action"`
	Payload string    `json:"payload,omitempty"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool

	GenerateActionToken(userID uuid.UUID, action, payload string) (string, error)
	RedeemActionToken(tokenString, expectedAction string) (ActionClaims, error)
}

type HMACService struct {
	accessSecret  []byte
	refreshSecret []byte
	actionSecret  []byte

	accessExpiresIn  time.Duration
	refreshExpiresIn time.Duration
	actionExpiresIn  time.Duration

	now func() time.Time
}

func NewHMACService(accessSecret, refreshSecret, actionSecret string, accessExpiresIn, refreshExpiresIn, actionExpiresIn time.Duration) *HMACService {
	return &HMACService{
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
		actionSecret:     []byte(actionSecret),
		accessExpiresIn:  accessExpiresIn,
		refreshExpiresIn: refreshExpiresIn,
		actionExpiresIn:  actionExpiresIn,
		now:              time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.generate(TokenTypeAccess, userID, email)
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.generate(TokenTypeRefresh, userID, "")
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	claims, err := s.validateWithSecret(tokenString, s.accessSecret)
	if err == nil {
		return claims, nil
	}
	accessErr := err

	claims, err = s.validateWithSecret(tokenString, s.refreshSecret)
	if err == nil {
		return claims, nil
	}

	if errors.Is(accessErr, ErrTokenExpired) || errors.Is(err, ErrTokenExpired) {
		return Claims{}, ErrTokenExpired
	}
	return Claims{}, ErrTokenInvalid
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func (s *HMACService) GenerateActionToken(userID uuid.UUID, action, payload string) (string, error) {
	if len(s.actionSecret) == 0 || s.actionExpiresIn <= 0 {
		return "", ErrTokenInvalid
	}
	if !validAction(action) {
		return "", ErrWrongAction
	}

	now := s.now().UTC()
	c := ActionClaims{
		UserID:  userID,
		Action:  action,
		Payload: payload,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.actionExpiresIn)),
			Subject:   userID.String(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.actionSecret)
}

// RedeemActionToken verifies signature and expiry, then checks the token was
// issued for exactly the expected action.
func (s *HMACService) RedeemActionToken(tokenString, expectedAction string) (ActionClaims, error) {
	p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var c ActionClaims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.actionSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return ActionClaims{}, ErrTokenExpired
		}
		return ActionClaims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return ActionClaims{}, ErrTokenInvalid
	}
	if c.UserID == uuid.Nil || !validAction(c.Action) {
		return ActionClaims{}, ErrTokenInvalid
	}
	if c.Action != expectedAction {
		return ActionClaims{}, ErrWrongAction
	}
	return c, nil
}

func (s *HMACService) generate(tokenType string, userID uuid.UUID, email string) (string, error) {
	secret, expIn, err := s.secretAndExpiry(tokenType)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	c := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expIn)),
			Subject:   userID.String(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(secret)
}

func (s *HMACService) validateWithSecret(tokenString string, secret []byte) (Claims, error) {
	p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.TokenType != TokenTypeAccess && c.TokenType != TokenTypeRefresh {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}

func (s *HMACService) secretAndExpiry(tokenType string) ([]byte, time.Duration, error) {
	switch tokenType {
	case TokenTypeAccess:
		if len(s.accessSecret) == 0 || s.accessExpiresIn <= 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.accessSecret, s.accessExpiresIn, nil
	case TokenTypeRefresh:
		if len(s.refreshSecret) == 0 || s.refreshExpiresIn <= 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.refreshSecret, s.refreshExpiresIn, nil
	default:
		return nil, 0, ErrTokenInvalid
	}
}

func validAction(action string) bool {
	switch action {
	case ActionVerifyEmail, ActionResetPassword, ActionChangeEmail, ActionChangeUsername, ActionDeleteAccount:
		return true
	}
	return false
}
