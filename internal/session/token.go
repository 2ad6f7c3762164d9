package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/viral-scripts/internal/config"
)

// TokenIssuer is the audience and issuer of every session token.
const TokenIssuer = "viral-scripts"

// minSigningKeyLength matches the validation rule on config.SessionConfig.
const minSigningKeyLength = 32

// Tokens signs and validates session tokens with HMAC-SHA256.
type Tokens struct {
	signingKey []byte
	ttl        time.Duration
	clockSkew  time.Duration
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// TokenOption configures Tokens.
type TokenOption func(*Tokens)

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) {
		t.timeFunc = now
	}
}

// NewTokens creates a token service from the session configuration.
func NewTokens(cfg config.SessionConfig, logger *slog.Logger, opts ...TokenOption) (*Tokens, error) {
	if len(cfg.SigningKey) < minSigningKeyLength {
		return nil, fmt.Errorf("session signing key must be at least %d characters", minSigningKeyLength)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("session token ttl must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tokens{
		signingKey: []byte(cfg.SigningKey),
		ttl:        cfg.TokenTTL,
		clockSkew:  time.Minute,
		timeFunc:   time.Now,
		logger:     logger.With("component", "session_tokens"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs a token for sessionID and returns it with its expiry.
func (t *Tokens) Issue(ctx context.Context, sessionID string) (string, time.Time, error) {
	now := t.timeFunc()
	expiresAt := now.Add(t.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenIssuer},
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.New().String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signingKey)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to sign session token",
			"error", err,
			"session_id", sessionID)
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate checks the token and returns the session id it was issued for.
func (t *Tokens) Validate(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return t.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(t.clockSkew),
		jwt.WithTimeFunc(t.timeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			t.logger.DebugContext(ctx, "session token expired")
			return "", ErrExpiredToken
		}
		t.logger.DebugContext(ctx, "session token rejected",
			"error_type", fmt.Sprintf("%T", err))
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Authorize validates the token and checks that it belongs to sessionID.
func (t *Tokens) Authorize(ctx context.Context, tokenString, sessionID string) error {
	subject, err := t.Validate(ctx, tokenString)
	if err != nil {
		return err
	}
	if subject != sessionID {
		return ErrWrongSession
	}
	return nil
}
