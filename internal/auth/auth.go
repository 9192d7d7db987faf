// Package auth implements the local-account stand-in: signup and signin
// accept any well-formed credentials, issue HS256 session tokens, and
// store user records in the keyval store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"subtrack/internal/core"
	"subtrack/internal/keyval"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// Service issues and validates session tokens and manages user records.
type Service struct {
	store    keyval.Store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(store keyval.Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func userKey(email string) string {
	return "auth/users/" + strings.ToLower(strings.TrimSpace(email))
}

func userByIDKey(id string) string {
	return "auth/ids/" + id
}

// SignUp creates an account. Any non-empty email and password are accepted;
// no password verification happens beyond presence, so the record stores no
// password material.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(password) == "" {
		return core.User{}, "", ErrInvalidCredentials
	}

	if _, err := s.store.Get(ctx, userKey(email)); err == nil {
		return core.User{}, "", ErrUserExists
	} else if !errors.Is(err, keyval.ErrNotFound) {
		return core.User{}, "", fmt.Errorf("check existing user: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = email[:strings.Index(email, "@")]
	}
	user := core.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}
	if err := s.saveUser(ctx, user); err != nil {
		return core.User{}, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return core.User{}, "", err
	}

	slog.InfoContext(ctx, "User signed up", "user_id", user.ID, "email", email)
	return user, token, nil
}

// SignIn authenticates a user. Unknown emails get an account created on the
// fly, matching the accept-anything stand-in behavior.
func (s *Service) SignIn(ctx context.Context, email, password string) (core.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(password) == "" {
		return core.User{}, "", ErrInvalidCredentials
	}

	user, err := s.userByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		user = core.User{
			ID:    uuid.NewString(),
			Email: email,
			Name:  email[:strings.Index(email, "@")],
		}
		if err := s.saveUser(ctx, user); err != nil {
			return core.User{}, "", err
		}
		slog.InfoContext(ctx, "User created on first sign-in", "user_id", user.ID, "email", email)
	} else if err != nil {
		return core.User{}, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return core.User{}, "", err
	}

	slog.InfoContext(ctx, "User signed in", "user_id", user.ID)
	return user, token, nil
}

// SignOut is a no-op server side: tokens are stateless and simply expire.
// It exists so the handler surface mirrors the client contract.
func (s *Service) SignOut(ctx context.Context, userID string) error {
	slog.InfoContext(ctx, "User signed out", "user_id", userID)
	return nil
}

// CurrentUser resolves a session token to its user record.
func (s *Service) CurrentUser(ctx context.Context, token string) (core.User, error) {
	userID, err := s.VerifyToken(token)
	if err != nil {
		return core.User{}, err
	}
	return s.UserByID(ctx, userID)
}

func (s *Service) UserByID(ctx context.Context, id string) (core.User, error) {
	raw, err := s.store.Get(ctx, userByIDKey(id))
	if errors.Is(err, keyval.ErrNotFound) {
		return core.User{}, ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	var user core.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return core.User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (core.User, error) {
	raw, err := s.store.Get(ctx, userKey(email))
	if errors.Is(err, keyval.ErrNotFound) {
		return core.User{}, ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	var user core.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return core.User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

func (s *Service) saveUser(ctx context.Context, user core.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, userKey(user.Email), raw); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := s.store.Set(ctx, userByIDKey(user.ID), raw); err != nil {
		return fmt.Errorf("save user id index: %w", err)
	}
	return nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := s.now()
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks the token signature and expiry and returns the user id.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
