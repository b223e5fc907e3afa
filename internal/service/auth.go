package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/events"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/hash"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/logging"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/models"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/repo"
	"github.com/dhnshshettigar/sweet-shop-backend/internal/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Events    events.Publisher
}

// Register hashes the password and persists a new user with role
// "user". The stored hash never leaves the service: the User model
// excludes it from serialization.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: pwHash,
		Role:     "user",
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_conflict", "email", email)
		} else {
			l.Error("register_failed", "error", err)
		}
		return nil, err
	}

	s.publish(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues an HS256 access token with
// a one hour expiry carrying {id, email, role}.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "reason", "unknown email")
		} else {
			l.Error("login_failed", "error", err)
		}
		return "", err
	}

	if !hash.CheckPassword(user.Password, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return "", repo.ErrInvalidCredentials
	}

	token, err := tokens.SignAccessToken(user.ID, user.Email, user.Role, s.JWTSecret, time.Now())
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return "", err
	}

	s.publish(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("login_success", "user_id", user.ID)
	return token, nil
}

// publish is best effort: a broker outage must not fail the request.
func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}
