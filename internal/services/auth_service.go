package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/loginwatch/internal/auth"
	"github.com/BradenHooton/loginwatch/internal/metrics"
	"github.com/BradenHooton/loginwatch/internal/models"
	pkgauth "github.com/BradenHooton/loginwatch/pkg/auth"
	pkglogger "github.com/BradenHooton/loginwatch/pkg/logger"
)

// SessionRevocationRepository defines the interface for session revocation
type SessionRevocationRepository interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time, reason string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginHook runs after credentials are verified and before the session is returned
type LoginHook interface {
	AfterAuthentication(ctx context.Context, account *models.Account, reqCtx RequestContext) error
}

// Session is an issued session token with its owner
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *models.Account
}

// AuthService verifies credentials and manages sessions
type AuthService struct {
	repo         AccountRepository
	revokeRepo   SessionRevocationRepository
	sessions     *auth.SessionManager
	hook         LoginHook
	failureDelay *auth.FailureDelay
	metrics      *metrics.Metrics
	logger       *slog.Logger
	auditLogger  *pkglogger.AuditLogger
}

func NewAuthService(
	repo AccountRepository,
	sessions *auth.SessionManager,
	revokeRepo SessionRevocationRepository,
	hook LoginHook,
	failureDelay *auth.FailureDelay,
	m *metrics.Metrics,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:         repo,
		revokeRepo:   revokeRepo,
		sessions:     sessions,
		hook:         hook,
		failureDelay: failureDelay,
		metrics:      m,
		logger:       logger,
		auditLogger:  auditLogger,
	}
}

// Login verifies credentials, runs the post-authentication hook and issues a session
func (s *AuthService) Login(ctx context.Context, email, password string, reqCtx RequestContext) (*Session, error) {
	start := time.Now()

	fail := func(userID, reason string, err error) (*Session, error) {
		s.metrics.LoginAttempt(reason)
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        userID,
			SourceAddress: reqCtx.ForwardedFor,
			UserAgent:     reqCtx.UserAgent,
			FailureReason: reason,
		})
		s.failureDelay.WaitFrom(start)
		return nil, err
	}

	if email = strings.ToLower(strings.TrimSpace(email)); email == "" {
		return fail("", "invalid_credentials", models.ErrUnauthorized)
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkgauth.CompareDummy(password)
			s.logger.Info("login failed: invalid credentials", slog.String("email", pkglogger.SanitizedEmail(email)))
			return fail("", "invalid_credentials", models.ErrUnauthorized)
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials", slog.String("user_id", account.ID))
		return fail(account.ID, "invalid_credentials", models.ErrUnauthorized)
	}

	if !account.Verified {
		s.logger.Info("login blocked: email not verified", slog.String("user_id", account.ID))
		return fail(account.ID, "email_not_verified", models.ErrEmailNotVerified)
	}

	if s.hook != nil {
		if err := s.hook.AfterAuthentication(ctx, account, reqCtx); err != nil {
			s.logger.Error("post-authentication hook failed", slog.String("user_id", account.ID), slog.Any("error", err))
			return nil, models.ErrStoreFailure
		}
	}

	token, claims, err := s.sessions.Issue(account.ID, account.Email)
	if err != nil {
		s.logger.Error("failed to issue session", slog.String("user_id", account.ID), slog.Any("error", err))
		return nil, err
	}

	s.metrics.LoginAttempt("success")
	s.logger.Info("user logged in", slog.String("user_id", account.ID))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType:     "login_success",
		UserID:        account.ID,
		SourceAddress: reqCtx.ForwardedFor,
		UserAgent:     reqCtx.UserAgent,
		Success:       true,
	})

	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Account:   account,
	}, nil
}

// Logout revokes the session so it is rejected until it would have expired
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return models.ErrUnauthorized
	}

	if err := s.revokeRepo.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time, "logout"); err != nil {
		s.logger.Error("failed to revoke session", slog.String("jti", claims.ID), slog.Any("error", err))
		return models.ErrStoreFailure
	}

	s.logger.Info("user logged out", slog.String("user_id", claims.UserID))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: "logout",
		UserID:    claims.UserID,
		Success:   true,
	})
	return nil
}

// Resolve validates a session token and loads the current account state, so
// role changes and deletions take effect on the next request
func (s *AuthService) Resolve(ctx context.Context, token string) (*auth.AuthContext, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	revoked, err := s.revokeRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("failed to check session revocation", slog.String("jti", claims.ID), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}
	if revoked {
		return nil, models.ErrUnauthorized
	}

	account, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to load session account", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrStoreFailure
	}

	return &auth.AuthContext{
		Account:   account,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
