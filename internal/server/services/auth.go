// Package services contains server-side business logic. This file implements
// AuthService, which verifies admin credentials and issues and validates
// stateless session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// Token is a signed session token and the moment it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// AuthService provides authentication-related operations:
// - Authenticate: verify email and password
// - IssueSession / ValidateSession: mint and check session tokens
type AuthService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	logger          logging.Logger
	secretKey       []byte
	sessionValidity time.Duration
	dbTimeout       time.Duration
	now             func() time.Time

	hashCost  int
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:              db,
		repomanager:     m,
		logger:          logger,
		secretKey:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		dbTimeout:       cfg.DatabaseTimeout,
		now:             time.Now,
		hashCost:        auth.DefaultPasswordCost,
	}
}

// Authenticate checks email and password against the stored bcrypt hash.
// An unknown email and a wrong password both yield
// common.ErrInvalidCredentials; only the log tells them apart.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	email = NormalizeEmail(email)

	ctx, cancel := withTimeout(ctx, s.dbTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same bcrypt time as a real comparison
			auth.CheckPassword(s.dummy(), password)
			s.logger.Info(ctx, "login rejected", "reason", "unknown email")
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info(ctx, "login rejected", "reason", "wrong password", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	return &auth.Identity{UserID: user.ID, Role: user.Role}, nil
}

// IssueSession signs a token for identity valid for the configured session
// lifetime.
func (s *AuthService) IssueSession(identity *auth.Identity) (*Token, error) {
	value, expiresAt, err := auth.GenerateToken(*identity, s.secretKey, s.now(), s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %v", common.ErrorInternal, err)
	}
	return &Token{Value: value, ExpiresAt: expiresAt}, nil
}

// Login authenticates and, on success, issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueSession(identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "admin signed in", "user_id", identity.UserID)
	return token, nil
}

// ValidateSession returns the identity carried by token. Any failure is
// reported as common.ErrorUnauthorized wrapping the precise cause.
func (s *AuthService) ValidateSession(token string) (*auth.Identity, error) {
	identity, err := auth.ParseToken(token, s.secretKey, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return identity, nil
}

// --- helpers below ---

// fallbackDummyHash is a well-formed cost-12 bcrypt hash that matches no
// password. Comparing against it costs as much as a real check.
const fallbackDummyHash = "$2a$12$StorefrontDummySalt0OeQ9mZ3cXk2yVb8pLr5tWn1dGf7hJs4uC"

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword("storefront-dummy-password", s.hashCost)
		if err != nil {
			s.logger.Warn(context.Background(), "dummy hash generation failed, using fallback", "error", err)
			h = fallbackDummyHash
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// NormalizeEmail is applied both when seeding and when signing in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
