// This file implements AuthService, which handles registration, credential
// verification, and the session lifecycle built on two independent
// server-stored secrets.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/dbx"
	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/config"
	"github.com/dmitrijs2005/secureportal/internal/server/integrity"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
	"github.com/dmitrijs2005/secureportal/internal/server/rbac"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secureportal/internal/server/validation"
)

// ActionLogin is the rate-limited action name for login attempts.
const ActionLogin = "login"

// dummyPasswordHash is compared against when the username does not exist, so
// that absent and present usernames take the same bcrypt time.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// sessionSecretBytes is the entropy of each of the two session secrets.
const sessionSecretBytes = 32

// RegisterParams carries the input for a new identity.
type RegisterParams struct {
	Username string
	Password string
	Email    string
	Name     string
}

// normalize trims the profile fields so the validated value is the one that
// gets hashed into the integrity tag and persisted. The password is taken
// verbatim.
func (p RegisterParams) normalize() RegisterParams {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	p.Name = strings.TrimSpace(p.Name)
	return p
}

// AuthService provides authentication operations:
// - Register: create identities with a create-time integrity tag
// - Login: rate-limited credential verification and session issuance
// - VerifySession / RotateSession / Logout: session lifecycle
type AuthService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	tagger           *integrity.Tagger
	audit            *AuditService
	limiter          *RateLimitService
	logger           logging.Logger
	sessionLifetime  time.Duration
	loginMaxAttempts int
	loginWindow      time.Duration
	now              func() time.Time
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	tagger *integrity.Tagger, audit *AuditService, limiter *RateLimitService, logger logging.Logger) *AuthService {
	return &AuthService{
		db:               db,
		repomanager:      m,
		tagger:           tagger,
		audit:            audit,
		limiter:          limiter,
		logger:           logger,
		sessionLifetime:  cfg.SessionLifetime,
		loginMaxAttempts: cfg.LoginMaxAttempts,
		loginWindow:      cfg.LoginWindow,
		now:              time.Now,
	}
}

// Register creates a new identity. All new identities start as guest; role
// elevation is a separate, audited administrative action. The profile
// integrity tag is computed once here and never recomputed.
func (s *AuthService) Register(ctx context.Context, params RegisterParams, meta RequestMeta) (*models.Identity, error) {
	params = params.normalize()
	if err := validation.Username(params.Username); err != nil {
		return nil, err
	}
	if err := validation.Password(params.Password); err != nil {
		return nil, err
	}
	if err := validation.Email(params.Email); err != nil {
		return nil, err
	}
	if err := validation.Name(params.Name); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	identity := &models.Identity{
		ID:           uuid.NewString(),
		Username:     params.Username,
		PasswordHash: string(hash),
		Email:        params.Email,
		Name:         params.Name,
		Role:         rbac.DefaultRole(),
		IntegrityTag: s.tagger.GenerateForIdentity(params.Username, params.Email, params.Name),
	}

	repo := s.repomanager.Identities(s.db)
	created, err := repo.Create(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("error creating identity: %w", err)
	}

	s.audit.Log(ctx, created.ID, models.EventRegistration,
		fmt.Sprintf("Identity %q registered", created.Username), meta)
	return created, nil
}

// ProvisionRoot creates the distinguished root identity with the admin role.
// It is intended for one-time provisioning; the partial unique index on
// identities guarantees at most one root exists.
func (s *AuthService) ProvisionRoot(ctx context.Context, params RegisterParams) (*models.Identity, error) {
	params = params.normalize()
	if err := validation.Username(params.Username); err != nil {
		return nil, err
	}
	if err := validation.Password(params.Password); err != nil {
		return nil, err
	}
	if err := validation.Email(params.Email); err != nil {
		return nil, err
	}
	if err := validation.Name(params.Name); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	identity := &models.Identity{
		ID:           uuid.NewString(),
		Username:     params.Username,
		PasswordHash: string(hash),
		Email:        params.Email,
		Name:         params.Name,
		Role:         rbac.RoleAdmin,
		IsRoot:       true,
		IntegrityTag: s.tagger.GenerateForIdentity(params.Username, params.Email, params.Name),
	}

	repo := s.repomanager.Identities(s.db)
	created, err := repo.Create(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("error creating root identity: %w", err)
	}
	return created, nil
}

// VerifyCredentials checks the password against the stored bcrypt hash.
// The failure mode is uniform: a missing username costs the same bcrypt
// comparison as a wrong password, and both yield ErrorUnauthorized.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*models.Identity, error) {
	repo := s.repomanager.Identities(s.db)
	identity, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !rbac.IsValidRole(identity.Role) {
		identity.Role = rbac.DefaultRole()
	}
	return identity, nil
}

// Login performs the full authentication flow: rate limit, input validation,
// credential verification, and session issuance. A successful login resets
// the source's counter and always yields a brand-new session.
func (s *AuthService) Login(ctx context.Context, username, password string, meta RequestMeta) (*models.Session, *models.Identity, error) {
	status := s.limiter.CheckLimit(ctx, meta.SourceAddr, ActionLogin, s.loginMaxAttempts, s.loginWindow)
	if !status.Allowed {
		return nil, nil, common.ErrRateLimitExceeded
	}

	username = strings.TrimSpace(username)
	if err := validation.Username(username); err != nil {
		return nil, nil, err
	}
	if err := validation.Password(password); err != nil {
		return nil, nil, err
	}

	identity, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	s.limiter.ResetLimit(ctx, meta.SourceAddr, ActionLogin)

	session, err := s.CreateSession(ctx, identity.ID)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Log(ctx, identity.ID, models.EventLogin,
		fmt.Sprintf("Identity %q logged in", identity.Username), meta)
	return session, identity, nil
}

// CreateSession issues a session with two fresh 256-bit secrets.
func (s *AuthService) CreateSession(ctx context.Context, ownerID string) (*models.Session, error) {
	sessionID, err := common.MakeRandHexString(sessionSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating session id: %w", err)
	}
	token, err := common.MakeRandHexString(sessionSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Token:     token,
		OwnerID:   ownerID,
		ExpiresAt: s.now().Add(s.sessionLifetime),
	}

	repo := s.repomanager.Sessions(s.db)
	created, err := repo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	return created, nil
}

// VerifySession resolves both session secrets to a live session and its
// identity. An expired session is deleted and yields ErrSessionExpired; a
// missing one yields ErrorUnauthorized. Callers surface both generically.
func (s *AuthService) VerifySession(ctx context.Context, sessionID, token string) (*models.Session, *models.Identity, error) {
	repo := s.repomanager.Sessions(s.db)
	session, err := repo.Find(ctx, sessionID, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if session.Expired(s.now()) {
		if err := repo.Delete(ctx, session.ID); err != nil {
			s.logger.Warn(ctx, "expired session cleanup failed", "error", err)
		}
		return nil, nil, common.ErrSessionExpired
	}

	identity, err := s.repomanager.Identities(s.db).GetByID(ctx, session.OwnerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !rbac.IsValidRole(identity.Role) {
		identity.Role = rbac.DefaultRole()
	}
	return session, identity, nil
}

// RotateSession replaces a session with a fresh one for the same owner in a
// single transaction, invalidating both old secrets at once.
func (s *AuthService) RotateSession(ctx context.Context, session *models.Session) (*models.Session, error) {
	var rotated *models.Session
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Sessions(tx)
		if err := repoTx.Delete(ctx, session.ID); err != nil {
			return fmt.Errorf("error deleting session: %w", err)
		}

		sessionID, err := common.MakeRandHexString(sessionSecretBytes)
		if err != nil {
			return fmt.Errorf("error generating session id: %w", err)
		}
		token, err := common.MakeRandHexString(sessionSecretBytes)
		if err != nil {
			return fmt.Errorf("error generating session token: %w", err)
		}

		rotated, err = repoTx.Create(ctx, &models.Session{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Token:     token,
			OwnerID:   session.OwnerID,
			ExpiresAt: s.now().Add(s.sessionLifetime),
		})
		if err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return rotated, nil
}

// Logout deletes the session so that both secrets stop working immediately.
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	repo := s.repomanager.Sessions(s.db)
	if err := repo.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}
