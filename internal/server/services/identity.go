// This file implements IdentityService: administrative listing of identities
// with live profile integrity verification, audited role changes guarded by
// the root invariant, and identity deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/integrity"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
	"github.com/dmitrijs2005/secureportal/internal/server/rbac"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
)

// IdentityView is one identity shaped for the administrative listing. The
// stored integrity tag is never exposed; only the verification outcome is.
type IdentityView struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	IsRoot          bool   `json:"is_root"`
	IntegrityStatus string `json:"integrity_status"`
	CreatedAt       string `json:"created_at"`
}

// IdentityService handles administrative operations on identities.
type IdentityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tagger      *integrity.Tagger
	csrf        *CSRFService
	audit       *AuditService
	logger      logging.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, tagger *integrity.Tagger,
	csrf *CSRFService, audit *AuditService, logger logging.Logger) *IdentityService {
	return &IdentityService{db: db, repomanager: m, tagger: tagger, csrf: csrf, audit: audit, logger: logger}
}

// List returns all identities with their profile tags verified live against
// the current field values. A mismatch is surfaced as a failed status and
// audited, never repaired.
func (s *IdentityService) List(ctx context.Context, caller *Caller) ([]IdentityView, error) {
	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.ManageIdentities {
		return nil, common.ErrorForbidden
	}

	repo := s.repomanager.Identities(s.db)
	rows, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing identities: %w", err)
	}

	views := make([]IdentityView, 0, len(rows))
	for _, id := range rows {
		status := IntegrityVerified
		if !s.tagger.VerifyIdentity(id.Username, id.Email, id.Name, id.IntegrityTag) {
			status = IntegrityFailed
			s.audit.Log(ctx, caller.Identity.ID, models.EventIntegrityCheck,
				fmt.Sprintf("Identity %q failed profile verification", id.Username), caller.Meta)
		}
		views = append(views, IdentityView{
			ID:              id.ID,
			Username:        id.Username,
			Email:           id.Email,
			Name:            id.Name,
			Role:            id.Role,
			IsRoot:          id.IsRoot,
			IntegrityStatus: status,
			CreatedAt:       id.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return views, nil
}

// ChangeRole assigns a new role to the target identity. Only the root
// identity may change roles, and the root identity's own role is immutable;
// a denied attempt by an otherwise authorized caller is recorded as its own
// event kind so privilege probing stays visible in the trail.
func (s *IdentityService) ChangeRole(ctx context.Context, caller *Caller, targetID, newRole string, csrf CSRFCandidate) error {
	if err := s.csrf.Validate(caller.Session, csrf); err != nil {
		return err
	}

	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.ManageIdentities {
		return common.ErrorForbidden
	}

	if !rbac.IsValidRole(newRole) {
		return fmt.Errorf("%w: invalid role", common.ErrorValidation)
	}

	repo := s.repomanager.Identities(s.db)
	target, err := repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !rbac.CanChangeRole(caller.Identity, target) {
		s.audit.Log(ctx, caller.Identity.ID, models.EventRoleChangeDenied,
			fmt.Sprintf("Denied role change for %q to %q", target.Username, newRole), caller.Meta)
		return common.ErrorForbidden
	}

	if target.Role == newRole {
		return fmt.Errorf("%w: identity already has this role", common.ErrorValidation)
	}

	if err := repo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}

	s.audit.Log(ctx, caller.Identity.ID, models.EventRoleChange,
		fmt.Sprintf("Changed role of %q from %q to %q", target.Username, target.Role, newRole), caller.Meta)
	return nil
}

// Delete removes an identity and, through cascading, its sessions and
// records. Self-deletion and deleting the root identity are rejected.
func (s *IdentityService) Delete(ctx context.Context, caller *Caller, targetID string, csrf CSRFCandidate) error {
	if err := s.csrf.Validate(caller.Session, csrf); err != nil {
		return err
	}

	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.ManageIdentities {
		return common.ErrorForbidden
	}

	if targetID == caller.Identity.ID {
		return fmt.Errorf("%w: cannot delete own identity", common.ErrorValidation)
	}

	repo := s.repomanager.Identities(s.db)
	target, err := repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if target.IsRoot {
		return common.ErrorForbidden
	}

	if err := repo.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("error deleting identity: %w", err)
	}

	s.audit.Log(ctx, caller.Identity.ID, models.EventDeletion,
		fmt.Sprintf("Deleted identity %q", target.Username), caller.Meta)
	return nil
}
