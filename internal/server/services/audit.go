package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
	"github.com/dmitrijs2005/secureportal/internal/server/rbac"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/auditlog"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
)

// AuditService records security-relevant events and serves the audit trail
// to identities allowed to read it.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

// NewAuditService constructs an AuditService.
func NewAuditService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *AuditService {
	return &AuditService{db: db, repomanager: m, logger: logger, now: time.Now}
}

// Log appends one event to the audit trail. Logging is best effort: a
// storage failure is reported to the process log and swallowed so that the
// operation being audited never fails because of it.
func (s *AuditService) Log(ctx context.Context, actorID string, kind models.EventKind, description string, meta RequestMeta) {
	event := &models.AuditEvent{
		ID:          uuid.NewString(),
		ActorID:     actorID,
		Kind:        kind,
		Description: description,
		SourceAddr:  meta.SourceAddr,
		UserAgent:   meta.UserAgent,
		CreatedAt:   s.now(),
	}
	repo := s.repomanager.AuditLog(s.db)
	if err := repo.Create(ctx, event); err != nil {
		s.logger.Warn(ctx, "audit event not recorded", "kind", kind, "error", err)
	}
}

// List returns a page of audit events for callers whose role grants audit
// access, newest first, together with the total count for the filter.
// Reading the trail is itself an audited action.
func (s *AuditService) List(ctx context.Context, caller *Caller, filter auditlog.Filter, limit, offset int) ([]*models.AuditEvent, int, error) {
	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.AccessAuditLog {
		return nil, 0, common.ErrorForbidden
	}

	repo := s.repomanager.AuditLog(s.db)
	events, total, err := repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing audit events: %w", err)
	}

	s.Log(ctx, caller.Identity.ID, models.EventAuditAccess, "Viewed audit log", caller.Meta)
	return events, total, nil
}
