// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secureportal/internal/dbx"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/auditlog"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/identities"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/ratelimits"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/records"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/sessions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Records(db dbx.DBTX) records.Repository
	RateLimits(db dbx.DBTX) ratelimits.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
}
