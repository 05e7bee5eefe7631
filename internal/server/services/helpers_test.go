package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/dbx"
	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/fieldcrypt"
	"github.com/dmitrijs2005/secureportal/internal/server/integrity"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
	auditlogrepo "github.com/dmitrijs2005/secureportal/internal/server/repositories/auditlog"
	identitiesrepo "github.com/dmitrijs2005/secureportal/internal/server/repositories/identities"
	ratelimitsrepo "github.com/dmitrijs2005/secureportal/internal/server/repositories/ratelimits"
	recordsrepo "github.com/dmitrijs2005/secureportal/internal/server/repositories/records"
	sessionsrepo "github.com/dmitrijs2005/secureportal/internal/server/repositories/sessions"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

func testTagger(t *testing.T) *integrity.Tagger {
	t.Helper()
	secret, err := hex.DecodeString("1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100")
	if err != nil {
		t.Fatalf("decode secret: %v", err)
	}
	return integrity.NewTagger(secret)
}

func testCipher(t *testing.T) *fieldcrypt.Cipher {
	t.Helper()
	key, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	if err != nil {
		t.Fatalf("decode key: %v", err)
	}
	c, err := fieldcrypt.NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	return c
}

// --- fake repositories ---

type fakeIdentitiesRepo struct {
	createOut *models.Identity
	createErr error

	byUsername map[string]*models.Identity
	byID       map[string]*models.Identity
	getErr     error

	listOut []*models.Identity
	listErr error

	updatedRoles map[string]string
	updateErr    error

	deletedIDs []string
	deleteErr  error
}

func (f *fakeIdentitiesRepo) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return identity, nil
}

func (f *fakeIdentitiesRepo) GetByUsername(ctx context.Context, username string) (*models.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if id, ok := f.byUsername[username]; ok {
		return id, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeIdentitiesRepo) GetByID(ctx context.Context, id string) (*models.Identity, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if identity, ok := f.byID[id]; ok {
		return identity, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeIdentitiesRepo) List(ctx context.Context) ([]*models.Identity, error) {
	return f.listOut, f.listErr
}

func (f *fakeIdentitiesRepo) UpdateRole(ctx context.Context, id string, role string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updatedRoles == nil {
		f.updatedRoles = map[string]string{}
	}
	f.updatedRoles[id] = role
	return nil
}

func (f *fakeIdentitiesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeSessionsRepo struct {
	created   []*models.Session
	createErr error

	findOut *models.Session
	findErr error

	csrfTokens map[string]string
	updateErr  error

	deletedIDs []string
	deleteErr  error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, session)
	return session, nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, sessionID, token string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.findOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.findOut, nil
}

func (f *fakeSessionsRepo) UpdateCSRFToken(ctx context.Context, id, csrfToken string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.csrfTokens == nil {
		f.csrfTokens = map[string]string{}
	}
	f.csrfTokens[id] = csrfToken
	return nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeRecordsRepo struct {
	created   []*models.Record
	createErr error

	listOut []*models.Record
	listErr error

	byOwner map[string][]*models.Record
}

func (f *fakeRecordsRepo) Create(ctx context.Context, record *models.Record) (*models.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, record)
	return record, nil
}

func (f *fakeRecordsRepo) List(ctx context.Context) ([]*models.Record, error) {
	return f.listOut, f.listErr
}

func (f *fakeRecordsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byOwner[ownerID], nil
}

type fakeRateLimitsRepo struct {
	counter      *models.RateLimitCounter
	incrementErr error

	deleted   [][2]string
	deleteErr error
}

func (f *fakeRateLimitsRepo) Increment(ctx context.Context, sourceKey, action string, now, cutoff time.Time) (*models.RateLimitCounter, error) {
	if f.incrementErr != nil {
		return nil, f.incrementErr
	}
	return f.counter, nil
}

func (f *fakeRateLimitsRepo) Delete(ctx context.Context, sourceKey, action string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, [2]string{sourceKey, action})
	return nil
}

type fakeAuditLogRepo struct {
	events    []*models.AuditEvent
	createErr error

	listOut   []*models.AuditEvent
	listTotal int
	listErr   error
}

func (f *fakeAuditLogRepo) Create(ctx context.Context, event *models.AuditEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeAuditLogRepo) List(ctx context.Context, filter auditlogrepo.Filter, limit, offset int) ([]*models.AuditEvent, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listOut, f.listTotal, nil
}

// kinds returns the recorded event kinds in order.
func (f *fakeAuditLogRepo) kinds() []models.EventKind {
	out := make([]models.EventKind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

type fakeRepoManager struct {
	identities *fakeIdentitiesRepo
	sessions   *fakeSessionsRepo
	records    *fakeRecordsRepo
	ratelimits *fakeRateLimitsRepo
	auditlog   *fakeAuditLogRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		identities: &fakeIdentitiesRepo{},
		sessions:   &fakeSessionsRepo{},
		records:    &fakeRecordsRepo{},
		ratelimits: &fakeRateLimitsRepo{},
		auditlog:   &fakeAuditLogRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Identities(db dbx.DBTX) identitiesrepo.Repository { return m.identities }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository     { return m.sessions }
func (m *fakeRepoManager) Records(db dbx.DBTX) recordsrepo.Repository       { return m.records }
func (m *fakeRepoManager) RateLimits(db dbx.DBTX) ratelimitsrepo.Repository { return m.ratelimits }
func (m *fakeRepoManager) AuditLog(db dbx.DBTX) auditlogrepo.Repository     { return m.auditlog }
