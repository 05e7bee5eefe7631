// This file implements RecordService: submission of protected records with
// tag-then-encrypt write ordering, role-shaped read projections with live
// integrity verification, and the operator-facing integrity scan.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/fieldcrypt"
	"github.com/dmitrijs2005/secureportal/internal/server/integrity"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
	"github.com/dmitrijs2005/secureportal/internal/server/rbac"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secureportal/internal/server/validation"
)

// Integrity status values in full record views.
const (
	IntegrityVerified = "verified"
	IntegrityFailed   = "failed"
)

// Scan failure reasons as reported by AuditScan.
const (
	ReasonDecryptionFailed = "Decryption Failed"
	ReasonHMACMismatch     = "HMAC Mismatch"
)

// SubmitRecordParams carries the input for a new record.
type SubmitRecordParams struct {
	PublicField    string
	SensitiveField string
	Description    string
}

// RecordView is one record shaped for the caller's role. Fields absent from
// the caller's projection stay empty and are dropped from JSON output; they
// are stripped here, not at the rendering layer.
type RecordView struct {
	ID              string `json:"id"`
	OwnerID         string `json:"owner_id"`
	PublicField     string `json:"public_field"`
	Description     string `json:"description,omitempty"`
	SensitiveField  string `json:"sensitive_field"`
	Ciphertext      string `json:"ciphertext,omitempty"`
	IntegrityTag    string `json:"integrity_tag,omitempty"`
	IntegrityStatus string `json:"integrity_status,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ScanFinding is one compromised record in an integrity scan report.
type ScanFinding struct {
	RecordID    string `json:"record_id"`
	PublicField string `json:"public_field"`
	Reason      string `json:"reason"`
}

// ScanReport summarizes a full integrity scan.
type ScanReport struct {
	Scanned     int           `json:"scanned"`
	Compromised []ScanFinding `json:"compromised"`
}

// RecordService handles protected records end to end.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *fieldcrypt.Cipher
	tagger      *integrity.Tagger
	csrf        *CSRFService
	audit       *AuditService
	logger      logging.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, cipher *fieldcrypt.Cipher,
	tagger *integrity.Tagger, csrf *CSRFService, audit *AuditService, logger logging.Logger) *RecordService {
	return &RecordService{db: db, repomanager: m, cipher: cipher, tagger: tagger,
		csrf: csrf, audit: audit, logger: logger}
}

// Submit validates and stores a new record. The anti-forgery token is
// checked before anything else; the integrity tag is computed over the
// plaintext before encryption so the two protections stay independent.
func (s *RecordService) Submit(ctx context.Context, caller *Caller, params SubmitRecordParams, csrf CSRFCandidate) (*models.Record, error) {
	if err := s.csrf.Validate(caller.Session, csrf); err != nil {
		return nil, err
	}

	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.SubmitRecords {
		return nil, common.ErrorForbidden
	}

	// the trimmed values are what gets tagged and stored
	params.PublicField = strings.TrimSpace(params.PublicField)
	params.SensitiveField = strings.TrimSpace(params.SensitiveField)
	params.Description = strings.TrimSpace(params.Description)

	if err := validation.PublicField(params.PublicField); err != nil {
		return nil, err
	}
	if err := validation.SensitiveField(params.SensitiveField); err != nil {
		return nil, err
	}
	if err := validation.Description(params.Description); err != nil {
		return nil, err
	}

	tag := s.tagger.GenerateForRecord(params.PublicField, params.SensitiveField)
	ciphertext, err := s.cipher.Encrypt(params.SensitiveField)
	if err != nil {
		return nil, fmt.Errorf("error encrypting sensitive field: %w", err)
	}

	record := &models.Record{
		ID:                  uuid.NewString(),
		OwnerID:             caller.Identity.ID,
		PublicField:         params.PublicField,
		Description:         params.Description,
		SensitiveCiphertext: ciphertext,
		IntegrityTag:        tag,
	}

	repo := s.repomanager.Records(s.db)
	created, err := repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}

	s.audit.Log(ctx, caller.Identity.ID, models.EventSubmission,
		fmt.Sprintf("Record %q submitted", created.PublicField), caller.Meta)
	s.audit.Log(ctx, caller.Identity.ID, models.EventTransfer,
		fmt.Sprintf("Sensitive data stored for record %s", created.ID), caller.Meta)
	return created, nil
}

// List returns records shaped for the caller's role. Roles without any
// record visibility get ErrorForbidden. Roles without sensitive access see
// only their own records with the confidential field replaced by a marker.
// Roles with sensitive access see every record decrypted and verified; a
// record that fails decryption or verification is reported with a failed
// status, never silently repaired, and the failure is audited.
func (s *RecordService) List(ctx context.Context, caller *Caller) ([]RecordView, error) {
	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.ViewPlaintext && !caps.ViewSensitive {
		return nil, common.ErrorForbidden
	}

	repo := s.repomanager.Records(s.db)
	var (
		rows []*models.Record
		err  error
	)
	if caps.ViewSensitive {
		rows, err = repo.List(ctx)
	} else {
		rows, err = repo.ListByOwner(ctx, caller.Identity.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	views := make([]RecordView, 0, len(rows))
	for _, r := range rows {
		views = append(views, s.project(ctx, caller, caps, r))
	}

	s.audit.Log(ctx, caller.Identity.ID, models.EventRecordView,
		fmt.Sprintf("Viewed %d records", len(views)), caller.Meta)
	return views, nil
}

// project shapes a single record for the caller's capability set.
func (s *RecordService) project(ctx context.Context, caller *Caller, caps rbac.Capabilities, r *models.Record) RecordView {
	view := RecordView{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		PublicField: r.PublicField,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if !caps.ViewSensitive {
		view.SensitiveField = common.HiddenFieldMarker
		return view
	}

	if caps.ViewEncryptedMetadata {
		view.Ciphertext = r.SensitiveCiphertext
		view.IntegrityTag = r.IntegrityTag
	}

	plaintext, err := s.cipher.Decrypt(r.SensitiveCiphertext)
	if err != nil {
		view.IntegrityStatus = IntegrityFailed
		s.audit.Log(ctx, caller.Identity.ID, models.EventIntegrityCheck,
			fmt.Sprintf("Record %s failed decryption", r.ID), caller.Meta)
		return view
	}

	view.SensitiveField = plaintext
	if s.tagger.VerifyRecord(r.PublicField, plaintext, r.IntegrityTag) {
		view.IntegrityStatus = IntegrityVerified
	} else {
		view.IntegrityStatus = IntegrityFailed
		s.audit.Log(ctx, caller.Identity.ID, models.EventIntegrityCheck,
			fmt.Sprintf("Record %s failed integrity verification", r.ID), caller.Meta)
	}
	return view
}

// AuditScan sweeps every record and reports the ones whose ciphertext no
// longer decrypts or whose plaintext no longer matches its tag. The scan is
// read-only; a failing record keeps its stored bytes so the evidence
// survives. One bad record never aborts the sweep.
func (s *RecordService) AuditScan(ctx context.Context, caller *Caller) (*ScanReport, error) {
	caps := rbac.ForRole(caller.Identity.Role)
	if !caps.ViewSensitive || !caps.AccessAuditLog {
		return nil, common.ErrorForbidden
	}

	report, err := s.sweep(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, caller.Identity.ID, models.EventIntegrityCheck,
		fmt.Sprintf("Integrity scan: %d records, %d compromised", report.Scanned, len(report.Compromised)),
		caller.Meta)
	return report, nil
}

// Scan is the operator entry point for the integrity sweep. It runs with
// direct database access and no session, so the audited actor is empty.
func (s *RecordService) Scan(ctx context.Context) (*ScanReport, error) {
	report, err := s.sweep(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.Log(ctx, "", models.EventIntegrityCheck,
		fmt.Sprintf("Integrity scan: %d records, %d compromised", report.Scanned, len(report.Compromised)),
		RequestMeta{})
	return report, nil
}

func (s *RecordService) sweep(ctx context.Context) (*ScanReport, error) {
	repo := s.repomanager.Records(s.db)
	rows, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	report := &ScanReport{Scanned: len(rows), Compromised: []ScanFinding{}}
	for _, r := range rows {
		plaintext, err := s.cipher.Decrypt(r.SensitiveCiphertext)
		if err != nil {
			report.Compromised = append(report.Compromised, ScanFinding{
				RecordID:    r.ID,
				PublicField: r.PublicField,
				Reason:      ReasonDecryptionFailed,
			})
			continue
		}
		if !s.tagger.VerifyRecord(r.PublicField, plaintext, r.IntegrityTag) {
			report.Compromised = append(report.Compromised, ScanFinding{
				RecordID:    r.ID,
				PublicField: r.PublicField,
				Reason:      ReasonHMACMismatch,
			})
		}
	}
	return report, nil
}
