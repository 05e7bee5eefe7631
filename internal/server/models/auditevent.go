package models

import "time"

// EventKind enumerates the security-relevant event types the core emits.
type EventKind string

const (
	EventLogin            EventKind = "LOGIN"
	EventSubmission       EventKind = "SUBMISSION"
	EventRecordView       EventKind = "RECORD_VIEW"
	EventTransfer         EventKind = "DATA_TRANSFER"
	EventIntegrityCheck   EventKind = "INTEGRITY_CHECK"
	EventRoleChange       EventKind = "ROLE_CHANGE"
	EventRoleChangeDenied EventKind = "ROLE_CHANGE_DENIED"
	EventDeletion         EventKind = "DELETION"
	EventRegistration     EventKind = "REGISTRATION"
	EventAuditAccess      EventKind = "AUDIT_ACCESS"
)

// AuditEvent is one security-relevant occurrence, persisted append-only.
type AuditEvent struct {
	ID          string
	ActorID     string
	Kind        EventKind
	Description string
	SourceAddr  string
	UserAgent   string
	CreatedAt   time.Time
}
