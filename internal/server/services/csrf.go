package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/secureportal/internal/common"
	"github.com/dmitrijs2005/secureportal/internal/server/models"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
)

// csrfTokenBytes is the entropy of the anti-forgery token.
const csrfTokenBytes = 32

// CSRFService manages per-session anti-forgery tokens. A token is minted
// lazily on first use and lives as long as the session. Every state-changing
// operation validates the submitted token before any other check runs.
type CSRFService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCSRFService constructs a CSRFService.
func NewCSRFService(db *sql.DB, m repomanager.RepositoryManager) *CSRFService {
	return &CSRFService{db: db, repomanager: m}
}

// Token returns the session's anti-forgery token, minting and persisting
// one if the session does not have one yet.
func (s *CSRFService) Token(ctx context.Context, session *models.Session) (string, error) {
	if session.CSRFToken != "" {
		return session.CSRFToken, nil
	}

	token, err := common.MakeRandHexString(csrfTokenBytes)
	if err != nil {
		return "", fmt.Errorf("error generating csrf token: %w", err)
	}

	repo := s.repomanager.Sessions(s.db)
	if err := repo.UpdateCSRFToken(ctx, session.ID, token); err != nil {
		return "", fmt.Errorf("error storing csrf token: %w", err)
	}
	session.CSRFToken = token
	return token, nil
}

// Validate compares the submitted token with the session's token in constant
// time. A session without a minted token rejects every candidate.
func (s *CSRFService) Validate(session *models.Session, candidate CSRFCandidate) error {
	value := candidate.Value()
	if value == "" || session.CSRFToken == "" {
		return common.ErrCSRFTokenInvalid
	}
	if subtle.ConstantTimeCompare([]byte(session.CSRFToken), []byte(value)) != 1 {
		return common.ErrCSRFTokenInvalid
	}
	return nil
}
