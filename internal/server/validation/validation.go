// Package validation rejects malformed input before it reaches crypto or
// storage. Failures wrap common.ErrorValidation and are not logged as
// security events.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/secureportal/internal/common"
)

const (
	usernameMinLen  = 3
	usernameMaxLen  = 50
	passwordMinLen  = 10
	passwordMaxLen  = 255
	publicFieldMax  = 255
	sensitiveMaxLen = 1000
	emailMaxLen     = 100
	nameMaxLen      = 100
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// Username checks length and the allowed character set.
func Username(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return invalid("username is required")
	}
	if len(username) < usernameMinLen {
		return invalid("username must be at least %d characters", usernameMinLen)
	}
	if len(username) > usernameMaxLen {
		return invalid("username must be no more than %d characters", usernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username can only contain letters, numbers, and underscores")
	}
	return nil
}

// Password checks length bounds only; composition rules are out of scope.
func Password(password string) error {
	if password == "" {
		return invalid("password is required")
	}
	if len(password) < passwordMinLen {
		return invalid("password must be at least %d characters", passwordMinLen)
	}
	if len(password) > passwordMaxLen {
		return invalid("password is too long")
	}
	return nil
}

// PublicField checks the record's public field. Angle brackets and quotes
// are rejected to keep injection patterns out of stored data.
func PublicField(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid("record name is required")
	}
	if len(value) > publicFieldMax {
		return invalid("record name must be no more than %d characters", publicFieldMax)
	}
	if strings.ContainsAny(value, `<>"'`) {
		return invalid("record name contains invalid characters")
	}
	return nil
}

// SensitiveField checks the confidential value before encryption.
func SensitiveField(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid("sensitive value is required")
	}
	if len(value) > sensitiveMaxLen {
		return invalid("sensitive value is too long (max %d characters)", sensitiveMaxLen)
	}
	return nil
}

// Description checks the optional free-text field.
func Description(value string) error {
	if len(strings.TrimSpace(value)) > sensitiveMaxLen {
		return invalid("description is too long (max %d characters)", sensitiveMaxLen)
	}
	return nil
}

// Email checks length and RFC 5322 address syntax.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email is required")
	}
	if len(email) > emailMaxLen {
		return invalid("email is too long")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("invalid email format")
	}
	return nil
}

// Name checks the display name.
func Name(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name is required")
	}
	if len(name) > nameMaxLen {
		return invalid("name must be no more than %d characters", nameMaxLen)
	}
	return nil
}
