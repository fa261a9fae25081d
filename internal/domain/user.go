// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
)

const MaxDisplayNameLen = 36

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
)

// ValidateDisplayName checks the name a client joins with.
// Uniqueness is deliberately NOT enforced; duplicate names are accepted
// and resolved first-match by the registry.
func ValidateDisplayName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrNameTooLong
	}
	return nil
}
