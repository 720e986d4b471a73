// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks writes rejected for a missing required field,
	// either pre-validated here or by a NOT NULL constraint.
	ErrValidation = errors.New("validation error")

	// ErrReferentialIntegrity marks writes that referenced a nonexistent
	// parent key. Surfaced unchanged to the caller; never downgraded to a
	// no-op.
	ErrReferentialIntegrity = errors.New("referential integrity error")
)

// classify maps driver constraint failures onto the error taxonomy.
// The driver exposes constraint kinds only through the message text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrReferentialIntegrity, err)
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}
