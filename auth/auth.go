// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AccessCodeLength is the number of characters in a round access code
const AccessCodeLength = 6

// accessCodeChars are the characters an access code is drawn from (A-Z, 0-9)
const accessCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	ErrInvalidOrganizerKey = errors.New("invalid organizer key")
	ErrInvalidID           = errors.New("invalid id format")
)

// NewID creates a random UUID for a database record
func NewID() string {
	return uuid.NewString()
}

// ParseID checks that id is a well-formed record ID and returns its canonical form
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return parsed.String(), nil
}

// GenerateAccessCode creates a random 6-character code from A-Z and 0-9.
// Uniqueness across rounds is not checked.
func GenerateAccessCode() (string, error) {
	const n = len(accessCodeChars)
	// Largest multiple of n that fits in a byte, to avoid modulo bias
	const limit = 256 - 256%n

	code := make([]byte, 0, AccessCodeLength)
	buf := make([]byte, AccessCodeLength*2)
	for len(code) < AccessCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, accessCodeChars[int(b)%n])
			if len(code) == AccessCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// IsAccessCode reports whether s has the access code shape
func IsAccessCode(s string) bool {
	if len(s) != AccessCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(accessCodeChars, s[i]) < 0 {
			return false
		}
	}
	return true
}

// NormalizeAccessCode trims and upper-cases a code typed by a candidate
func NormalizeAccessCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateOrganizerKey compares the presented key with the configured one
// in constant time. An empty configured key rejects everything.
func ValidateOrganizerKey(presented, configured string) error {
	if configured == "" || presented == "" {
		return ErrInvalidOrganizerKey
	}
	// Hash both sides so the comparison does not leak the key length
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(configured))
	if !hmac.Equal(a[:], b[:]) {
		return ErrInvalidOrganizerKey
	}
	return nil
}
