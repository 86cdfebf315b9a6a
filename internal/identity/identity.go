// Package identity validates the username a player joins with.
package identity

import (
	"errors"
	"strings"
)

const (
	MinLength = 3
	MaxLength = 12
)

var (
	ErrTooShort     = errors.New("username too short")
	ErrTooLong      = errors.New("username too long")
	ErrInvalidChars = errors.New("username may only contain letters, numbers, and underscores")
	ErrDisallowed   = errors.New("username is not allowed")
)

// badWords are matched as case-insensitive substrings.
var badWords = []string{
	"admin", "root", "system", "mod", "fuk", "fck", "sh1t", "shit", "dick",
	"ass", "bitch", "cunt", "nigger", "nigga", "faggot", "whore", "slut",
	"cock", "pussy", "sex", "xyz", "kill", "die",
}

// Validate returns nil for an acceptable username, or one of the sentinel
// errors above.
func Validate(name string) error {
	if len(name) < MinLength {
		return ErrTooShort
	}
	if len(name) > MaxLength {
		return ErrTooLong
	}
	for _, r := range name {
		if !isAllowed(r) {
			return ErrInvalidChars
		}
	}
	lower := strings.ToLower(name)
	for _, bad := range badWords {
		if strings.Contains(lower, bad) {
			return ErrDisallowed
		}
	}
	return nil
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
