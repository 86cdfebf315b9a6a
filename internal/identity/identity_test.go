package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"ok simple", "clicker42", nil},
		{"ok underscores", "big_CURSOR", nil},
		{"ok min length", "abc", nil},
		{"ok max length", "abcdefghijkl", nil},
		{"too short", "ab", ErrTooShort},
		{"empty", "", ErrTooShort},
		{"too long", "abcdefghijklm", ErrTooLong},
		{"space", "hi there", ErrInvalidChars},
		{"dash", "hi-there", ErrInvalidChars},
		{"unicode", "héllo", ErrInvalidChars},
		{"bad word exact", "shit", ErrDisallowed},
		{"bad word embedded", "xXshitXx", ErrDisallowed},
		{"bad word cased", "AdMiN99", ErrDisallowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tc.in), tc.want)
		})
	}
}
