package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in    string
		out   string
		valid bool
	}{
		{"  Ada@Example.COM ", "ada@example.com", true},
		{"no-at-sign", "no-at-sign", false},
		{"Ada <ada@example.com>", "ada <ada@example.com>", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeEmail(tc.in)
		assert.Equal(t, tc.out, got, tc.in)
		assert.Equal(t, tc.valid, ok, tc.in)
	}
}

func TestIsEmailDomainValid_RejectsMalformedWithoutLookup(t *testing.T) {
	assert.False(t, IsEmailDomainValid("nobody"))
	assert.False(t, IsEmailDomainValid("@example.com"))
	assert.False(t, IsEmailDomainValid("nobody@"))
}
