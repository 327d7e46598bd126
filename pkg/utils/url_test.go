package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/blacklist-service/pkg/utils"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "http://example.com/login", "http://example.com/login"},
		{"surrounding whitespace", "  http://example.com \n", "http://example.com"},
		{"percent-encoded tilde", "http://example.com/%7Euser", "http://example.com/~user"},
		{"case preserved", "HTTP://Example.COM/Path", "HTTP://Example.COM/Path"},
		{"invalid escape kept trimmed", " http://example.com/%zz ", "http://example.com/%zz"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.NormalizeURL(tt.in))
		})
	}
}

func TestHashKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, utils.HashKey("http://a.com"), utils.HashKey("http://a.com"))
	assert.NotEqual(t, utils.HashKey("http://a.com"), utils.HashKey("http://b.com"))
	// sha256 hex digest is always 64 characters.
	assert.Len(t, utils.HashKey(""), 64)
}
