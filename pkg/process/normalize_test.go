package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://example.com", "http://example.com/"},
		{"HTTP://Example.COM/Docs", "http://example.com/Docs"},
		{"http://example.com:80/a", "http://example.com/a"},
		{"https://example.com:443/a", "https://example.com/a"},
		{"http://example.com:8080/a", "http://example.com:8080/a"},
		{"http://example.com/page#section", "http://example.com/page"},
		{"http://example.com/a/../b/./c", "http://example.com/b/c"},
		{"http://example.com//a//b", "http://example.com/a/b"},
		{"http://example.com/?b=2&a=1", "http://example.com/?a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_FragmentVariantsCollapse(t *testing.T) {
	a, err := Normalize("http://example.com/page#a")
	require.NoError(t, err)
	b, err := Normalize("http://example.com/page#b")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalize_RejectsRelative(t *testing.T) {
	for _, in := range []string{"/just/a/path", "example.com", "", "http://"} {
		_, err := Normalize(in)
		assert.Error(t, err, in)
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "example.com", Host("http://example.com/a"))
	assert.Equal(t, "127.0.0.1:8080", Host("http://127.0.0.1:8080/"))
}
