package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("http://api.example.com"))
	assert.NoError(t, ValidateURL("https://api.example.com:8443/v1"))

	assert.Error(t, ValidateURL("not-a-url"))
	assert.Error(t, ValidateURL("ftp://files.example.com"))
	assert.Error(t, ValidateURL("http://"))
	assert.Error(t, ValidateURL("/relative/path"))
	assert.Error(t, ValidateURL(""))
}

func TestSanitizePath(t *testing.T) {
	cases := []struct {
		rawURL string
		want   string
	}{
		{"https://api.example.com/api/users/7", "api_users_7"},
		{"https://api.example.com/api/users?page=2", "api_users"},
		{"/api/users", "api_users"},
		{"api/v1.2/items-list", "api_v1.2_items-list"},
		{"/weird path/with:chars", "weird_path_with_chars"},
		{"https://api.example.com", "root"},
		{"/", "root"},
		{"", "root"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizePath(tc.rawURL), "input %q", tc.rawURL)
	}
}

func TestSetQueryParam(t *testing.T) {
	assert.Equal(t, "https://x.example.com/a?page=2",
		SetQueryParam("https://x.example.com/a", "page", "2"))
	assert.Equal(t, "https://x.example.com/a?page=3",
		SetQueryParam("https://x.example.com/a?page=2", "page", "3"))
}

func TestRemoveQueryParam(t *testing.T) {
	assert.Equal(t, "https://x.example.com/a?keep=1",
		RemoveQueryParam("https://x.example.com/a?keep=1&drop=2", "drop"))
	assert.Equal(t, "https://x.example.com/a",
		RemoveQueryParam("https://x.example.com/a?drop=2", "drop"))
}
