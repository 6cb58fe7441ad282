package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/harnesskit/packages/transport"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeProfile(t, `
baseAddress: https://staging.example.com
timeout: 5000
headers:
  X-Env: staging
auth:
  type: basic
  username: alice
  password: secret
diagnostics:
  enabled: true
  dir: ./artifacts
`)

	p, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", p.BaseAddress)
	assert.Equal(t, 5000, p.TimeoutMs)
	assert.Equal(t, "staging", p.Headers["X-Env"])
	require.NotNil(t, p.Auth)
	assert.Equal(t, "basic", p.Auth.Type)
	require.NotNil(t, p.Diagnostics)
	assert.True(t, p.Diagnostics.Enabled)
	assert.Equal(t, "./artifacts", p.Diagnostics.Dir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeProfile(t, "baseAddress: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestStrategy_DefaultsToNone(t *testing.T) {
	p := &Profile{BaseAddress: "https://x.example.com"}
	_, err := p.Strategy()
	assert.NoError(t, err)
}

func TestStrategy_UnknownType(t *testing.T) {
	p := &Profile{Auth: &Auth{Type: "ntlm"}}
	_, err := p.Strategy()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ntlm")
}

func TestStrategy_Cache(t *testing.T) {
	p := &Profile{
		Auth: &Auth{
			Type: "cache",
			Cache: []CacheEntry{
				{Target: "api.internal", Username: "svc", Password: "pw"},
			},
		},
	}

	_, err := p.Strategy()
	assert.NoError(t, err)
}

func TestProvision(t *testing.T) {
	p := &Profile{
		BaseAddress: "https://staging.example.com",
		TimeoutMs:   5000,
		Headers:     map[string]string{"X-Env": "staging"},
	}

	handle, err := p.Provision()

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, handle.Timeout())
}

func TestProvision_InvalidAddress(t *testing.T) {
	p := &Profile{BaseAddress: "not-a-url"}

	_, err := p.Provision()

	var invalidErr *transport.InvalidAddressError
	assert.ErrorAs(t, err, &invalidErr)
}
