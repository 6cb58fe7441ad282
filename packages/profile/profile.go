// Package profile loads harness profiles: the base address, credentials, and
// diagnostics settings a CLI invocation provisions its transport from.
package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/harnesskit/packages/transport"
)

// Profile is one named target environment.
type Profile struct {
	BaseAddress string            `yaml:"baseAddress"`
	TimeoutMs   int               `yaml:"timeout"` // milliseconds
	Headers     map[string]string `yaml:"headers,omitempty"`
	Auth        *Auth             `yaml:"auth,omitempty"`
	Diagnostics *Diagnostics      `yaml:"diagnostics,omitempty"`
}

// Auth selects the credential strategy: "none", "basic" (one impersonated
// credential), or "cache" (entries keyed by target host and scheme).
type Auth struct {
	Type     string       `yaml:"type"`
	Username string       `yaml:"username,omitempty"`
	Password string       `yaml:"password,omitempty"`
	Domain   string       `yaml:"domain,omitempty"`
	Cache    []CacheEntry `yaml:"cache,omitempty"`
}

type CacheEntry struct {
	Target   string `yaml:"target"`
	Scheme   string `yaml:"scheme,omitempty"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Diagnostics configures response artifact capture for the run.
type Diagnostics struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir,omitempty"`
}

// Load reads a YAML profile from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return &p, nil
}

// Strategy maps the auth block onto a transport credential strategy.
func (p *Profile) Strategy() (transport.CredentialStrategy, error) {
	if p.Auth == nil || p.Auth.Type == "" || p.Auth.Type == "none" {
		return transport.NoCredentials(), nil
	}

	switch p.Auth.Type {
	case "basic":
		return transport.Impersonate(transport.Credential{
			Username: p.Auth.Username,
			Password: p.Auth.Password,
			Domain:   p.Auth.Domain,
		}), nil
	case "cache":
		entries := make(map[transport.CacheKey]transport.Credential, len(p.Auth.Cache))
		for _, e := range p.Auth.Cache {
			scheme := e.Scheme
			if scheme == "" {
				scheme = transport.SchemeBasic
			}
			entries[transport.CacheKey{Target: e.Target, Scheme: scheme}] = transport.Credential{
				Username: e.Username,
				Password: e.Password,
			}
		}
		return transport.CredentialCache(entries), nil
	default:
		return transport.CredentialStrategy{}, fmt.Errorf("unknown auth type %q", p.Auth.Type)
	}
}

// Provision builds the transport handle the profile describes.
func (p *Profile) Provision(opts ...transport.Option) (*transport.Handle, error) {
	strategy, err := p.Strategy()
	if err != nil {
		return nil, err
	}
	if p.TimeoutMs > 0 {
		opts = append(opts, transport.WithTimeout(time.Duration(p.TimeoutMs)*time.Millisecond))
	}
	for k, v := range p.Headers {
		opts = append(opts, transport.WithDefaultHeader(k, v))
	}
	return transport.Provision(p.BaseAddress, strategy, opts...)
}
