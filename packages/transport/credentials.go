package transport

// Credential is a username/password pair a strategy attaches to requests.
// Domain is carried for round trippers that negotiate domain-scoped schemes.
type Credential struct {
	Username string
	Password string
	Domain   string
}

// CacheKey selects a credential cache entry: Target is the host (with optional
// port) a request is addressed to, Scheme is the HTTP auth scheme the entry is
// valid for.
type CacheKey struct {
	Target string
	Scheme string
}

// SchemeBasic is the auth scheme the Handle attaches natively. Schemes that
// need challenge negotiation (NTLM, Kerberos, Digest) are delegated to a
// round tripper supplied via WithRoundTripper.
const SchemeBasic = "Basic"

type credentialKind int

const (
	credentialNone credentialKind = iota
	credentialImpersonated
	credentialCache
)

// CredentialStrategy is the closed set of authentication modes a Handle can be
// provisioned with. It is chosen once, at provisioning time, and immutable
// afterwards. The zero value behaves like NoCredentials().
type CredentialStrategy struct {
	kind  credentialKind
	cred  Credential
	cache map[CacheKey]Credential
}

// NoCredentials runs every request as the default identity, with no
// pre-authentication.
func NoCredentials() CredentialStrategy {
	return CredentialStrategy{kind: credentialNone}
}

// Impersonate runs every request as the given credential.
func Impersonate(cred Credential) CredentialStrategy {
	return CredentialStrategy{kind: credentialImpersonated, cred: cred}
}

// CredentialCache selects a credential per request from entries keyed by
// target host and auth scheme.
func CredentialCache(entries map[CacheKey]Credential) CredentialStrategy {
	cache := make(map[CacheKey]Credential, len(entries))
	for k, v := range entries {
		cache[k] = v
	}
	return CredentialStrategy{kind: credentialCache, cache: cache}
}

// lookup returns the credential to pre-authenticate a request to host with.
func (s CredentialStrategy) lookup(host string) (Credential, bool) {
	switch s.kind {
	case credentialImpersonated:
		return s.cred, true
	case credentialCache:
		cred, ok := s.cache[CacheKey{Target: host, Scheme: SchemeBasic}]
		return cred, ok
	default:
		return Credential{}, false
	}
}
