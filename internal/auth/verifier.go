// Package auth verifies bearer tokens issued by the user pool and turns them
// into authz identities.
package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"glamgo/internal/authz"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownKey   = errors.New("unknown signing key")
)

// Options configures a Verifier. At least one of JWKSURL or HMACSecret must
// be set.
type Options struct {
	Issuer     string
	JWKSURL    string
	HMACSecret string
	JWKSTTL    time.Duration
	HTTPClient *http.Client

	// MinRefreshInterval is the least time between two JWKS fetches. Tokens
	// naming an unknown kid inside the interval are rejected without a fetch.
	MinRefreshInterval time.Duration

	// Audience is the app client id. When set, ID tokens must list it in aud
	// and access tokens must carry it as client_id.
	Audience string

	// TokenUse, when set, is the required token_use claim ("id" or "access").
	TokenUse string
}

// Verifier validates tokens signed either with the user pool's RSA keys or,
// for local development, a shared HMAC secret.
type Verifier struct {
	issuer     string
	jwksURL    string
	hmacSecret []byte
	httpClient *http.Client
	keys       *gocache.Cache
	methods    []string
	audience   string
	tokenUse   string

	mu          sync.Mutex
	lastRefresh time.Time
	minRefresh  time.Duration
	now         func() time.Time
}

// JWKSURL returns the well-known key set location for a Cognito issuer.
func JWKSURL(issuer string) string {
	return issuer + "/.well-known/jwks.json"
}

// NewVerifier creates a verifier from opts.
func NewVerifier(opts Options) (*Verifier, error) {
	if opts.JWKSURL == "" && opts.HMACSecret == "" {
		return nil, errors.New("auth: either a JWKS URL or an HMAC secret is required")
	}

	ttl := opts.JWKSTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	minRefresh := opts.MinRefreshInterval
	if minRefresh <= 0 {
		minRefresh = time.Minute
	}

	v := &Verifier{
		issuer:     opts.Issuer,
		jwksURL:    opts.JWKSURL,
		httpClient: client,
		keys:       gocache.New(ttl, 10*time.Minute),
		audience:   opts.Audience,
		tokenUse:   opts.TokenUse,
		minRefresh: minRefresh,
		now:        time.Now,
	}
	if opts.JWKSURL != "" {
		v.methods = append(v.methods, jwt.SigningMethodRS256.Alg())
	}
	if opts.HMACSecret != "" {
		v.hmacSecret = []byte(opts.HMACSecret)
		v.methods = append(v.methods, jwt.SigningMethodHS256.Alg())
	}
	return v, nil
}

// Verify parses and validates a raw token.
func (v *Verifier) Verify(raw string) (authz.Identity, error) {
	if raw == "" {
		return authz.Identity{}, ErrMissingToken
	}

	parserOpts := []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithLeeway(30 * time.Second)}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, v.keyFunc, parserOpts...)
	if err != nil || !tok.Valid {
		return authz.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if err := v.checkClient(claims); err != nil {
		return authz.Identity{}, err
	}

	id := identityFromClaims(claims)
	if !id.Authenticated() {
		return authz.Identity{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	return id, nil
}

// checkClient enforces token_use and the app client. Cognito ID tokens name
// the client in aud; access tokens carry client_id and no aud.
func (v *Verifier) checkClient(c jwt.MapClaims) error {
	use, _ := c["token_use"].(string)
	if v.tokenUse != "" && use != v.tokenUse {
		return fmt.Errorf("%w: token_use %q not accepted", ErrInvalidToken, use)
	}
	if v.audience == "" {
		return nil
	}

	if clientID, ok := c["client_id"].(string); ok && clientID == v.audience {
		return nil
	}
	aud, err := c.GetAudience()
	if err == nil {
		for _, a := range aud {
			if a == v.audience {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: token not issued for this client", ErrInvalidToken)
}

func (v *Verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.hmacSecret) == 0 {
			return nil, ErrUnknownKey
		}
		return v.hmacSecret, nil
	case *jwt.SigningMethodRSA:
		kid, _ := t.Header["kid"].(string)
		return v.publicKey(kid)
	default:
		return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
	}
}

func (v *Verifier) publicKey(kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, ErrUnknownKey
	}
	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}

	// A throttled refresh still rechecks the cache: a concurrent caller may
	// have just loaded the key.
	if err := v.refreshKeys(); err != nil && !errors.Is(err, ErrUnknownKey) {
		return nil, err
	}

	if k, ok := v.keys.Get(kid); ok {
		return k.(*rsa.PublicKey), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, kid)
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// refreshKeys fetches the key set at most once per minRefresh, so tokens
// with made-up kids cannot drive outbound traffic.
func (v *Verifier) refreshKeys() error {
	if v.jwksURL == "" {
		return ErrUnknownKey
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.now()
	if !v.lastRefresh.IsZero() && now.Sub(v.lastRefresh) < v.minRefresh {
		return ErrUnknownKey
	}
	v.lastRefresh = now

	resp, err := v.httpClient.Get(v.jwksURL)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}

	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaKey(k.N, k.E)
		if err != nil {
			continue
		}
		v.keys.SetDefault(k.Kid, pub)
	}
	return nil
}

func rsaKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}

func identityFromClaims(c jwt.MapClaims) authz.Identity {
	id := authz.Identity{}
	id.Subject, _ = c["sub"].(string)
	id.Email, _ = c["email"].(string)

	if u, ok := c["cognito:username"].(string); ok {
		id.Username = u
	} else {
		id.Username, _ = c["username"].(string)
	}

	if groups, ok := c["cognito:groups"].([]interface{}); ok {
		for _, g := range groups {
			if s, ok := g.(string); ok {
				id.Groups = append(id.Groups, s)
			}
		}
	}
	return id
}
