package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookshelf/catalog-api/internal/core/domain"
)

// MinSigningKeyLen is the shortest HMAC key accepted (256 bits).
const MinSigningKeyLen = 32

// DefaultTokenTTL applies when neither the codec nor the caller sets a TTL.
const DefaultTokenTTL = 24 * time.Hour

// TokenClaims is the verified content of a token.
type TokenClaims struct {
	Subject   string         `json:"sub"`
	IssuedAt  time.Time      `json:"iat"`
	ExpiresAt time.Time      `json:"exp"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// TokenCodec signs and verifies HMAC JWTs with a single process-wide key.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	key        []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

// TokenCodecOption customises a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock replaces the time source used for iat, exp and validity checks.
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec builds a codec for key. The HMAC variant follows the key
// length: 64+ bytes use HS512, 48+ bytes HS384, anything else HS256.
func NewTokenCodec(key []byte, defaultTTL time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	if len(key) < MinSigningKeyLen {
		return nil, fmt.Errorf("token codec: signing key must be at least %d bytes, got %d", MinSigningKeyLen, len(key))
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}

	c := &TokenCodec{
		key:        append([]byte(nil), key...),
		method:     signingMethodFor(key),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func signingMethodFor(key []byte) jwt.SigningMethod {
	switch {
	case len(key) >= 64:
		return jwt.SigningMethodHS512
	case len(key) >= 48:
		return jwt.SigningMethodHS384
	default:
		return jwt.SigningMethodHS256
	}
}

// Algorithm returns the JWS algorithm name in use, e.g. "HS256".
func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Encode issues a token for subject valid for ttl (the codec default when
// ttl <= 0). Registered claims win over same-named entries in extra.
func (c *TokenCodec) Encode(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.now()

	claims := make(jwt.MapClaims, len(extra)+3)
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies structure and signature and returns the claims. Expiry is
// not checked here; see IsValidFor.
func (c *TokenCodec) Decode(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, c.keyFunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return toTokenClaims(claims)
}

// IsValidFor reports whether token verifies, names expectedSubject and has
// not expired. It never fails; any problem yields false.
func (c *TokenCodec) IsValidFor(token, expectedSubject string) bool {
	claims, err := c.Decode(token)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject {
		return false
	}
	return c.now().Before(claims.ExpiresAt)
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return c.key, nil
}

func toTokenClaims(claims jwt.MapClaims) (*TokenClaims, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	out := &TokenClaims{Subject: sub}
	if iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	for k, v := range claims {
		switch k {
		case "sub", "iat", "exp":
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[k] = v
	}
	return out, nil
}
