package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloodlink/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a raw bearer token into a session.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*types.Session, error)
}

// Issuer mints and verifies HS256 tokens signed with a shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

func (i *Issuer) Issue(userID, email string) (*types.Session, error) {
	now := i.now()
	expires := now.Add(i.ttl)

	tok, err := jwt.NewBuilder().
		Subject(userID).
		Issuer(i.issuer).
		IssuedAt(now).
		Expiration(expires).
		Claim("email", email).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), i.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &types.Session{
		UserID:    userID,
		Email:     email,
		Token:     string(signed),
		ExpiresAt: expires,
	}, nil
}

func (i *Issuer) Verify(_ context.Context, raw string) (*types.Session, error) {
	tok, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), i.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(i.issuer),
		jwt.WithClock(jwt.ClockFunc(i.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return sessionFromToken(tok, raw)
}

// JWKSVerifier checks tokens minted by an external identity provider against
// its published key set.
type JWKSVerifier struct {
	cache *jwk.Cache
	url   string
}

func NewJWKSVerifier(ctx context.Context, cache *jwk.Cache, url string) (*JWKSVerifier, error) {
	if err := cache.Register(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to register jwks url with cache: %w", err)
	}
	return &JWKSVerifier{cache: cache, url: url}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (*types.Session, error) {
	set, err := v.cache.Lookup(ctx, v.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}

	tok, err := jwt.Parse([]byte(raw), jwt.WithKeySet(set), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return sessionFromToken(tok, raw)
}

// Chain tries each verifier in order and returns the first session.
type Chain []Verifier

func (c Chain) Verify(ctx context.Context, raw string) (*types.Session, error) {
	err := ErrInvalidToken
	for _, v := range c {
		sess, verr := v.Verify(ctx, raw)
		if verr == nil {
			return sess, nil
		}
		err = verr
	}
	return nil, err
}

func sessionFromToken(tok jwt.Token, raw string) (*types.Session, error) {
	userID, ok := tok.Subject()
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: no subject claim", ErrInvalidToken)
	}

	// email is optional for external tokens
	var email string
	_ = tok.Get("email", &email)

	sess := &types.Session{UserID: userID, Email: email, Token: raw}
	if exp, ok := tok.Expiration(); ok {
		sess.ExpiresAt = exp
	}
	return sess, nil
}
