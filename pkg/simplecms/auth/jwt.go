package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload issued by the identity provider.
type Claims struct {
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	IsSuperuser bool     `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HMAC-signed tokens.
type JWTVerifier struct {
	secret    []byte
	algorithm string
	issuer    string
	leeway    time.Duration
}

// JWTOption configures a JWTVerifier.
type JWTOption func(*JWTVerifier)

// WithAlgorithm restricts verification to one HMAC algorithm (HS256, HS384, HS512).
func WithAlgorithm(alg string) JWTOption {
	return func(v *JWTVerifier) {
		if alg != "" {
			v.algorithm = alg
		}
	}
}

// WithIssuer requires the iss claim to match.
func WithIssuer(issuer string) JWTOption {
	return func(v *JWTVerifier) {
		v.issuer = issuer
	}
}

// WithLeeway tolerates clock skew on exp/nbf.
func WithLeeway(d time.Duration) JWTOption {
	return func(v *JWTVerifier) {
		v.leeway = d
	}
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret []byte, opts ...JWTOption) (*JWTVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	v := &JWTVerifier{secret: secret, algorithm: jwt.SigningMethodHS256.Alg()}
	for _, opt := range opts {
		opt(v)
	}
	if _, ok := jwt.GetSigningMethod(v.algorithm).(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm: %s", v.algorithm)
	}
	return v, nil
}

// Verify implements Verifier.
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{v.algorithm})}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(v.leeway))
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	active := true
	if claims.IsActive != nil {
		active = *claims.IsActive
	}

	return &Identity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Roles:     claims.Roles,
		Active:    active,
		Superuser: claims.IsSuperuser,
	}, nil
}

// Sign issues a token for p that expires after ttl. A zero ttl issues a token
// without an expiry; a negative ttl issues one that is already expired.
func (v *JWTVerifier) Sign(p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	active := p.Active
	claims := &Claims{
		Email:       p.Email,
		Roles:       p.Roles,
		IsActive:    &active,
		IsSuperuser: p.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  p.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   v.issuer,
		},
	}
	if p.ID == uuid.Nil {
		claims.Subject = ""
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod(v.algorithm), claims)
	return token.SignedString(v.secret)
}
