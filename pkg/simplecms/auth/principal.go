// Package auth derives the calling principal from a verified credential and
// supplies the role and ownership predicates used by the service layer.
//
// The package owns no user table: every Principal is rebuilt per request
// from the claims of the credential it was given.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated indicates an absent, malformed or unverifiable credential
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates an authenticated principal lacking permission
	ErrForbidden = errors.New("forbidden")
)

// Principal is the authenticated actor behind a request.
type Principal struct {
	ID        uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"is_active"`
	Superuser bool      `json:"is_superuser"`
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal carries at least one of roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// IsSuperuser is nil-safe.
func (p *Principal) IsSuperuser() bool {
	return p != nil && p.Superuser
}

// Is reports whether the principal is the user id. A nil principal is nobody.
func (p *Principal) Is(id uuid.UUID) bool {
	return p != nil && p.ID == id
}

// CanMutate reports whether the principal may change a record owned by
// ownerID. Superusers may change anything.
func (p *Principal) CanMutate(ownerID uuid.UUID) bool {
	return p.IsSuperuser() || p.Is(ownerID)
}

// RequireActive fails for anonymous and inactive principals.
func RequireActive(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !p.Active {
		return fmt.Errorf("%w: inactive user", ErrForbidden)
	}
	return nil
}

// RequireSuperuser fails unless p is an active superuser.
func RequireSuperuser(p *Principal) error {
	if err := RequireActive(p); err != nil {
		return err
	}
	if !p.Superuser {
		return fmt.Errorf("%w: superuser privileges required", ErrForbidden)
	}
	return nil
}

// RequireRoles fails unless p is active and carries any of roles.
func RequireRoles(p *Principal, roles ...string) error {
	if err := RequireActive(p); err != nil {
		return err
	}
	if !p.HasAnyRole(roles...) {
		return fmt.Errorf("%w: requires one of roles %v", ErrForbidden, roles)
	}
	return nil
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal stored in ctx, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
