package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Identity is what a Verifier extracts from a valid credential.
type Identity struct {
	Subject   string
	Email     string
	Roles     []string
	Active    bool
	Superuser bool
}

// Verifier turns an opaque credential into an Identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// Resolver derives Principals from credentials.
type Resolver struct {
	verifier Verifier
}

// NewResolver creates a resolver backed by verifier.
func NewResolver(verifier Verifier) *Resolver {
	return &Resolver{verifier: verifier}
}

// Resolve returns the principal for credential. It fails with
// ErrUnauthenticated when the credential is empty, does not verify, or carries
// no usable subject.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: missing credential", ErrUnauthenticated)
	}

	identity, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if identity == nil || identity.Subject == "" {
		return nil, fmt.Errorf("%w: credential has no subject", ErrUnauthenticated)
	}

	id, err := uuid.Parse(identity.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject: %v", ErrUnauthenticated, err)
	}

	roles := identity.Roles
	if roles == nil {
		roles = []string{}
	}

	return &Principal{
		ID:        id,
		Email:     identity.Email,
		Roles:     roles,
		Active:    identity.Active,
		Superuser: identity.Superuser,
	}, nil
}

// ResolveActive is Resolve followed by RequireActive.
func (r *Resolver) ResolveActive(ctx context.Context, credential string) (*Principal, error) {
	p, err := r.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	if err := RequireActive(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolveOptional never fails: any verification problem yields nil, which
// callers treat as the anonymous public view.
func (r *Resolver) ResolveOptional(ctx context.Context, credential string) *Principal {
	p, err := r.Resolve(ctx, credential)
	if err != nil {
		return nil
	}
	return p
}

type rejectAll struct{}

func (rejectAll) Verify(context.Context, string) (*Identity, error) {
	return nil, errors.New("credential verification is not configured")
}

// RejectAll returns a Verifier that refuses every credential.
func RejectAll() Verifier {
	return rejectAll{}
}
