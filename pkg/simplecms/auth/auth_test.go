package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

var testSecret = []byte("test-secret")

func setupResolver(t *testing.T) (*auth.Resolver, *auth.JWTVerifier) {
	verifier, err := auth.NewJWTVerifier(testSecret)
	require.NoError(t, err)
	return auth.NewResolver(verifier), verifier
}

func TestResolve(t *testing.T) {
	resolver, verifier := setupResolver(t)
	ctx := context.Background()
	userID := uuid.New()

	valid, err := verifier.Sign(auth.Principal{ID: userID, Email: "a@example.com", Roles: []string{"editor"}, Active: true}, time.Hour)
	require.NoError(t, err)

	expired, err := verifier.Sign(auth.Principal{ID: userID, Active: true}, -time.Minute)
	require.NoError(t, err)

	noSubject, err := verifier.Sign(auth.Principal{Active: true}, time.Hour)
	require.NoError(t, err)

	other, err := auth.NewJWTVerifier([]byte("other-secret"))
	require.NoError(t, err)
	wrongKey, err := other.Sign(auth.Principal{ID: userID, Active: true}, time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "not-a-uuid"}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
		wantErr    bool
	}{
		{name: "valid", credential: valid},
		{name: "empty", credential: "", wantErr: true},
		{name: "malformed", credential: "not.a.jwt", wantErr: true},
		{name: "expired", credential: expired, wantErr: true},
		{name: "no subject", credential: noSubject, wantErr: true},
		{name: "wrong key", credential: wrongKey, wantErr: true},
		{name: "subject not uuid", credential: badSubject, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolver.Resolve(ctx, tt.credential)
			if tt.wantErr {
				assert.True(t, errors.Is(err, auth.ErrUnauthenticated), "got %v", err)
				assert.Nil(t, p)
				assert.Nil(t, resolver.ResolveOptional(ctx, tt.credential))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, p.ID)
			assert.Equal(t, "a@example.com", p.Email)
			assert.Equal(t, []string{"editor"}, p.Roles)
			assert.True(t, p.Active)
			assert.False(t, p.Superuser)
			assert.Equal(t, p, resolver.ResolveOptional(ctx, tt.credential))
		})
	}
}

func TestResolve_ClaimDefaults(t *testing.T) {
	resolver, _ := setupResolver(t)
	userID := uuid.New()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: userID.String()}).SignedString(testSecret)
	require.NoError(t, err)

	p, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, p.Active, "is_active defaults to true")
	assert.False(t, p.Superuser)
	assert.Empty(t, p.Roles)
}

func TestResolveActive(t *testing.T) {
	resolver, verifier := setupResolver(t)
	token, err := verifier.Sign(auth.Principal{ID: uuid.New(), Active: false}, time.Hour)
	require.NoError(t, err)

	_, err = resolver.ResolveActive(context.Background(), token)
	assert.True(t, errors.Is(err, auth.ErrForbidden))
}

func TestJWTVerifier_RejectsOtherAlgorithms(t *testing.T) {
	verifier, err := auth.NewJWTVerifier(testSecret, auth.WithAlgorithm("HS512"))
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: uuid.NewString()}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.Error(t, err)

	_, err = auth.NewJWTVerifier(nil)
	assert.Error(t, err)
	_, err = auth.NewJWTVerifier(testSecret, auth.WithAlgorithm("none-such"))
	assert.Error(t, err)
}

func TestPredicates(t *testing.T) {
	owner := uuid.New()
	user := &auth.Principal{ID: owner, Roles: []string{"translator"}, Active: true}
	admin := &auth.Principal{ID: uuid.New(), Active: true, Superuser: true}
	var anonymous *auth.Principal

	assert.True(t, user.CanMutate(owner))
	assert.False(t, user.CanMutate(uuid.New()))
	assert.True(t, admin.CanMutate(owner))
	assert.False(t, anonymous.CanMutate(owner))
	assert.False(t, anonymous.IsSuperuser())

	assert.NoError(t, auth.RequireRoles(user, "editor", "translator"))
	assert.True(t, errors.Is(auth.RequireRoles(user, "editor"), auth.ErrForbidden))
	assert.True(t, errors.Is(auth.RequireSuperuser(user), auth.ErrForbidden))
	assert.NoError(t, auth.RequireSuperuser(admin))
	assert.True(t, errors.Is(auth.RequireActive(anonymous), auth.ErrUnauthenticated))

	ctx := auth.WithPrincipal(context.Background(), user)
	assert.Equal(t, user, auth.FromContext(ctx))
	assert.Nil(t, auth.FromContext(context.Background()))
}
