package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/apperr"
)

func testResolver() *Resolver {
	return NewResolver(Config{
		Secret:        "test-secret",
		TokenTTL:      time.Hour,
		AdminLogin:    "admin",
		AdminPassword: "hunter2",
		AdminUserIDs:  []string{"42", "77"},
	})
}

func TestIssueAndResolve(t *testing.T) {
	r := testResolver()

	token, err := r.Issue(Principal{ID: "user-1", Role: RoleUser})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := r.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, RoleUser, p.Role)
	assert.False(t, p.IsAdmin())

	adminToken, err := r.Issue(Principal{ID: "admin", Role: RoleAdmin})
	require.NoError(t, err)

	admin, err := r.Resolve(adminToken)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestResolveRejectsBadTokens(t *testing.T) {
	r := testResolver()

	_, err := r.Resolve("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// Token signed with a different secret.
	other := NewResolver(Config{Secret: "other-secret", TokenTTL: time.Hour})
	forged, err := other.Issue(Principal{ID: "user-1", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = r.Resolve(forged)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestResolveRejectsExpiredToken(t *testing.T) {
	r := NewResolver(Config{Secret: "test-secret", TokenTTL: -time.Minute})

	token, err := r.Issue(Principal{ID: "user-1", Role: RoleUser})
	require.NoError(t, err)

	_, err = r.Resolve(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestResolveNormalizesUnknownRole(t *testing.T) {
	r := testResolver()

	token, err := r.Issue(Principal{ID: "user-1", Role: Role("superuser")})
	require.NoError(t, err)

	p, err := r.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, p.Role)
}

func TestCheckAdminLogin(t *testing.T) {
	r := testResolver()

	assert.True(t, r.CheckAdminLogin("admin", "hunter2"))
	assert.False(t, r.CheckAdminLogin("admin", "wrong"))
	assert.False(t, r.CheckAdminLogin("", ""))

	// Unconfigured credentials never match, not even empty input.
	unconfigured := NewResolver(Config{Secret: "s", TokenTTL: time.Hour})
	assert.False(t, unconfigured.CheckAdminLogin("", ""))
}

func TestRoleFor(t *testing.T) {
	r := testResolver()

	assert.Equal(t, RoleAdmin, r.RoleFor("42"))
	assert.Equal(t, RoleAdmin, r.RoleFor("77"))
	assert.Equal(t, RoleUser, r.RoleFor("user-1"))
}
