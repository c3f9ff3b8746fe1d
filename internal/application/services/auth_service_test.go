package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/security"
)

func newAuth() *AuthService {
	return NewAuthService(AuthConfig{
		AdminUsername: "admini",
		AdminPassword: "admini",
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
	}, logging.NewDiscardLogger())
}

func TestAuthenticateAdmin(t *testing.T) {
	auth := newAuth()

	ok := auth.AuthenticateAdmin("admini", "admini")
	require.True(t, ok.Success)
	assert.Equal(t, security.RoleAdmin, ok.Role)
	assert.True(t, auth.ValidateAdminToken(ok.Token))

	bad := auth.AuthenticateAdmin("admini", "wrong")
	assert.False(t, bad.Success)
	assert.Equal(t, "Invalid credentials", bad.Error)
	assert.Empty(t, bad.Token)

	assert.False(t, auth.ValidateAdminToken(""))
	assert.False(t, auth.ValidateAdminToken("not-a-jwt"))
}

func TestAuthenticateUser(t *testing.T) {
	auth := newAuth()
	doc := sampleDocument()
	cmd := &SaveUserCommand{User: content.User{Username: "ann", Password: "secret", Scopes: []string{"s1"}}}
	require.NoError(t, cmd.Apply(doc))

	result := auth.AuthenticateUser(doc, "ann", "secret")
	require.True(t, result.Success)
	assert.Equal(t, security.RoleUser, result.Role)

	user := auth.UserFromToken(doc, result.Token)
	assert.Equal(t, cmd.User.ID, user.ID)
	assert.Equal(t, []string{"s1"}, user.Scopes)
	assert.Empty(t, user.Password)

	assert.False(t, auth.AuthenticateUser(doc, "ann", "nope").Success)
	assert.False(t, auth.AuthenticateUser(doc, "nobody", "secret").Success)
}

func TestUserTokenIsNotAdmin(t *testing.T) {
	auth := newAuth()
	doc := sampleDocument()
	require.NoError(t, (&SaveUserCommand{User: content.User{Username: "ann", Password: "secret"}}).Apply(doc))

	result := auth.AuthenticateUser(doc, "ann", "secret")
	require.True(t, result.Success)
	assert.False(t, auth.ValidateAdminToken(result.Token))
}

func TestUserFromInvalidToken(t *testing.T) {
	auth := newAuth()
	doc := sampleDocument()

	user := auth.UserFromToken(doc, "garbage")
	assert.Empty(t, user.ID)
	assert.Empty(t, user.Scopes)

	admin := auth.AuthenticateAdmin("admini", "admini")
	assert.Empty(t, auth.UserFromToken(doc, admin.Token).ID)
}

func TestSeededUserCanSignIn(t *testing.T) {
	f := newFixture(t, nil)
	result := f.auth.AuthenticateUser(f.documents.Document(), "admin", "password")
	assert.True(t, result.Success)
}
