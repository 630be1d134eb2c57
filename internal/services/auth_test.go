package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/repos"
)

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-0123456789")
	db := openTestDB(t)
	log := testLogger(t)
	svc, err := NewAuthService(db, log, repos.NewUserRepo(db, log), repos.NewUserTokenRepo(db, log))
	require.NoError(t, err)
	return svc, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "Traveler@Example.com", "hunter2hunter2", "Kim", "Lee")
	require.NoError(t, err)
	assert.Equal(t, "traveler@example.com", user.Email)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	loggedIn, loginPair, err := svc.Login(ctx, "traveler@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginPair.AccessToken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "not-an-email", "hunter2hunter2", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Register(ctx, "a@b.com", "short", "", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.Register(ctx, "a@b.com", "hunter2hunter2", "", "")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "A@B.COM", "hunter2hunter2", "", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@b.com", "hunter2hunter2", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@b.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@b.com", "hunter2hunter2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateAccessToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, "a@b.com", "hunter2hunter2", "", "")
	require.NoError(t, err)

	userID, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = svc.ValidateAccessToken(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "a@b.com", "hunter2hunter2", "", "")
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, fresh.AccessToken)

	// old pair is dead after rotation
	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken(ctx, fresh.AccessToken)
	require.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, "a@b.com", "hunter2hunter2", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))
	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// logout is idempotent
	require.NoError(t, svc.Logout(ctx, pair.AccessToken))
}
