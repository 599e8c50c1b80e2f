package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leanmaker_backend/internals/constants"
	authModel "leanmaker_backend/internals/features/users/auth/model"
	"leanmaker_backend/internals/features/users/auth/service"
	"leanmaker_backend/internals/testutil"
)

func TestIssueAndVerifyAccessToken(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.NewUser(t, db, constants.RoleStudent, "alumno@inacapmail.cl")

	access, refresh, err := service.IssueTokenPair(db, user, "go-test", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	subject, err := service.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject.UserID)
	assert.Equal(t, user.Email, subject.Email)
	assert.Equal(t, constants.RoleStudent, subject.Role)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	testutil.OpenDB(t)

	_, err := service.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	_, err = service.VerifyAccessToken("")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestRefreshRotationRevokesOldToken(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.NewUser(t, db, constants.RoleCompany, "empresa@acme.cl")

	_, refresh, err := service.IssueTokenPair(db, user, "go-test", "127.0.0.1")
	require.NoError(t, err)

	access2, refresh2, rotatedUser, err := service.RotateRefreshToken(db, refresh, "go-test", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, access2)
	require.NotEqual(t, refresh, refresh2)
	assert.Equal(t, user.ID, rotatedUser.ID)

	// old refresh token is single-use
	_, _, _, err = service.RotateRefreshToken(db, refresh, "go-test", "127.0.0.1")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	// the new one still works
	_, _, _, err = service.RotateRefreshToken(db, refresh2, "go-test", "127.0.0.1")
	assert.NoError(t, err)
}

func TestRotationRefusesDisabledAccounts(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.NewUser(t, db, constants.RoleStudent, "baja@inacapmail.cl")

	_, refresh, err := service.IssueTokenPair(db, user, "go-test", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, _, err = service.RotateRefreshToken(db, refresh, "go-test", "127.0.0.1")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestRevokeUserRefreshTokens(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.NewUser(t, db, constants.RoleStudent, "bye@inacapmail.cl")

	_, refresh, err := service.IssueTokenPair(db, user, "go-test", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, service.RevokeUserRefreshTokens(db, user.ID))

	_, _, _, err = service.RotateRefreshToken(db, refresh, "go-test", "127.0.0.1")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)

	var live int64
	require.NoError(t, db.Model(&authModel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", user.ID).
		Count(&live).Error)
	assert.Zero(t, live)
}
