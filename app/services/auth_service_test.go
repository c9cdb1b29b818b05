package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	testutil.NewDB(t)
	svc := services.NewAuthService()
	ctx := context.Background()

	s, err := svc.Register(ctx, services.RegisterInput{
		Email: " Ada@Example.com ", Password: "longenough", FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", s.User.Email)
	assert.Equal(t, models.RoleCustomer, s.User.Role)
	assert.NotEmpty(t, s.AccessToken)
	assert.NotEmpty(t, s.RefreshToken)

	_, err = svc.Register(ctx, services.RegisterInput{
		Email: "ada@example.com", Password: "longenough", FirstName: "A", LastName: "L",
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status)
	assert.Contains(t, e.Fields, "email")

	_, err = svc.Login(ctx, services.LoginInput{Email: "ADA@example.com", Password: "longenough"})
	require.NoError(t, err)

	for _, in := range []services.LoginInput{
		{Email: "ada@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "longenough"},
	} {
		_, err = svc.Login(ctx, in)
		e, ok := apperr.As(err)
		require.True(t, ok, in.Email)
		assert.Equal(t, http.StatusUnauthorized, e.Status)
		assert.Equal(t, "Invalid email or password", e.Message)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.NewFixtures(t, db).Customer()
	svc := services.NewAuthService()
	ctx := context.Background()

	pair, err := auth.IssuePair(u.ID, u.Role)
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	assert.Nil(t, next.User)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "Invalid refresh token", messageOf(t, err), "a refresh token is single use")

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, "Invalid refresh token", messageOf(t, err))
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.NewFixtures(t, db).Customer()

	tok, err := auth.GenerateToken(u.ID, u.Role)
	require.NoError(t, err)
	claims, err := auth.ValidateAccess(tok)
	require.NoError(t, err)

	require.NoError(t, services.NewAuthService().Logout(context.Background(), auth.Identity{Claims: claims}))
	_, err = auth.ValidateAccess(tok)
	assert.ErrorIs(t, err, auth.ErrRevoked)
}
