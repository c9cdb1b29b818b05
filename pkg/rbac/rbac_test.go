package rbac_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"github.com/shashiranjanraj/mockshop/pkg/middleware"
	"github.com/shashiranjanraj/mockshop/pkg/rbac"
)

func adminOnly() http.Handler {
	return middleware.Auth(rbac.Admin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
}

func call(t *testing.T, h http.Handler, role string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	if role != "" {
		token, err := auth.GenerateToken(1, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec.Code, body.Message
}

func TestAdminGuard(t *testing.T) {
	code, _ := call(t, adminOnly(), "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, msg := call(t, adminOnly(), auth.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden - Admin access required", msg)

	code, _ = call(t, adminOnly(), auth.RoleAdmin)
	assert.Equal(t, http.StatusOK, code)
}

func TestOptionalAuthLetsGuestsThrough(t *testing.T) {
	var sawIdentity bool
	h := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawIdentity = auth.IdentityFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, sawIdentity)

	token, _ := auth.GenerateToken(5, auth.RoleCustomer)
	req = httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, sawIdentity)
}
