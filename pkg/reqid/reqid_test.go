package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/mockshop/pkg/reqid"
)

func TestMiddlewareAssignsID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestMiddlewareHonoursUpstreamUUID(t *testing.T) {
	upstream := uuid.NewString()
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, upstream)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, upstream, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, "not-a-uuid\nX-Injected: 1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not-a-uuid\nX-Injected: 1", seen)
}
