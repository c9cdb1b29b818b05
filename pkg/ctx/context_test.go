package ctx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/auth"
	appctx "github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Status != 200 || string(env.Data) != `{"id":1}` {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Set("cart_id", uint(42))
		if uid := c.GetUint("cart_id"); uid != 42 {
			t.Errorf("expected 42, got %d", uid)
		}
		c.Success(nil)
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestBindJSONValid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"welcome10","orderTotal":75}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Code       string  `json:"code"       validate:"required"`
			OrderTotal float64 `json:"orderTotal" validate:"gt=0"`
		}
		if !c.BindJSON(&input) {
			t.Error("expected BindJSON to succeed")
			return
		}
		if input.Code != "welcome10" {
			t.Errorf("expected welcome10, got %s", input.Code)
		}
		c.Success(nil)
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("unexpected failure: %s", rec.Body.String())
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":""}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Code string `json:"code" validate:"required"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if env := decode(t, rec); env.Errors["code"] == "" {
		t.Errorf("expected code error, got %+v", env)
	}
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct{ Code string }
		c.BindJSON(&input)
	})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestFailMapsAppErrors(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.BadRequest("No items in order"), 400, "No items in order"},
		{apperr.NotFound("Product 3 not found"), 404, "Product 3 not found"},
		{errors.New("connection reset"), 500, "Internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		appctx.Wrap(func(c *appctx.Context) { c.Fail(tc.err) })(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != tc.status {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		if env := decode(t, rec); env.Message != tc.message {
			t.Errorf("%v: expected message %q, got %q", tc.err, tc.message, env.Message)
		}
	}
}

func TestParamUint(t *testing.T) {
	r := chi.NewRouter()
	var got uint
	r.Get("/orders/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamUint("id")
		if !ok {
			return
		}
		got = id
		c.Success(nil)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/17", nil))
	if got != 17 {
		t.Errorf("expected 17, got %d", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUserIDFromIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: 9, Role: "CUSTOMER"}))

	appctx.Wrap(func(c *appctx.Context) {
		if c.UserID() != 9 {
			t.Errorf("expected 9, got %d", c.UserID())
		}
	})(httptest.NewRecorder(), req)

	appctx.Wrap(func(c *appctx.Context) {
		if c.UserID() != 0 {
			t.Errorf("guest should be 0, got %d", c.UserID())
		}
	})(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "1.2.3.4" {
			t.Errorf("expected 1.2.3.4, got %s", ip)
		}
	})(httptest.NewRecorder(), req)
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		c.Attachment("user-data-2026-01-02.json", map[string]string{"ok": "yes"})
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="user-data-2026-01-02.json"` {
		t.Errorf("unexpected header %q", got)
	}
}
