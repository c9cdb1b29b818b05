// Package ctx gives handlers a single request/response value with helpers
// for params, binding, identity and the JSON envelope.
//
//	func (h *OrderController) Show(c *ctx.Context) {
//	    id, ok := c.ParamUint("id")
//	    if !ok {
//	        return
//	    }
//	    order, err := h.orders.Get(c.Context(), c.UserID(), id)
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(order)
//	}
//
//	router.Get("/orders/{id}", "orders.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"github.com/shashiranjanraj/mockshop/pkg/bind"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. On failure it writes a 400 and
// returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Error(http.StatusBadRequest, fmt.Sprintf("Invalid %s", key))
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt returns the integer query value, or def when it is missing or
// not a positive integer.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// QueryFloat returns a pointer to the parsed value, or nil.
func (c *Context) QueryFloat(key string) *float64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return nil
	}
	return &f
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-Ip, then the
// remote address without port.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Identity ─────────────────────────────────────────────────────────────────

// Identity returns the authenticated caller, if any.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.IdentityFrom(c.R.Context())
}

// UserID returns the authenticated user's ID, or 0 for guests.
func (c *Context) UserID() uint {
	id, _ := c.Identity()
	return id.UserID
}

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

func (c *Context) GetUint(key string) uint {
	v, _ := c.Get(key)
	u, _ := v.(uint)
	return u
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. It writes a 400 for
// malformed JSON and a 422 for rule failures, returning false in both cases.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Responses ────────────────────────────────────────────────────────────────

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// JSON writes v as-is with status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Respond writes the envelope with a message and data.
func (c *Context) Respond(code int, message string, data any) {
	c.JSON(code, response.Envelope{Status: code, Message: message, Data: data})
}

func (c *Context) Success(data any) {
	c.Respond(http.StatusOK, "", data)
}

func (c *Context) Created(data any) {
	c.Respond(http.StatusCreated, "", data)
}

// Message sends a 200 with only a message.
func (c *Context) Message(message string) {
	c.Respond(http.StatusOK, message, nil)
}

func (c *Context) Paginated(items any, p response.Pagination) {
	c.Success(map[string]any{"items": items, "pagination": p})
}

func (c *Context) Error(code int, message string) {
	c.Respond(code, message, nil)
}

func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Fail maps err to a response. *apperr.Error values keep their status and
// message; anything else is logged and reported as a 500.
func (c *Context) Fail(err error) {
	if e, ok := apperr.As(err); ok {
		if len(e.Fields) > 0 {
			c.JSON(e.Status, response.Envelope{Status: e.Status, Message: e.Message, Errors: e.Fields})
			return
		}
		c.Error(e.Status, e.Message)
		return
	}
	logger.WithCtx(c.Context()).Error("request failed",
		"method", c.R.Method,
		"path", c.R.URL.Path,
		"error", err,
	)
	c.Error(http.StatusInternalServerError, "Internal server error")
}

// Attachment sends v as a downloadable JSON file.
func (c *Context) Attachment(filename string, v any) {
	c.W.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, v)
}

// Blob writes raw bytes with the given content type.
func (c *Context) Blob(code int, contentType string, data []byte) {
	c.W.Header().Set("Content-Type", contentType)
	c.W.WriteHeader(code)
	c.status = code
	_, _ = c.W.Write(data)
}

// WrittenStatus returns the status code written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
