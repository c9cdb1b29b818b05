package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shashiranjanraj/mockshop/pkg/apperr"
)

func TestStatusOf(t *testing.T) {
	t.Run("bad request -> 400", func(t *testing.T) {
		err := apperr.BadRequest("Insufficient stock for %s", "T-Shirt")
		if got := apperr.StatusOf(err); got != http.StatusBadRequest {
			t.Fatalf("got %d", got)
		}
		if err.Error() != "Insufficient stock for T-Shirt" {
			t.Fatalf("message %q", err.Error())
		}
	})

	t.Run("wrapped not found -> 404", func(t *testing.T) {
		err := fmt.Errorf("load product: %w", apperr.NotFound("Product 9 not found"))
		if got := apperr.StatusOf(err); got != http.StatusNotFound {
			t.Fatalf("got %d", got)
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatal("expected errors.Is to match ErrNotFound")
		}
		if errors.Is(err, apperr.ErrBadRequest) {
			t.Fatal("did not expect ErrBadRequest to match")
		}
	})

	t.Run("plain error -> 500", func(t *testing.T) {
		if got := apperr.StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
			t.Fatalf("got %d", got)
		}
	})

	t.Run("nil -> 200", func(t *testing.T) {
		if got := apperr.StatusOf(nil); got != http.StatusOK {
			t.Fatalf("got %d", got)
		}
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.Wrap(cause, http.StatusInternalServerError, "upload failed")
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if err.Error() != "upload failed: disk full" {
		t.Fatalf("got %q", err.Error())
	}
}
