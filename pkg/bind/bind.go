// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/validate"
)

func maxBodyBytes() int64 {
	if n := int64(config.Int("MAX_BODY_BYTES", 1<<20)); n > 0 {
		return n
	}
	return 1 << 20
}

// JSON decodes r.Body into dest and validates it.
// It returns (errs, nil) on validation failures and (nil, err) when the body
// is missing, malformed or larger than MAX_BODY_BYTES (default 1 MB).
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if r.Body == nil {
		return nil, errors.New("request body is required")
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, errors.New("request body is required")
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
