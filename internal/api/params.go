// internal/api/params.go

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// IDParam parses a positive integer URL parameter.  Malformed ids are
// reported as 404 so they look the same as unknown ones.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, Errorf(http.StatusNotFound, "not found")
	}
	return id, nil
}
