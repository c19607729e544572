// Package render writes JSON responses and wire-format errors.
package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookswap/internal/shared/apperr"
)

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes err as the {code, message} body the client maps back into
// the taxonomy. Errors outside the taxonomy are masked as internal.
func Error(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.New(apperr.KindInternal, "internal error")
	}
	JSON(w, apperr.HTTPStatus(e), e)
}
