package middleware

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MaxTextLength bounds original and rewritten text, in characters.
const MaxTextLength = 20000

// ErrTextTooLong is returned when a text field exceeds MaxTextLength.
var ErrTextTooLong = errors.New("text exceeds maximum length")

// ValidateText checks a user-supplied text field. Empty text is left to the
// service layer, which reports it as a missing field.
func ValidateText(s string) error {
	if utf8.RuneCountInString(s) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// IsValidID reports whether s is a canonical UUID.
func IsValidID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ValidateIDParam rejects requests whose chi URL parameter is not a UUID
// with 404 and the given message, before the value reaches the database.
func ValidateIDParam(param, notFoundMessage string) func(http.Handler) http.Handler {
	body := `{"error":"` + strings.ReplaceAll(notFoundMessage, `"`, `'`) + `"}`
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsValidID(chi.URLParam(r, param)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(body))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
