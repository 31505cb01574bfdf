package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestValidateText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"empty", "", nil},
		{"short", "hello", nil},
		{"at limit", strings.Repeat("a", MaxTextLength), nil},
		{"multibyte at limit", strings.Repeat("é", MaxTextLength), nil},
		{"over limit", strings.Repeat("a", MaxTextLength+1), ErrTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateText(tt.text); err != tt.wantErr {
				t.Errorf("ValidateText() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{"6f1c2e2a-4a7b-4f0e-9d7c-2b8a1f0e3c4d", true},
		{"6F1C2E2A-4A7B-4F0E-9D7C-2B8A1F0E3C4D", true},
		{"", false},
		{"123", false},
		{"6f1c2e2a4a7b4f0e9d7c2b8a1f0e3c4d", false},
		{"urn:uuid:6f1c2e2a-4a7b-4f0e-9d7c-2b8a1f0e3c4d", false},
		{"6f1c2e2a-4a7b-4f0e-9d7c-2b8a1f0e3c4z", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			if got := IsValidID(tt.id); got != tt.want {
				t.Errorf("IsValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidateIDParam(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.With(ValidateIDParam("id", "Rewrite not found")).Get("/api/rewrites/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/rewrites/6f1c2e2a-4a7b-4f0e-9d7c-2b8a1f0e3c4d", http.StatusOK},
		{"/api/rewrites/not-a-uuid", http.StatusNotFound},
		{"/api/rewrites/1", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
		if tt.wantStatus == http.StatusNotFound && rec.Body.String() != `{"error":"Rewrite not found"}` {
			t.Errorf("%s: body = %q", tt.path, rec.Body.String())
		}
	}
}
