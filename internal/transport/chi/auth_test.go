package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys", nil, "/index/catalogs", "", http.StatusOK},
		{"empty string keys", []string{"", ""}, "/index/catalogs", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/index/catalogs", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/index/catalogs", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"invalid token", []string{"secret"}, "/index/catalogs", "Bearer wrong-key", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "/index/catalogs", "Bearer secret", http.StatusOK},
		{"second key", []string{"key1", "key2"}, "/index/catalogs", "Bearer key2", http.StatusOK},
		{"health exempt", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics exempt", []string{"secret"}, "/metrics", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tt.keys)(okHandler())

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != CodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, CodeUnauthorized)
			}
		})
	}
}
