package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ray-u/bare-photos/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !IsBcryptHash(string(hash)) {
		t.Errorf("IsBcryptHash(%q) = false", hash)
	}
	for _, s := range []string{"", "secret", "$2short"} {
		if IsBcryptHash(s) {
			t.Errorf("IsBcryptHash(%q) = true", s)
		}
	}
}

func TestBasicAuthDisabled(t *testing.T) {
	handler := BasicAuth(AuthConfig{})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/photos", http.NoBody))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", w.Code)
	}
}

func TestBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		password string
		user     string
		pass     string
		noCreds  bool
		path     string
		want     int
	}{
		{name: "plain ok", password: "hunter2", user: "alice", pass: "hunter2", want: http.StatusOK},
		{name: "plain wrong password", password: "hunter2", user: "alice", pass: "nope", want: http.StatusUnauthorized},
		{name: "wrong user", password: "hunter2", user: "bob", pass: "hunter2", want: http.StatusUnauthorized},
		{name: "bcrypt ok", password: string(hash), user: "alice", pass: "hunter2", want: http.StatusOK},
		{name: "bcrypt wrong", password: string(hash), user: "alice", pass: string(hash), want: http.StatusUnauthorized},
		{name: "no credentials", password: "hunter2", noCreds: true, want: http.StatusUnauthorized},
		{name: "skipped path", password: "hunter2", noCreds: true, path: "/healthz", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BasicAuth(AuthConfig{
				User:      "alice",
				Password:  tt.password,
				SkipPaths: []string{"/healthz"},
			})(okHandler())

			path := tt.path
			if path == "" {
				path = "/api/photos"
			}
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			if !tt.noCreds {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate challenge")
			}
		})
	}
}

func TestBasicAuthFailureMetric(t *testing.T) {
	before := testutil.ToFloat64(metrics.AuthFailures.WithLabelValues("missing"))

	handler := BasicAuth(AuthConfig{User: "alice", Password: "pw"})(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/photos", http.NoBody))

	if got := testutil.ToFloat64(metrics.AuthFailures.WithLabelValues("missing")); got != before+1 {
		t.Errorf("auth failures = %v, want %v", got, before+1)
	}
}
