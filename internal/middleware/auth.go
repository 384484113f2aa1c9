package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ray-u/bare-photos/internal/metrics"

	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds basic auth credentials. An empty User disables auth.
type AuthConfig struct {
	User     string
	Password string
	Realm    string
	// SkipPaths are served without credentials (health probes).
	SkipPaths []string
}

// IsBcryptHash reports whether s looks like a bcrypt hash ($2a$, $2b$, $2y$).
func IsBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2") && len(s) == 60
}

// checkPassword compares a supplied password with the configured one.
// Hashed passwords are verified with bcrypt, plain ones in constant time.
func (c AuthConfig) checkPassword(supplied string) bool {
	if IsBcryptHash(c.Password) {
		return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.Password), []byte(supplied)) == 1
}

// BasicAuth returns middleware requiring HTTP basic auth credentials.
func BasicAuth(config AuthConfig) func(http.Handler) http.Handler {
	realm := config.Realm
	if realm == "" {
		realm = "bare-photos"
	}
	challenge := `Basic realm="` + realm + `", charset="UTF-8"`

	return func(next http.Handler) http.Handler {
		if config.User == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range config.SkipPaths {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				metrics.AuthFailures.WithLabelValues("missing").Inc()
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(config.User), []byte(user)) == 1
			passOK := config.checkPassword(pass)
			if !userOK || !passOK {
				metrics.AuthFailures.WithLabelValues("invalid").Inc()
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
