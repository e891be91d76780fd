package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	wrap "github.com/Temutjin2k/carpool-admin/pkg/logger/wrapper"
	"github.com/Temutjin2k/carpool-admin/pkg/token"
)

// Session decodes the admin token, when one is sent, and puts its user id into
// the log context. The token is not verified and a request is never rejected:
// access control belongs to the backend.
func (m *Middleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()

		raw, err := extractBearerToken(header)
		if err != nil {
			m.log.Debug(ctx, "ignoring authorization header", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		claims, err := token.Decode(raw)
		if err != nil {
			m.log.Debug(ctx, "ignoring undecodable session token", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		if claims.UserID != "" {
			ctx = wrap.WithUserID(ctx, claims.UserID)
		}
		if token.IsExpired(raw, time.Now()) {
			m.log.Debug(ctx, "session token is expired")
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// --- header parser ---
func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
