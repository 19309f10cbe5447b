package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"spgate.dev/internal/audit"
	"spgate.dev/internal/auth"
	"spgate.dev/internal/obs"
)

var publicPaths = []string{
	"/healthz",
	"/metrics",
}

// gateBypassed reports whether the path is a pre-authentication endpoint.
// Login and refresh flows cannot carry a token yet.
func gateBypassed(path string) bool {
	return strings.Contains(path, "/login") ||
		strings.Contains(path, "/refresh-token") ||
		path == "/auth/renew-token"
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) || gateBypassed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := a.gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			status, message := authErrorStatus(err)
			obs.Logger().WithFields(map[string]any{
				"path":       r.URL.Path,
				"status":     status,
				"request_id": audit.RequestIDFromContext(r.Context()),
			}).Warn("request rejected by auth gate")
			_ = audit.LogEvent(r.Context(), "auth.rejected", map[string]any{
				"path":   r.URL.Path,
				"reason": message,
			})
			writeError(w, status, message)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
	})
}

// authErrorStatus translates gate sentinels into the wire status/message
// pairs clients depend on.
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrTokenRequired):
		return http.StatusUnauthorized, "Access Token Required"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "Token Expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid Token"
	case errors.Is(err, auth.ErrInvalidPayload):
		return http.StatusUnauthorized, "Invalid Token Payload"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, auth.ErrDeactivated):
		return http.StatusForbidden, "Account Deactivated. Please contact admin."
	default:
		return http.StatusInternalServerError, "Authentication Error"
	}
}
