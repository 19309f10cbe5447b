package httpapi

import (
	"net/http"
	"time"

	"spgate.dev/internal/audit"
	"spgate.dev/internal/obs"
	"spgate.dev/internal/token"
)

type renewTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleRenewToken exchanges a valid refresh token for a fresh access
// token. The refresh token itself is not rotated.
func (a *API) handleRenewToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req renewTokenRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh token required")
		return
	}

	payload, err := a.tokens.Verify(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or Expired Refresh Token")
		return
	}
	delete(payload, token.ExpClaimField)

	access, err := a.tokens.Issue(payload, a.accessTTL)
	if err != nil {
		obs.Logger().WithError(err).Error("access token renewal failed")
		writeError(w, http.StatusInternalServerError, "Token Renewal Failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.token.renewed", map[string]any{
		"access_expiry": access.ExpiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, Response{
		Success:      true,
		AccessToken:  access.Token,
		AccessExpiry: &access.ExpiresAt,
	})
}
