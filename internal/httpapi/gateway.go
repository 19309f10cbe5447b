package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"spgate.dev/internal/audit"
	"spgate.dev/internal/auth"
	"spgate.dev/internal/obs"
	"spgate.dev/internal/proc"
)

// loginOTPProcedure is the one procedure whose successful result also
// mints the access/refresh token pair.
const loginOTPProcedure = "sp_u_user_login_otp_verify"

// handleGateway is the universal stored-procedure executor: resolve the
// route, type the parameters, stamp the caller identity, execute, and
// reshape the result.
func (a *API) handleGateway(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.routes.Resolve(r.URL.Path, r.Method)
	if !ok {
		writeError(w, http.StatusNotFound, "Route configuration not found")
		return
	}

	params := extractParams(r)
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		auth.InjectIdentity(params, identity)
	}

	typed := proc.Infer(params)
	outputs := proc.OutputsFor(entry.OutputParams)

	start := time.Now()
	res, err := a.exec.Exec(r.Context(), entry.Procedure, typed, outputs)
	if err != nil {
		obs.ObserveProcedure(entry.Procedure, "error", time.Since(start))
		status, message := proc.MapError(err)
		obs.Logger().WithFields(map[string]any{
			"procedure":  entry.Procedure,
			"status":     status,
			"request_id": audit.RequestIDFromContext(r.Context()),
		}).Warn("procedure execution failed")
		writeError(w, status, message)
		return
	}
	obs.ObserveProcedure(entry.Procedure, "ok", time.Since(start))

	data := proc.PostProcessRecords(res.Recordset)

	// Single-row procedures returning nothing are a miss, not a success.
	if singleRowExpected(entry.Procedure) && len(data) == 0 {
		writeError(w, http.StatusNotFound, "Data not found")
		return
	}

	resp := Response{
		Success: true,
		Data:    data,
		Output:  proc.PostProcess(res.Output),
	}
	if entry.Procedure == loginOTPProcedure && len(data) > 0 {
		a.attachLoginTokens(r.Context(), &resp, data[0])
	}
	writeJSON(w, http.StatusOK, resp)
}

// attachLoginTokens mints the access/refresh pair from the verified user
// row. A minting failure downgrades the response to a token-less success
// rather than failing the login.
func (a *API) attachLoginTokens(ctx context.Context, resp *Response, userData map[string]any) {
	access, err := a.tokens.Issue(userData, a.accessTTL)
	if err != nil {
		obs.Logger().WithError(err).Error("access token issuance failed")
		return
	}
	refresh, err := a.tokens.Issue(userData, a.refreshTTL)
	if err != nil {
		obs.Logger().WithError(err).Error("refresh token issuance failed")
		return
	}

	resp.AccessToken = access.Token
	resp.AccessExpiry = &access.ExpiresAt
	resp.RefreshToken = refresh.Token
	resp.RefreshExpiry = &refresh.ExpiresAt

	_ = audit.LogEvent(ctx, "auth.token.issued", map[string]any{
		"access_expiry":  access.ExpiresAt.Format(time.RFC3339),
		"refresh_expiry": refresh.ExpiresAt.Format(time.RFC3339),
	})
}

// extractParams sources raw parameters from the query string for
// GET/DELETE and from the JSON body for POST/PUT, unwrapping an optional
// nested "parameters" field. A malformed body yields an empty set, not an
// error, matching the lenient boundary contract.
func extractParams(r *http.Request) map[string]any {
	if r.Method == http.MethodGet || r.Method == http.MethodDelete {
		params := make(map[string]any, len(r.URL.Query()))
		for name, values := range r.URL.Query() {
			if len(values) > 0 {
				params[name] = values[0]
			}
		}
		return params
	}

	var body map[string]any
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			body = nil
		}
	}
	if body == nil {
		return map[string]any{}
	}
	if nested, ok := body["parameters"].(map[string]any); ok {
		return nested
	}
	return body
}

// singleRowExpected matches the sp_s_ naming convention for procedures
// that must return exactly one row; sp_sa_ (select-all) is excluded.
func singleRowExpected(procedure string) bool {
	return strings.HasPrefix(procedure, "sp_s_") && !strings.HasPrefix(procedure, "sp_sa_")
}
