// Package httpapi is the HTTP boundary of the gateway: a catch-all
// handler resolves requests against the route table and funnels them into
// the stored-procedure pipeline.
package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"spgate.dev/internal/auth"
	"spgate.dev/internal/config"
	"spgate.dev/internal/notify"
	"spgate.dev/internal/obs"
	"spgate.dev/internal/proc"
	"spgate.dev/internal/routes"
	"spgate.dev/internal/token"
)

// API wires the route table, auth gate, procedure executor and token
// scheme into one HTTP handler.
type API struct {
	mux    *http.ServeMux
	cfg    *config.Config
	routes *routes.Table
	gate   *auth.Gate
	tokens *token.Scheme
	exec   *proc.Executor
	sms    *notify.SMSClient

	version    string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New builds the API. All collaborators are injected so tests can swap in
// a fake pool.
func New(cfg *config.Config, db *sql.DB, table *routes.Table, tokens *token.Scheme, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		cfg:        cfg,
		routes:     table,
		gate:       auth.NewGate(db, tokens),
		tokens:     tokens,
		exec:       proc.NewExecutor(db),
		sms:        notify.NewSMSClient(""),
		version:    version,
		accessTTL:  time.Duration(cfg.Token.AccessTTL) * time.Second,
		refreshTTL: time.Duration(cfg.Token.RefreshTTL) * time.Second,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/auth/renew-token", a.handleRenewToken)
	a.mux.HandleFunc("/utils/barcode", a.handleBarcode)
	a.mux.HandleFunc("/utils/sms", a.handleSMS)

	// Everything else resolves through the route table.
	a.mux.HandleFunc("/", a.handleGateway)

	return a
}

// Handler returns the full middleware-wrapped handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.withAuth(a.mux)
	h = MaxBodyBytes(h, a.cfg.Server.MaxBodyBytes)
	if a.cfg.Server.RatePerSecond > 0 {
		h = RateLimit(h, a.cfg.Server.RateBurst, a.cfg.Server.RatePerSecond)
	}
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// Healthz is the fixed health-check response.
func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "spgate-api",
		"version": a.version,
	})
}
