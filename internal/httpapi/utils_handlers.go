package httpapi

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"net/http"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"spgate.dev/internal/obs"
)

const (
	barcodeWidth  = 300
	barcodeHeight = 80
)

// handleBarcode renders the text query parameter as a Code 128 barcode
// and returns it as a PNG data URI.
func (a *API) handleBarcode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	text := r.URL.Query().Get("text")
	if text == "" {
		writeError(w, http.StatusBadRequest, "Barcode text required")
		return
	}

	code, err := code128.Encode(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Barcode generation failed")
		return
	}
	scaled, err := barcode.Scale(code, barcodeWidth, barcodeHeight)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Barcode generation failed")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		obs.Logger().WithError(err).Error("barcode png encoding failed")
		writeError(w, http.StatusInternalServerError, "Barcode generation failed")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]any{
			"barcode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		},
	})
}

type smsRequest struct {
	Mobile  string `json:"mobile"`
	Message string `json:"message"`
}

// handleSMS relays a one-off text message through the SMS provider.
func (a *API) handleSMS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req smsRequest
	if err := decodeJSON(r, &req); err != nil || req.Mobile == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Mobile number and message required")
		return
	}

	ok, err := a.sms.Send(r.Context(), req.Mobile, req.Message)
	if err != nil {
		obs.Logger().WithError(err).Error("sms delivery failed")
		writeError(w, http.StatusBadGateway, "SMS delivery failed")
		return
	}
	if !ok {
		writeError(w, http.StatusBadGateway, "SMS rejected by provider")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "SMS sent"})
}
