package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSMS(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(smsResponse{Success: true})
	}))
	defer srv.Close()

	c := NewSMSClient("")
	c.endpoint = srv.URL

	ok, err := c.Send(context.Background(), "+15550001111", "your code is 123456")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !ok {
		t.Fatal("expected provider acceptance")
	}
	if got.Phone != "+15550001111" || got.Message != "your code is 123456" || got.Key != "textbelt" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestSendSMSProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(smsResponse{Success: false, Error: "out of quota"})
	}))
	defer srv.Close()

	c := NewSMSClient("paid-key")
	c.endpoint = srv.URL

	ok, err := c.Send(context.Background(), "+15550001111", "hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ok {
		t.Fatal("expected rejection")
	}
}
