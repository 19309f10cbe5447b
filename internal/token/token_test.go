package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestScheme(t *testing.T) *Scheme {
	t.Helper()
	s, err := NewScheme("unit-test-secret", "HS256")
	if err != nil {
		t.Fatalf("NewScheme: %v", err)
	}
	return s
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	s := newTestScheme(t)

	payload := map[string]any{
		"user_id":      float64(42),
		"display_name": "Jordan",
		"user_role":    "admin",
	}
	issued, err := s.Issue(payload, 15*time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if until := time.Until(issued.ExpiresAt); until < 14*time.Minute || until > 15*time.Minute {
		t.Fatalf("unexpected expiry: %v", issued.ExpiresAt)
	}

	got, err := s.Verify(issued.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	for k, want := range payload {
		if got[k] != want {
			t.Fatalf("payload field %s = %v, want %v", k, got[k], want)
		}
	}
	exp, ok := got[ExpClaimField].(int64)
	if !ok {
		t.Fatalf("expected %s on payload, got %T", ExpClaimField, got[ExpClaimField])
	}
	if exp != issued.ExpiresAt.Unix() {
		t.Fatalf("%s = %d, want %d", ExpClaimField, exp, issued.ExpiresAt.Unix())
	}
}

func TestVerifyExpired(t *testing.T) {
	s := newTestScheme(t)

	issuedAt := time.Now().Add(-time.Hour)
	s.WithClock(func() time.Time { return issuedAt })
	issued, err := s.Issue(map[string]any{"user_id": 1}, 30*time.Second)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	s.WithClock(time.Now)
	if _, err := s.Verify(issued.Token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	s := newTestScheme(t)
	issued, err := s.Issue(map[string]any{"user_id": 7}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one byte in each JWT segment: header, payload, signature.
	parts := strings.Split(issued.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	for i := range parts {
		mutated := make([]string, 3)
		copy(mutated, parts)
		seg := []byte(mutated[i])
		if seg[0] == 'A' {
			seg[0] = 'B'
		} else {
			seg[0] = 'A'
		}
		mutated[i] = string(seg)
		if _, err := s.Verify(strings.Join(mutated, ".")); !errors.Is(err, ErrInvalid) {
			t.Fatalf("segment %d: expected ErrInvalid, got %v", i, err)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	s := newTestScheme(t)
	other, err := NewScheme("another-secret", "HS256")
	if err != nil {
		t.Fatalf("NewScheme: %v", err)
	}
	issued, err := other.Issue(map[string]any{"user_id": 9}, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := s.Verify(issued.Token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecryptPayloadRejectsCorruption(t *testing.T) {
	s := newTestScheme(t)
	encrypted, err := s.EncryptPayload(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("EncryptPayload: %v", err)
	}

	cases := map[string]string{
		"missing separator":    strings.ReplaceAll(encrypted, ":", ""),
		"truncated ciphertext": encrypted[:len(encrypted)-8],
		"empty ciphertext":     strings.SplitN(encrypted, ":", 2)[0] + ":",
		"garbage iv":           "bm90LWFuLWl2:" + strings.SplitN(encrypted, ":", 2)[1],
	}
	for name, mutated := range cases {
		if _, err := s.DecryptPayload(mutated); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestEncryptPayloadFreshIV(t *testing.T) {
	s := newTestScheme(t)
	a, err := s.EncryptPayload(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("EncryptPayload: %v", err)
	}
	b, err := s.EncryptPayload(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("EncryptPayload: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct ciphertexts for identical payloads")
	}
}

func TestNewSchemeValidation(t *testing.T) {
	if _, err := NewScheme("", "HS256"); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewScheme("secret", "bogus"); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}
