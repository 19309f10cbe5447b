// Package token implements the stateless two-layer token scheme: the
// payload is AES-256-CBC encrypted, then the ciphertext is wrapped in a
// signed, expiring JWT envelope. Signature verification and decryption are
// deliberately separate steps so their failure modes stay distinguishable.
package token

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired indicates the envelope's expiry claim has passed.
	ErrExpired = errors.New("token: expired")
	// ErrInvalid covers every other failure: signature, format,
	// decryption, or malformed payload.
	ErrInvalid = errors.New("token: invalid")
)

// ExpClaimField is attached to verified payloads so callers can see the
// envelope expiry without re-parsing the token.
const ExpClaimField = "_tokenExp"

const ivLength = aes.BlockSize

// Issued is a minted token together with its expiry. ExpiresAt is computed
// as now+ttl and exactly tracks the exp claim inside the envelope.
type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Scheme holds the shared secret and signing configuration. The AES key is
// derived once by hashing the secret.
type Scheme struct {
	secret []byte
	key    []byte
	alg    string
	method jwt.SigningMethod
	now    func() time.Time
}

// NewScheme builds a Scheme. The algorithm defaults to HS256.
func NewScheme(secret, alg string) (*Scheme, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: secret is required")
	}
	if alg == "" {
		alg = "HS256"
	}
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", alg)
	}
	key := sha256.Sum256([]byte(secret))
	return &Scheme{
		secret: []byte(secret),
		key:    key[:],
		alg:    alg,
		method: method,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source. Used by tests.
func (s *Scheme) WithClock(fn func() time.Time) *Scheme {
	if fn != nil {
		s.now = fn
	}
	return s
}

// Issue encrypts payload and signs it into an expiring envelope.
func (s *Scheme) Issue(payload any, ttl time.Duration) (Issued, error) {
	encrypted, err := s.EncryptPayload(payload)
	if err != nil {
		return Issued{}, err
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"data": encrypted,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("token: sign: %w", err)
	}
	return Issued{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the envelope (signature + expiry) and then decrypts the
// embedded payload. The envelope expiry is attached to the returned payload
// under the _tokenExp field.
func (s *Scheme) Verify(tokenStr string) (map[string]any, error) {
	parsed, err := jwt.Parse(tokenStr,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.alg}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalid
	}
	data, ok := claims["data"].(string)
	if !ok || data == "" {
		return nil, ErrInvalid
	}

	plaintext, err := s.DecryptPayload(data)
	if err != nil {
		return nil, ErrInvalid
	}
	var payload map[string]any
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, ErrInvalid
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		payload[ExpClaimField] = exp.Unix()
	}
	return payload, nil
}

// EncryptPayload serializes payload to JSON and encrypts it with
// AES-256-CBC under a fresh random IV. The output form is
// base64(iv) ":" base64(ciphertext).
func (s *Scheme) EncryptPayload(payload any) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("token: marshal payload: %w", err)
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("token: generate iv: %w", err)
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(iv) + ":" +
		base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptPayload reverses EncryptPayload and returns the JSON plaintext.
func (s *Scheme) DecryptPayload(encoded string) ([]byte, error) {
	ivPart, ctPart, ok := strings.Cut(encoded, ":")
	if !ok {
		return nil, ErrInvalid
	}
	iv, err := base64.StdEncoding.DecodeString(ivPart)
	if err != nil || len(iv) != ivLength {
		return nil, ErrInvalid
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ctPart)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalid
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalid
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalid
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalid
		}
	}
	return data[:len(data)-n], nil
}
