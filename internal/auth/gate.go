package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"spgate.dev/internal/token"
)

const bearerPrefix = "Bearer "

// identityQuery re-confirms the subject against storage on every request.
const identityQuery = `SELECT user_id, display_name, is_active, user_role FROM user_management WHERE user_id = @user_id`

// Gate verifies the token envelope and re-checks the subject's active
// status against the database before a request is allowed through.
type Gate struct {
	db     *sql.DB
	tokens *token.Scheme
}

// NewGate wires the gate to the connection pool and token scheme.
func NewGate(db *sql.DB, tokens *token.Scheme) *Gate {
	return &Gate{db: db, tokens: tokens}
}

// Authenticate walks the per-request state machine: header present →
// token verified → identity loaded → active. It short-circuits with a
// sentinel error at the first failing step.
func (g *Gate) Authenticate(ctx context.Context, authHeader string) (Identity, error) {
	raw, err := extractBearerToken(authHeader)
	if err != nil {
		return Identity{}, err
	}

	payload, err := g.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrInvalidToken
	}

	userID, ok := userIDFromPayload(payload)
	if !ok {
		return Identity{}, ErrInvalidPayload
	}

	var (
		identity Identity
		active   activeFlag
	)
	row := g.db.QueryRowContext(ctx, identityQuery, sql.Named("user_id", userID))
	err = row.Scan(&identity.UserID, &identity.DisplayName, &active, &identity.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrUserNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("auth: load identity: %w", err)
	}
	if !active {
		return Identity{}, ErrDeactivated
	}
	identity.IsActive = true
	return identity, nil
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrTokenRequired
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", ErrTokenRequired
	}
	return raw, nil
}

// userIDFromPayload accepts both snake_case and camelCase identity keys,
// matching payloads minted from either convention.
func userIDFromPayload(payload map[string]any) (int64, bool) {
	for _, key := range []string{"user_id", "userId"} {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch id := v.(type) {
		case float64:
			if id != 0 {
				return int64(id), true
			}
		case int64:
			if id != 0 {
				return id, true
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil && n != 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// activeFlag normalizes the stored active marker at the scan boundary:
// some rows carry it as a bit, others as an int.
type activeFlag bool

func (f *activeFlag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = activeFlag(v)
	case int64:
		*f = v != 0
	case []byte:
		*f = len(v) > 0 && v[0] != '0' && v[0] != 0
	default:
		return fmt.Errorf("auth: unsupported is_active type %T", src)
	}
	return nil
}
