package auth

// Identity is the authenticated caller's record, loaded fresh from storage
// on every request and never cached beyond request scope.
type Identity struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	IsActive    bool   `json:"is_active"`
	Role        string `json:"user_role"`
}
