package auth

// injectedKeys are the well-known audit parameter names that get stamped
// with the authenticated caller's id.
var injectedKeys = [...]string{
	"created_by",
	"updated_by",
	"edited_by",
	"user_id",
	"last_edit_by",
}

// InjectIdentity overwrites the well-known keys with the caller's user id.
// Only keys already present in params are touched; inserting a key the
// procedure does not declare would make the call fail with a parameter
// count mismatch.
func InjectIdentity(params map[string]any, identity Identity) {
	if params == nil || identity.UserID == 0 {
		return
	}
	for _, key := range injectedKeys {
		if _, ok := params[key]; ok {
			params[key] = identity.UserID
		}
	}
}
