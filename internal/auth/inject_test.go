package auth

import (
	"context"
	"testing"
)

func TestInjectIdentityOverwritesExistingKeys(t *testing.T) {
	params := map[string]any{
		"created_by": "999",
		"user_id":    float64(1),
		"note":       "unchanged",
	}
	InjectIdentity(params, Identity{UserID: 42})

	if params["created_by"] != int64(42) || params["user_id"] != int64(42) {
		t.Fatalf("identity keys not overwritten: %v", params)
	}
	if params["note"] != "unchanged" {
		t.Fatalf("unrelated key modified: %v", params["note"])
	}
}

func TestInjectIdentityNeverInsertsKeys(t *testing.T) {
	params := map[string]any{"name": "Ada"}
	InjectIdentity(params, Identity{UserID: 42})

	if len(params) != 1 {
		t.Fatalf("keys were inserted: %v", params)
	}
	for _, key := range injectedKeys {
		if _, ok := params[key]; ok {
			t.Fatalf("key %s was inserted", key)
		}
	}
}

func TestInjectIdentityZeroUser(t *testing.T) {
	params := map[string]any{"created_by": "999"}
	InjectIdentity(params, Identity{})
	if params["created_by"] != "999" {
		t.Fatalf("zero identity must not inject: %v", params)
	}
	InjectIdentity(nil, Identity{UserID: 1}) // must not panic
}

func TestContextHelpers(t *testing.T) {
	identity := Identity{UserID: 7, DisplayName: "Sam", IsActive: true, Role: "viewer"}
	ctx := ContextWithIdentity(context.Background(), identity)

	got, ok := IdentityFromContext(ctx)
	if !ok || got != identity {
		t.Fatalf("got (%+v, %v)", got, ok)
	}
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity on empty context")
	}
}
