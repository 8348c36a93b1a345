package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParsePermission(t *testing.T) {
	cases := []struct {
		in   string
		want Permission
	}{
		{"", PermissionUser},
		{"user", PermissionUser},
		{"admin", PermissionAdmin},
		{"root", PermissionRoot},
	}
	for _, tc := range cases {
		got, err := ParsePermission(tc.in)
		if err != nil {
			t.Fatalf("ParsePermission(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePermission(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParsePermission("superuser"); !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestPermission_CanGrant(t *testing.T) {
	cases := []struct {
		operator  Permission
		requested Permission
		want      bool
	}{
		{PermissionUser, PermissionUser, true},
		{PermissionUser, PermissionAdmin, false},
		{PermissionUser, PermissionRoot, false},
		{PermissionAdmin, PermissionUser, true},
		{PermissionAdmin, PermissionAdmin, true},
		{PermissionAdmin, PermissionRoot, false},
		{PermissionRoot, PermissionUser, true},
		{PermissionRoot, PermissionAdmin, true},
		{PermissionRoot, PermissionRoot, true},
	}
	for _, tc := range cases {
		if got := tc.operator.CanGrant(tc.requested); got != tc.want {
			t.Fatalf("%v.CanGrant(%v) = %v, want %v", tc.operator, tc.requested, got, tc.want)
		}
	}
}

func TestPermission_JSONRoundTrip(t *testing.T) {
	for _, p := range []Permission{PermissionUser, PermissionAdmin, PermissionRoot} {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal %v: %v", p, err)
		}
		var got Permission
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != p {
			t.Fatalf("round trip %v -> %s -> %v", p, data, got)
		}
	}

	var p Permission
	if err := json.Unmarshal([]byte(`"emperor"`), &p); err == nil {
		t.Fatalf("expected error for unknown permission")
	}
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := User{ID: "1", Username: "alice", PasswordHash: "$2a$10$secret", Permission: PermissionAdmin}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, leaked := fields["password_hash"]; leaked {
		t.Fatalf("password hash leaked in JSON: %s", data)
	}
	for _, v := range fields {
		if s, ok := v.(string); ok && s == u.PasswordHash {
			t.Fatalf("password hash leaked under another key: %s", data)
		}
	}
	if fields["username"] != "alice" || fields["permission"] != "admin" {
		t.Fatalf("unexpected projection: %s", data)
	}
}
