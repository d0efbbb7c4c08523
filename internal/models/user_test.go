package models

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user WebLogUser
		want string
	}{
		{
			name: "preferred name wins",
			user: WebLogUser{FirstName: "Ada", LastName: "Lovelace", PreferredName: "Ada L."},
			want: "Ada L.",
		},
		{
			name: "falls back to first and last",
			user: WebLogUser{FirstName: "Ada", LastName: "Lovelace"},
			want: "Ada Lovelace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHasAccess(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  string
		ok    bool
	}{
		{"same level", AccessEditor, AccessEditor, true},
		{"higher level", AccessAdministrator, AccessAuthor, true},
		{"lower level", AccessAuthor, AccessWebLogAdmin, false},
		{"unknown stored level", "Owner", AccessAuthor, false},
		{"unknown required level", AccessAdministrator, "Owner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := WebLogUser{AccessLevel: tt.level}
			if got := user.HasAccess(tt.want); got != tt.ok {
				t.Fatalf("HasAccess(%q) with %q: expected %v, got %v",
					tt.want, tt.level, tt.ok, got)
			}
		})
	}
}

func TestSetAndVerifyPassword(t *testing.T) {
	var user WebLogUser
	if err := user.SetPassword("correct horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if user.PasswordHash == "correct horse" {
		t.Fatal("password stored in clear text")
	}
	if !user.VerifyPassword("correct horse") {
		t.Fatal("expected the set password to verify")
	}
	if user.VerifyPassword("battery staple") {
		t.Fatal("expected a wrong password to fail")
	}
}
