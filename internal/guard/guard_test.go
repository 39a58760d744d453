package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	authenticated bool
	superAdmin    bool
}

func (f fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f fakeSession) IsSuperAdmin() bool    { return f.superAdmin }

func TestCheck(t *testing.T) {
	anonymous := fakeSession{}
	admin := fakeSession{authenticated: true}
	superAdmin := fakeSession{authenticated: true, superAdmin: true}

	tests := []struct {
		name    string
		session fakeSession
		route   Route
		want    Decision
	}{
		{"signin is public", anonymous, Route{Path: "/auth/signin"}, Allowed},
		{"forgot password is public", anonymous, Route{Path: "/auth/forgot-password"}, Allowed},
		{"reset link is public", anonymous, Route{Path: "/auth/reset-password/tok-123"}, Allowed},
		{"anonymous dashboard", anonymous, Route{Path: "/videos"}, RedirectSignIn},
		{"anonymous admin area", anonymous, Route{Path: "/admins", RequireSuperAdmin: true}, RedirectSignIn},
		{"admin dashboard", admin, Route{Path: "/videos"}, Allowed},
		{"admin in admin area", admin, Route{Path: "/admins", RequireSuperAdmin: true}, RedirectUnauthorized},
		{"super admin in admin area", superAdmin, Route{Path: "/admins", RequireSuperAdmin: true}, Allowed},
		{"signed in visiting signin", superAdmin, Route{Path: "/auth/signin"}, Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.session).Check(tt.route))
		})
	}
}

func TestDecisionTarget(t *testing.T) {
	assert.Equal(t, "", Allowed.Target())
	assert.Equal(t, SignInPath, RedirectSignIn.Target())
	assert.Equal(t, UnauthorizedPath, RedirectUnauthorized.Target())
}
