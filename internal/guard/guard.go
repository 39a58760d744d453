package guard

// Redirect targets for denied navigations.
const (
	SignInPath       = "/auth/signin"
	UnauthorizedPath = "/unauthorized"
)

// publicPrefixes are reachable without a session: the sign-in screen and
// the password-reset family.
var publicPrefixes = []string{
	"/auth/signin",
	"/auth/forgot-password",
	"/auth/reset-password",
}

type Decision int

const (
	Allowed Decision = iota
	RedirectSignIn
	RedirectUnauthorized
)

// Target returns the path a denied navigation should land on, or "" when
// the navigation is allowed.
func (d Decision) Target() string {
	switch d {
	case RedirectSignIn:
		return SignInPath
	case RedirectUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}

// Route describes a navigation attempt.
type Route struct {
	Path              string
	RequireSuperAdmin bool
}

// Session is the slice of the session store the guard needs.
type Session interface {
	IsAuthenticated() bool
	IsSuperAdmin() bool
}

// Guard gates navigation on session state. Decisions are recomputed on
// every call; nothing is cached across routes.
type Guard struct {
	sessions Session
}

func New(sessions Session) *Guard {
	return &Guard{sessions: sessions}
}

func (g *Guard) Check(route Route) Decision {
	for _, prefix := range publicPrefixes {
		if hasPrefix(route.Path, prefix) {
			return Allowed
		}
	}

	if !g.sessions.IsAuthenticated() {
		return RedirectSignIn
	}
	if route.RequireSuperAdmin && !g.sessions.IsSuperAdmin() {
		return RedirectUnauthorized
	}
	return Allowed
}

func hasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && path[:len(prefix)] == prefix
}
