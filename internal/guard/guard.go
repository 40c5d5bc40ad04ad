// Package guard gates protected views. Every navigation re-evaluates the
// gate from scratch: level and permission requirements differ per route, so
// a decision is never cached across navigations.
package guard

type Decision int

const (
	Checking Decision = iota
	DeniedUnauthenticated
	DeniedLevel
	DeniedPermission
	Granted
)

func (d Decision) String() string {
	switch d {
	case Checking:
		return "checking"
	case DeniedUnauthenticated:
		return "denied-unauthenticated"
	case DeniedLevel:
		return "denied-level"
	case DeniedPermission:
		return "denied-permission"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Granted reports whether the decision allows rendering the view.
func (d Decision) Allowed() bool {
	return d == Granted
}

// Requirement declares what a protected view demands. Zero values mean "no
// check": Level 0 skips the level check, an empty Permission skips the
// permission check.
type Requirement struct {
	Level      int
	Permission string
}

// Authorizer is the slice of the auth service the gate consults.
type Authorizer interface {
	Ready() bool
	IsAuthenticated() bool
	HasLevel(requiredLevel int) bool
	HasPermission(permission string) bool
}

type Gate struct {
	authz Authorizer
}

func NewGate(authz Authorizer) *Gate {
	return &Gate{authz: authz}
}

// Evaluate walks the decision ladder in order: session bootstrap, then
// authentication, then level, then permission. The first failing rung
// decides; later checks never run.
func (g *Gate) Evaluate(req Requirement) Decision {
	if !g.authz.Ready() {
		return Checking
	}

	if !g.authz.IsAuthenticated() {
		return DeniedUnauthenticated
	}

	if req.Level > 0 && !g.authz.HasLevel(req.Level) {
		return DeniedLevel
	}

	if req.Permission != "" && !g.authz.HasPermission(req.Permission) {
		return DeniedPermission
	}

	return Granted
}
