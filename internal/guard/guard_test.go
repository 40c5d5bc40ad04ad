package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcostaira/drgestao-admcli/internal/guard"
)

type fakeAuthz struct {
	ready         bool
	authenticated bool
	level         int
	permissions   map[string]bool
}

func (f *fakeAuthz) Ready() bool           { return f.ready }
func (f *fakeAuthz) IsAuthenticated() bool { return f.authenticated }

func (f *fakeAuthz) HasLevel(required int) bool {
	return f.authenticated && f.level <= required
}

func (f *fakeAuthz) HasPermission(permission string) bool {
	return f.authenticated && f.permissions[permission]
}

func TestGateEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		authz    fakeAuthz
		req      guard.Requirement
		expected guard.Decision
	}{
		{
			name:     "Bootstrap in flight wins over everything",
			authz:    fakeAuthz{ready: false, authenticated: true, level: 1},
			req:      guard.Requirement{Level: 1},
			expected: guard.Checking,
		},
		{
			name:     "Unauthenticated short-circuits later checks",
			authz:    fakeAuthz{ready: true, authenticated: false},
			req:      guard.Requirement{Level: 1, Permission: "users.read"},
			expected: guard.DeniedUnauthenticated,
		},
		{
			name:     "Insufficient level",
			authz:    fakeAuthz{ready: true, authenticated: true, level: 3},
			req:      guard.Requirement{Level: 2},
			expected: guard.DeniedLevel,
		},
		{
			name:     "Level passes but permission missing",
			authz:    fakeAuthz{ready: true, authenticated: true, level: 2, permissions: map[string]bool{}},
			req:      guard.Requirement{Level: 2, Permission: "logs.read"},
			expected: guard.DeniedPermission,
		},
		{
			name: "All checks pass",
			authz: fakeAuthz{
				ready: true, authenticated: true, level: 2,
				permissions: map[string]bool{"logs.read": true},
			},
			req:      guard.Requirement{Level: 2, Permission: "logs.read"},
			expected: guard.Granted,
		},
		{
			name:     "No requirements grants any authenticated user",
			authz:    fakeAuthz{ready: true, authenticated: true, level: 4},
			req:      guard.Requirement{},
			expected: guard.Granted,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			authz := tt.authz
			gate := guard.NewGate(&authz)

			decision := gate.Evaluate(tt.req)

			require.Equal(t, tt.expected, decision)
			require.Equal(t, tt.expected == guard.Granted, decision.Allowed())
		})
	}
}

func TestGateReEvaluatesEveryCall(t *testing.T) {
	t.Parallel()

	authz := &fakeAuthz{ready: true, authenticated: true, level: 2}
	gate := guard.NewGate(authz)

	require.Equal(t, guard.Granted, gate.Evaluate(guard.Requirement{Level: 2}))

	// session changed between navigations: decision must follow
	authz.authenticated = false
	require.Equal(t, guard.DeniedUnauthenticated, gate.Evaluate(guard.Requirement{Level: 2}))
}

func TestDecisionString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "checking", guard.Checking.String())
	require.Equal(t, "granted", guard.Granted.String())
	require.Equal(t, "denied-level", guard.DeniedLevel.String())
	require.Equal(t, "unknown", guard.Decision(42).String())
}
