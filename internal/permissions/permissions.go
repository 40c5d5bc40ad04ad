// Package permissions holds the static level/capability table. Levels are
// a total order of privilege: 1 (super-admin) down to 4 (regular user).
// Lower number means more power. All functions are total; unrecognized
// levels fall back to the least privileged set.
package permissions

import "github.com/marcostaira/drgestao-admcli/internal/entity"

// Wildcard grants every capability. Only level 1 holds it.
const Wildcard = "*"

const (
	LevelSuperAdmin = 1
	LevelAdmin      = 2
	LevelOperator   = 3
	LevelUser       = 4
)

var levelPermissions = map[int][]string{
	LevelSuperAdmin: {Wildcard},
	LevelAdmin: {
		"users.read",
		"users.write",
		"users.delete",
		"dashboard.read",
		"reports.read",
		"reports.write",
		"settings.read",
		"settings.write",
		"logs.read",
	},
	LevelOperator: {
		"users.read",
		"users.write",
		"dashboard.read",
		"reports.read",
		"settings.read",
	},
	LevelUser: {
		"dashboard.read",
		"profile.read",
		"profile.write",
	},
}

var levelRoles = map[int]entity.Role{
	LevelSuperAdmin: entity.RoleSuperAdmin,
	LevelAdmin:      entity.RoleAdmin,
	LevelOperator:   entity.RoleOperator,
	LevelUser:       entity.RoleUser,
}

var levelDescriptions = map[int]string{
	LevelSuperAdmin: "Super Administrador",
	LevelAdmin:      "Administrador",
	LevelOperator:   "Operador",
	LevelUser:       "Usuário",
}

// AreaMinLevel maps a named application area to the minimum level required
// to enter it. Areas missing from the table require only level 4, i.e. any
// authenticated user.
var AreaMinLevel = map[string]int{
	"dashboard": LevelUser,
	"users":     LevelAdmin,
	"settings":  LevelAdmin,
	"reports":   LevelOperator,
	"logs":      LevelAdmin,
	"system":    LevelSuperAdmin,
}

func LevelToRole(level int) entity.Role {
	role, ok := levelRoles[level]
	if !ok {
		return entity.RoleUser
	}

	return role
}

// ByLevel returns a copy of the capability list for the level.
func ByLevel(level int) []string {
	perms, ok := levelPermissions[level]
	if !ok {
		perms = levelPermissions[LevelUser]
	}

	out := make([]string, len(perms))
	copy(out, perms)

	return out
}

func HasPermission(level int, permission string) bool {
	for _, p := range levelPermissions[normalizeLevel(level)] {
		if p == Wildcard || p == permission {
			return true
		}
	}

	return false
}

// CanAccessLevel reports whether userLevel is at least as powerful as
// requiredLevel.
func CanAccessLevel(userLevel, requiredLevel int) bool {
	return userLevel <= requiredLevel
}

func LevelDescription(level int) string {
	desc, ok := levelDescriptions[level]
	if !ok {
		return levelDescriptions[LevelUser]
	}

	return desc
}

// MinLevelForArea returns the minimum level required for the named area.
func MinLevelForArea(area string) int {
	required, ok := AreaMinLevel[area]
	if !ok {
		return LevelUser
	}

	return required
}

func normalizeLevel(level int) int {
	if _, ok := levelPermissions[level]; !ok {
		return LevelUser
	}

	return level
}
