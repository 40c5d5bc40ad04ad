package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type Role string

const (
	RoleSuperAdmin Role = "super-admin"
	RoleAdmin      Role = "admin"
	RoleOperator   Role = "operator"
	RoleUser       Role = "user"
)

// User is the authenticated session record. Role and Permissions are
// derived from Level and recomputed whenever the record is loaded from
// storage, so a stale blob can never disagree with the level.
type User struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Login       string   `json:"login"`
	Active      bool     `json:"active"`
	Level       int      `json:"level"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

type Credentials struct {
	Login    string
	Password string
}

// ActiveFlag decodes the upstream "active" column in any of its historical
// encodings: absent, boolean, tinyint or numeric string. Internal code only
// ever sees the normalized boolean from Bool.
type ActiveFlag struct {
	Present bool
	Value   bool
}

// Bool reports whether the account is active. An absent flag counts as
// active: older deployments of the admin API omit the column entirely.
func (f ActiveFlag) Bool() bool {
	if !f.Present {
		return true
	}

	return f.Value
}

func (f *ActiveFlag) UnmarshalJSON(data []byte) error {
	f.Present = true
	f.Value = false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Present = false
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return nil //nolint:nilerr // unknown encodings normalize to inactive
		}

		f.Value = v
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil //nolint:nilerr // unknown encodings normalize to inactive
		}

		f.Value = v == "1"
	default:
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return nil //nolint:nilerr // unknown encodings normalize to inactive
		}

		f.Value = v == 1
	}

	return nil
}
