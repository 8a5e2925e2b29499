package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the account type of a user. The zero value is not a valid role.
type Role uint8

const (
	RoleResponsible Role = iota + 1
	RoleSuperUser
)

// ParseRole accepts the API names as well as the short stored form of the responsible role.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RESPONSIBLE", "RESP":
		return RoleResponsible, nil
	case "SUPERUSER":
		return RoleSuperUser, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleResponsible:
		return "RESPONSIBLE"
	case RoleSuperUser:
		return "SUPERUSER"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleResponsible || r == RoleSuperUser
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role using the column values of the accounts table.
func (r Role) Value() (driver.Value, error) {
	switch r {
	case RoleResponsible:
		return "RESP", nil
	case RoleSuperUser:
		return "SUPERUSER", nil
	}
	return nil, fmt.Errorf("cannot store invalid role %d", uint8(r))
}

func (r *Role) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
