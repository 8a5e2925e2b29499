// Package permissions holds the predicates that gate catalog operations.
// A nil caller is an anonymous request.
package permissions

import "shopcatalog/internal/models"

// Predicate decides whether a caller may proceed.
type Predicate func(caller *models.User) bool

// IsAuthenticated reports whether the request resolved to a user.
func IsAuthenticated(caller *models.User) bool {
	return caller != nil && caller.ID != 0
}

// IsSuperUser reports whether the caller is an authenticated superuser.
func IsSuperUser(caller *models.User) bool {
	if !IsAuthenticated(caller) {
		return false
	}
	switch caller.Role {
	case models.RoleSuperUser:
		return true
	case models.RoleResponsible:
		return false
	}
	return false
}

// IsSelf reports whether an authenticated caller is the target user.
func IsSelf(caller, target *models.User) bool {
	return IsAuthenticated(caller) && target != nil && caller.ID == target.ID
}

// CanManageProfile reports whether caller may read or patch target's profile.
func CanManageProfile(caller, target *models.User) bool {
	return IsSuperUser(caller) || IsSelf(caller, target)
}
