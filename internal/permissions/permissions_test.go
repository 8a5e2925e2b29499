package permissions_test

import (
	"testing"

	"shopcatalog/internal/models"
	"shopcatalog/internal/permissions"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	superuser := &models.User{ID: 1, Role: models.RoleSuperUser}
	responsible := &models.User{ID: 2, Role: models.RoleResponsible}
	other := &models.User{ID: 3, Role: models.RoleResponsible}

	assert.False(t, permissions.IsAuthenticated(nil))
	assert.False(t, permissions.IsAuthenticated(&models.User{}))
	assert.True(t, permissions.IsAuthenticated(responsible))

	assert.False(t, permissions.IsSuperUser(nil))
	assert.False(t, permissions.IsSuperUser(&models.User{Role: models.RoleSuperUser}))
	assert.False(t, permissions.IsSuperUser(responsible))
	assert.True(t, permissions.IsSuperUser(superuser))

	assert.True(t, permissions.IsSelf(responsible, responsible))
	assert.False(t, permissions.IsSelf(responsible, other))
	assert.False(t, permissions.IsSelf(nil, other))

	assert.True(t, permissions.CanManageProfile(superuser, other))
	assert.True(t, permissions.CanManageProfile(responsible, responsible))
	assert.False(t, permissions.CanManageProfile(responsible, other))
}
