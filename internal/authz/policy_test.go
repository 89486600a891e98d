package authz

import (
	"testing"

	"pizza_service/internal/model"

	"github.com/stretchr/testify/assert"
)

func diner(id int) Identity {
	return Identity{ID: id, Roles: []model.UserRole{{Role: model.RoleDiner}}}
}

func admin(id int) Identity {
	return Identity{ID: id, Roles: []model.UserRole{{Role: model.RoleAdmin}}}
}

func franchisee(id, franchiseID int) Identity {
	return Identity{ID: id, Roles: []model.UserRole{
		{Role: model.RoleDiner},
		{Role: model.RoleFranchisee, ObjectID: franchiseID},
	}}
}

func TestCanAct_AdminMayDoAnything(t *testing.T) {
	a := admin(1)
	actions := []Action{
		ActionUpdateUser, ActionDeleteUser,
		ActionCreateFranchise, ActionDeleteFranchise,
		ActionCreateStore, ActionDeleteStore,
		ActionUpdateMenu,
	}
	for _, action := range actions {
		assert.True(t, CanAct(a, action, Target{UserID: 99, FranchiseID: 42}), string(action))
	}
}

func TestCanAct_SelfService(t *testing.T) {
	d := diner(7)

	assert.True(t, CanAct(d, ActionUpdateUser, Target{UserID: 7}))
	assert.True(t, CanAct(d, ActionDeleteUser, Target{UserID: 7}))

	assert.False(t, CanAct(d, ActionUpdateUser, Target{UserID: 8}))
	assert.False(t, CanAct(d, ActionDeleteUser, Target{UserID: 8}))
}

func TestCanAct_AdminOnlyActions(t *testing.T) {
	d := diner(7)
	f := franchisee(9, 3)

	for _, id := range []Identity{d, f} {
		assert.False(t, CanAct(id, ActionCreateFranchise, Target{}))
		assert.False(t, CanAct(id, ActionDeleteFranchise, Target{FranchiseID: 3}))
		assert.False(t, CanAct(id, ActionUpdateMenu, Target{}))
	}
}

func TestCanAct_StoreActionsScopedToFranchise(t *testing.T) {
	f := franchisee(9, 3)

	assert.True(t, CanAct(f, ActionCreateStore, Target{FranchiseID: 3}))
	assert.True(t, CanAct(f, ActionDeleteStore, Target{FranchiseID: 3}))

	// Franchisee of franchise 3 has no say over franchise 4.
	assert.False(t, CanAct(f, ActionCreateStore, Target{FranchiseID: 4}))
	assert.False(t, CanAct(f, ActionDeleteStore, Target{FranchiseID: 4}))

	// Plain diners cannot manage stores at all.
	assert.False(t, CanAct(diner(7), ActionCreateStore, Target{FranchiseID: 3}))
}

func TestCanAct_ZeroRoleIdentity(t *testing.T) {
	bare := Identity{ID: 5}

	assert.True(t, CanAct(bare, ActionUpdateUser, Target{UserID: 5}))
	assert.True(t, CanAct(bare, ActionDeleteUser, Target{UserID: 5}))

	assert.False(t, CanAct(bare, ActionUpdateUser, Target{UserID: 6}))
	assert.False(t, CanAct(bare, ActionCreateFranchise, Target{}))
	assert.False(t, CanAct(bare, ActionCreateStore, Target{FranchiseID: 1}))
	assert.False(t, CanAct(bare, ActionUpdateMenu, Target{}))
}

func TestCanAct_UnknownActionDenied(t *testing.T) {
	assert.False(t, CanAct(diner(1), Action("rebootTheOvens"), Target{}))
	assert.True(t, CanAct(admin(1), Action("rebootTheOvens"), Target{}))
}

func TestIdentityRoleHelpers(t *testing.T) {
	f := franchisee(9, 3)
	assert.False(t, f.IsAdmin())
	assert.True(t, f.HasFranchiseRole(3))
	assert.False(t, f.HasFranchiseRole(4))

	a := admin(1)
	assert.True(t, a.IsAdmin())
	assert.False(t, a.HasFranchiseRole(3))
}
