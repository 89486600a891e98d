// Package authz holds the pure authorization decision for every
// privileged operation. Transport and storage never make access
// decisions themselves; they build an Identity and a Target and ask
// CanAct.
package authz

import "pizza_service/internal/model"

// Action enumerates the privileged operations
type Action string

const (
	ActionUpdateUser      Action = "updateUser"
	ActionDeleteUser      Action = "deleteUser"
	ActionCreateFranchise Action = "createFranchise"
	ActionDeleteFranchise Action = "deleteFranchise"
	ActionCreateStore     Action = "createStore"
	ActionDeleteStore     Action = "deleteStore"
	ActionUpdateMenu      Action = "updateMenu"
)

// Identity is the authenticated requester: the user id and the role
// snapshot taken at token issuance.
type Identity struct {
	ID    int
	Name  string
	Email string
	Roles []model.UserRole
}

// IsAdmin reports whether the identity holds the global admin role
func (id Identity) IsAdmin() bool {
	for _, r := range id.Roles {
		if r.Role == model.RoleAdmin {
			return true
		}
	}
	return false
}

// HasFranchiseRole reports whether the identity holds the franchisee
// role scoped to the given franchise id.
func (id Identity) HasFranchiseRole(franchiseID int) bool {
	for _, r := range id.Roles {
		if r.Role == model.RoleFranchisee && r.ObjectID == franchiseID {
			return true
		}
	}
	return false
}

// Target carries the ids the action operates on. Only the fields
// relevant to the action are consulted.
type Target struct {
	UserID      int
	FranchiseID int
}

// CanAct decides whether identity may perform action on target.
// Rules apply in order, first match wins:
//  1. admins may perform any action
//  2. updateUser/deleteUser: permitted only on the requester's own id
//  3. createFranchise/deleteFranchise/updateMenu: admin only
//  4. createStore/deleteStore: franchisee scoped to the target franchise
//
// An identity with no roles is denied everything except self-service.
func CanAct(id Identity, action Action, target Target) bool {
	if id.IsAdmin() {
		return true
	}
	switch action {
	case ActionUpdateUser, ActionDeleteUser:
		return id.ID == target.UserID
	case ActionCreateStore, ActionDeleteStore:
		return id.HasFranchiseRole(target.FranchiseID)
	default:
		// createFranchise, deleteFranchise, updateMenu and anything
		// unknown stay admin only.
		return false
	}
}
