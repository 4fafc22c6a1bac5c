// Package grouppolicy decides who may manage, delete, and leave groups.
package grouppolicy

import (
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanManageGroup reports whether the actor may edit group settings,
// rotate the invite token, or remove members:
//   - the group owner
//   - a group admin (memberRole "ADMIN")
//   - a platform admin
//
// memberRole is the actor's role within this group ("" when not a
// member).
func CanManageGroup(actorID primitive.ObjectID, actorRole string, group models.Group, memberRole string) bool {
	if actorID.IsZero() {
		return false
	}
	if group.OwnerID == actorID {
		return true
	}
	if memberRole == models.GroupRoleAdmin {
		return true
	}
	return actorRole == models.RoleAdmin
}

// CanDeleteGroup is stricter than CanManageGroup: only the owner or a
// platform admin. Group admins may run the group but not destroy it.
func CanDeleteGroup(actorID primitive.ObjectID, actorRole string, group models.Group) bool {
	if actorID.IsZero() {
		return false
	}
	return group.OwnerID == actorID || actorRole == models.RoleAdmin
}

// CanLeaveGroup reports whether the actor may leave. The owner cannot
// leave their own group; they must delete it (or the group would be
// left ownerless).
func CanLeaveGroup(actorID primitive.ObjectID, group models.Group) bool {
	if actorID.IsZero() {
		return false
	}
	return group.OwnerID != actorID
}

// CanViewGroup reports whether the actor may see a group's detail page
// (member list, report list). Public groups are open to everyone;
// private groups require membership, ownership, or platform admin.
func CanViewGroup(actorID primitive.ObjectID, actorRole string, group models.Group, isMember bool) bool {
	if group.IsPublic {
		return true
	}
	if actorID.IsZero() {
		return false
	}
	if group.OwnerID == actorID || isMember {
		return true
	}
	return actorRole == models.RoleAdmin
}
