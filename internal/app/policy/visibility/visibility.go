// Package visibility is the single decision point for who may see and
// who may change a report. Handlers never test visibility fields
// themselves; they call into here.
//
// Rules:
//   - Anonymous visitors are denied everything. The handlers signal
//     that as Unauthenticated, distinct from Forbidden.
//   - PUBLIC reports are readable by any signed-in user.
//   - PRIVATE reports are readable only by their author. Platform
//     admins are NOT granted read access to others' private reports,
//     even though they may edit or delete any report.
//   - GROUP reports are readable by the author and by members of the
//     report's group.
//   - Edit and delete are allowed to the author and to platform admins.
package visibility

import (
	"context"

	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor identifies the requesting user. The zero value is an anonymous
// visitor.
type Actor struct {
	ID   primitive.ObjectID
	Role string // "user" | "admin"; "" when anonymous
}

func (a Actor) Anonymous() bool { return a.ID.IsZero() }
func (a Actor) IsAdmin() bool   { return a.Role == models.RoleAdmin }

// CanView is the pure read decision. isMember reports whether the actor
// belongs to the report's group; it is ignored unless the report is
// GROUP-visible.
func CanView(actor Actor, report models.Report, isMember bool) bool {
	if actor.Anonymous() {
		return false
	}
	if report.Visibility == models.VisibilityPublic {
		return true
	}
	if report.AuthorID == actor.ID {
		return true
	}
	switch report.Visibility {
	case models.VisibilityGroup:
		return isMember
	case models.VisibilityPrivate:
		// Deliberately no admin grant here.
		return false
	default:
		return false
	}
}

// CanMutate is the pure edit/delete decision: the author, or a platform
// admin.
func CanMutate(actor Actor, report models.Report) bool {
	if actor.Anonymous() {
		return false
	}
	return report.AuthorID == actor.ID || actor.IsAdmin()
}

// MembershipChecker resolves whether a user belongs to a group. The
// membership store satisfies it.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error)
}

// CanViewResolved looks up group membership only when the decision
// needs it, then applies CanView.
func CanViewResolved(ctx context.Context, members MembershipChecker, actor Actor, report models.Report) (bool, error) {
	if report.Visibility != models.VisibilityGroup || report.GroupID == nil || actor.Anonymous() {
		return CanView(actor, report, false), nil
	}
	if report.AuthorID == actor.ID {
		return true, nil
	}
	isMember, err := members.IsMember(ctx, *report.GroupID, actor.ID)
	if err != nil {
		return false, err
	}
	return CanView(actor, report, isMember), nil
}
