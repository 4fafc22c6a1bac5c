// Package commentpolicy decides who may change comments. Reading and
// writing comments on a report follows the report's visibility; that
// gate lives in the visibility package.
package commentpolicy

import (
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanEdit: the comment's author or a platform admin.
func CanEdit(actorID primitive.ObjectID, actorRole string, comment models.Comment) bool {
	if actorID.IsZero() {
		return false
	}
	return comment.AuthorID == actorID || actorRole == models.RoleAdmin
}

// CanDelete: the comment's author, a platform admin, or the author of
// the report the comment is on (report authors moderate their own
// threads). Three independent grounds; any one suffices.
func CanDelete(actorID primitive.ObjectID, actorRole string, comment models.Comment, reportAuthorID primitive.ObjectID) bool {
	if actorID.IsZero() {
		return false
	}
	return comment.AuthorID == actorID || actorRole == models.RoleAdmin || reportAuthorID == actorID
}
