// Package access implements the ownership policy shared by every resource
// manager: a row is reachable only by its owner, and for some kinds also when
// it has no owner at all.
package access

import "github.com/atinyakov/GophTasks/internal/models"

// Rule is the ownership policy for one resource kind.
type Rule struct {
	// Kind names the resource, e.g. "project".
	Kind string
	// AllowGlobal admits rows that have no owner.
	AllowGlobal bool
	// Denied is the client message returned on a mismatch.
	Denied string
}

var (
	// Project guards reads and writes of a project.
	Project = Rule{Kind: "project", Denied: "Unauthorized"}
	// Todo guards reads and writes of a todo.
	Todo = Rule{Kind: "todo", Denied: "Unauthorized"}
	// TagRead lets a user attach global tags and their own custom tags.
	TagRead = Rule{Kind: "tag", AllowGlobal: true, Denied: "Unauthorized"}
	// TagWrite guards deletion, which only the tag's owner may do.
	TagWrite = Rule{Kind: "tag", Denied: "Unauthorized"}

	// LinkedProject guards the project referenced by a todo.
	LinkedProject = Rule{Kind: "project", Denied: "Unauthorized - project doesn't belong to you"}
)

// Authorize returns a models.ErrForbidden error unless userID may use a row
// owned by ownerID. A nil ownerID marks a global row.
func (r Rule) Authorize(ownerID *int64, userID int64) error {
	if ownerID == nil {
		if r.AllowGlobal {
			return nil
		}
		return models.Forbidden(r.Denied)
	}
	if *ownerID != userID {
		return models.Forbidden(r.Denied)
	}
	return nil
}

// Owns is Authorize for kinds whose owner column is never null.
func (r Rule) Owns(ownerID, userID int64) error {
	return r.Authorize(&ownerID, userID)
}

// CanDeleteTag rejects predefined and ownerless tags for every requester,
// then applies the TagWrite rule.
func CanDeleteTag(tag *models.Tag, userID int64) error {
	if tag.Type == models.TagPredefined || tag.UserID == nil {
		return models.Forbidden("Cannot delete predefined tags")
	}
	return TagWrite.Authorize(tag.UserID, userID)
}
