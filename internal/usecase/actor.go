package usecase

import "github.com/BruksfildServices01/fieldops/internal/models"

// Actor is the authenticated user an operation runs for. The zero value is
// the system (scheduler, webhooks).
type Actor struct {
	ID    uint
	Admin bool
}

func ActorFrom(u *models.User) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{ID: u.ID, Admin: u.HasRole(models.RoleAdmin)}
}

// System reports whether no user is behind the call.
func (a Actor) System() bool { return a.ID == 0 }

// Ref is the actor id in the pointer form activity rows use; nil for the system.
func (a Actor) Ref() *uint {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}

// CanManage reports whether the actor may act on a job assigned to assignee.
// Admins and the system may act on any job, staff only on their own.
func (a Actor) CanManage(assignee *uint) bool {
	if a.Admin || a.System() {
		return true
	}
	return assignee != nil && *assignee == a.ID
}

// Page normalizes list paging input.
func Page(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = 20
	case limit > 100:
		limit = 100
	}
	return page, limit
}
