package services

import "github.com/meinhoongagan/conectados/models"

// Actor is the authenticated caller of a mutation.
type Actor struct {
	ID   uint
	Role models.Role
}

// System acts on behalf of scheduled jobs.
var System = Actor{Role: models.RoleAdmin}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanActFor reports whether a may change data owned by userID.
func (a Actor) CanActFor(userID uint) bool {
	return a.IsAdmin() || (a.ID != 0 && a.ID == userID)
}
