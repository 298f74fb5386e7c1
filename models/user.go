package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is a seeker, a provider, an admin, or any combination of them.
// ActiveRole must always be one of Roles.
type User struct {
	ID         uint                      `gorm:"primaryKey"`
	Name       string                    `gorm:"not null"`
	Email      string                    `gorm:"uniqueIndex;not null"`
	Password   string                    `gorm:"not null"` // bcrypt hash
	Phone      string                    `gorm:"type:varchar(30)"`
	Photo      string                    `gorm:"type:text"`
	Roles      datatypes.JSONSlice[Role] `gorm:"not null"`
	ActiveRole Role                      `gorm:"type:varchar(20);not null"`

	// Provider-only attributes
	Zone         string
	Categories   datatypes.JSONSlice[string]
	Description  string `gorm:"type:text"`
	Availability datatypes.JSONSlice[string]
	WorkStart    *datatypes.Time
	WorkEnd      *datatypes.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// AddRole appends r unless the user already holds it.
func (u *User) AddRole(r Role) {
	if !u.HasRole(r) {
		u.Roles = append(u.Roles, r)
	}
}

// WorksOn reports whether label (a weekday label such as "Lunes") is in the
// provider's availability, ignoring case and accents.
func (u *User) WorksOn(label string) bool {
	for _, day := range u.Availability {
		if SameWeekday(day, label) {
			return true
		}
	}
	return false
}
