package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDIENTE"
	StatusConfirmed AppointmentStatus = "CONFIRMADA"
	StatusCompleted AppointmentStatus = "COMPLETADA"
)

// ParseStatus accepts the stored values in any casing.
func ParseStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// Appointment books a provider's slot for a seeker. A provider holds at most
// one appointment per (date, hour).
type Appointment struct {
	ID     uint              `gorm:"primaryKey"`
	Date   datatypes.Date    `gorm:"not null;uniqueIndex:idx_appointments_provider_slot,priority:2"`
	Hour   datatypes.Time    `gorm:"not null;uniqueIndex:idx_appointments_provider_slot,priority:3"`
	Status AppointmentStatus `gorm:"type:varchar(20);not null;index"`

	ServiceID  uint `gorm:"not null;index"`
	SeekerID   uint `gorm:"not null;index"`
	ProviderID uint `gorm:"not null;uniqueIndex:idx_appointments_provider_slot,priority:1"`

	Service  *Service `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	Seeker   *User    `gorm:"foreignKey:SeekerID;constraint:OnDelete:CASCADE"`
	Provider *User    `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// Day returns the appointment date at midnight UTC.
func (a *Appointment) Day() time.Time {
	y, m, d := time.Time(a.Date).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueForCompletion reports whether the completion sweep should close a.
func (a *Appointment) DueForCompletion(today time.Time) bool {
	y, m, d := today.Date()
	return a.Status == StatusPending && a.Day().Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
