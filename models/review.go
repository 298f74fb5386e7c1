package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MinRating = 1
	MaxRating = 10
)

// Review is the single piece of feedback allowed per appointment. Service,
// seeker and provider are copied from the appointment it reviews.
type Review struct {
	ID      uint           `gorm:"primaryKey"`
	Comment string         `gorm:"type:text"`
	Date    datatypes.Date `gorm:"not null"`
	Rating  int            `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 10"`

	AppointmentID uint `gorm:"not null;uniqueIndex"`
	ServiceID     uint `gorm:"not null;index"`
	SeekerID      uint `gorm:"not null;index"`
	ProviderID    uint `gorm:"not null;index"`

	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	Service     *Service     `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
	Seeker      *User        `gorm:"foreignKey:SeekerID;constraint:OnDelete:CASCADE"`
	Provider    *User        `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
