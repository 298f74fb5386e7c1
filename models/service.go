package models

import (
	"strings"
	"time"
)

// Categories a service may be published under.
var Categories = []string{
	"Limpieza",
	"Electricidad",
	"Plomería",
	"Jardinería",
	"Peluquería",
	"Carpintería",
}

// CanonicalCategory returns the listed spelling of c, matching case-insensitively.
func CanonicalCategory(c string) (string, bool) {
	c = strings.TrimSpace(c)
	for _, known := range Categories {
		if strings.EqualFold(known, c) {
			return known, true
		}
	}
	return "", false
}

type Service struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"not null"`
	Price         float64 `gorm:"not null;default:0"`
	Zone          string
	Description   string  `gorm:"type:text"`
	Photo         string  `gorm:"type:text"`
	Category      string  `gorm:"type:varchar(40);not null;index"`
	AverageRating float64 `gorm:"not null;default:0"`

	ProviderID uint  `gorm:"not null;index"`
	Provider   *User `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
