package utils

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/repository"
)

var ErrSlotTaken = errors.New("provider already booked at that time")

// CheckAvailability fails with ErrSlotTaken when the provider already has an
// appointment at (date, hour). excludeID lets an appointment keep its own slot.
func CheckAvailability(ctx context.Context, appointments repository.AppointmentRepository, providerID uint, date time.Time, hour datatypes.Time, excludeID uint) error {
	n, err := appointments.CountAtSlot(ctx, providerID, date, hour, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotTaken
	}
	return nil
}
