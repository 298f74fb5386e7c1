package utils

import (
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
)

var (
	ErrDayOff       = errors.New("provider does not work that day")
	ErrNoSchedule   = errors.New("provider has no defined schedule")
	ErrOutsideHours = errors.New("time outside provider's hours")
)

// CheckWorkingDayAndHours checks the provider's weekday availability first and
// then the [work_start, work_end] window, both bounds inclusive.
func CheckWorkingDayAndHours(provider *models.User, date time.Time, hour datatypes.Time) error {
	label, ok := models.WeekdayLabel(date.Weekday())
	if !ok || !provider.WorksOn(label) {
		return ErrDayOff
	}

	if provider.WorkStart == nil || provider.WorkEnd == nil {
		return ErrNoSchedule
	}
	if hour < *provider.WorkStart || hour > *provider.WorkEnd {
		return ErrOutsideHours
	}
	return nil
}
