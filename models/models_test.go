package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestWeekdayLabels(t *testing.T) {
	label, ok := WeekdayLabel(time.Wednesday)
	require.True(t, ok)
	assert.Equal(t, "Miércoles", label)

	for _, in := range []string{"miercoles", "MIÉRCOLES", " Miércoles "} {
		got, ok := CanonicalWeekday(in)
		require.True(t, ok, in)
		assert.Equal(t, "Miércoles", got)
	}
	_, ok = CanonicalWeekday("Mittwoch")
	assert.False(t, ok)

	assert.Len(t, Weekdays(), 7)
}

func TestUserWorksOn(t *testing.T) {
	u := User{Availability: datatypes.JSONSlice[string]{"sabado", "Lunes"}}
	assert.True(t, u.WorksOn("Sábado"))
	assert.True(t, u.WorksOn("LUNES"))
	assert.False(t, u.WorksOn("Domingo"))
}

func TestUserRoles(t *testing.T) {
	u := User{Roles: datatypes.JSONSlice[Role]{RoleSeeker}}
	u.AddRole(RoleProvider)
	u.AddRole(RoleProvider)
	assert.Equal(t, datatypes.JSONSlice[Role]{RoleSeeker, RoleProvider}, u.Roles)
	assert.False(t, u.HasRole(RoleAdmin))

	r, ok := ParseRole(" prestador ")
	require.True(t, ok)
	assert.Equal(t, RoleProvider, r)
	_, ok = ParseRole("owner")
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]AppointmentStatus{
		"Pendiente":  StatusPending,
		"PENDIENTE":  StatusPending,
		"confirmada": StatusConfirmed,
		"COMPLETADA": StatusCompleted,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("CANCELADA")
	assert.Error(t, err)
}

func TestDueForCompletion(t *testing.T) {
	today := time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)
	day := func(d int) datatypes.Date { return datatypes.Date(time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)) }

	assert.True(t, (&Appointment{Date: day(11), Status: StatusPending}).DueForCompletion(today))
	assert.False(t, (&Appointment{Date: day(12), Status: StatusPending}).DueForCompletion(today))
	assert.False(t, (&Appointment{Date: day(11), Status: StatusConfirmed}).DueForCompletion(today))
	assert.False(t, (&Appointment{Date: day(10), Status: StatusCompleted}).DueForCompletion(today))
}

func TestCanonicalCategory(t *testing.T) {
	c, ok := CanonicalCategory("jardinería")
	require.True(t, ok)
	assert.Equal(t, "Jardinería", c)
	_, ok = CanonicalCategory("Cocina")
	assert.False(t, ok)
}
