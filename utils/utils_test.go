package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
)

func clock(t *testing.T, s string) datatypes.Time {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func TestClockRoundTrip(t *testing.T) {
	assert.Equal(t, "08:05", FormatClock(clock(t, "08:05")))
	assert.Equal(t, "23:59", FormatClock(clock(t, "23:59:30")))
	assert.Equal(t, datatypes.NewTime(9, 30, 0, 0), clock(t, " 09:30 "))

	_, err := ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("nine")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-17")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2024-06-17", FormatDate(datatypes.Date(d)))

	_, err = ParseDate("17/06/2024")
	assert.Error(t, err)
}

func TestCheckWorkingDayAndHours(t *testing.T) {
	start, end := clock(t, "08:00"), clock(t, "18:00")
	provider := &models.User{
		Availability: datatypes.JSONSlice[string]{"Lunes"},
		WorkStart:    &start,
		WorkEnd:      &end,
	}
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		provider *models.User
		date     time.Time
		hour     string
		want     error
	}{
		{"inside", provider, monday, "10:00", nil},
		{"opening bound", provider, monday, "08:00", nil},
		{"closing bound", provider, monday, "18:00", nil},
		{"after closing", provider, monday, "18:01", ErrOutsideHours},
		{"day off", provider, tuesday, "10:00", ErrDayOff},
		{"no schedule", &models.User{Availability: datatypes.JSONSlice[string]{"Lunes"}}, monday, "10:00", ErrNoSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWorkingDayAndHours(tt.provider, tt.date, clock(t, tt.hour))
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	ti := TokenIssuer{Secret: []byte("s3cret"), TTL: time.Hour, RefreshTTL: 2 * time.Hour}
	u := &models.User{ID: 42, Email: "a@b.c", ActiveRole: models.RoleProvider}

	access, refresh, err := ti.Issue(u)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	id, err := ti.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ti.ParseRefresh(access)
	assert.Error(t, err)

	other := TokenIssuer{Secret: []byte("other"), TTL: time.Hour, RefreshTTL: time.Hour}
	_, err = other.ParseRefresh(refresh)
	assert.Error(t, err)

	expired := TokenIssuer{
		Secret: []byte("s3cret"), TTL: time.Minute, RefreshTTL: time.Minute,
		Now: func() time.Time { return time.Now().Add(-time.Hour) },
	}
	_, stale, err := expired.Issue(u)
	require.NoError(t, err)
	_, err = ti.ParseRefresh(stale)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}
