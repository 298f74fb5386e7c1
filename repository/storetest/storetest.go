// Package storetest holds the behaviour every repository.Store must share,
// plus an in-memory SQLite database for exercising the gorm store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/meinhoongagan/conectados/db"
	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
)

// OpenSQLite returns a migrated gorm database private to t.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), false)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes transactions.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Run exercises open() against the shared store contract.
func Run(t *testing.T, open func(t *testing.T) repository.Store) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s repository.Store)
	}{
		{"UserEmailIsUnique", userEmailIsUnique},
		{"AppointmentSlotIsUnique", appointmentSlotIsUnique},
		{"AppointmentStatus", appointmentStatus},
		{"ReviewPerAppointmentAndAverage", reviewPerAppointmentAndAverage},
		{"TransactionRollsBack", transactionRollsBack},
		{"ListServicesOrder", listServicesOrder},
		{"CascadeDeletes", cascadeDeletes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

type world struct {
	seeker, provider models.User
	svc              models.Service
}

func seed(t *testing.T, s repository.Store) world {
	t.Helper()
	ctx := context.Background()
	w := world{
		seeker:   models.User{Name: "Ana", Email: "ana@example.com", Password: "x", Roles: datatypes.JSONSlice[models.Role]{models.RoleSeeker}, ActiveRole: models.RoleSeeker},
		provider: models.User{Name: "Luis", Email: "luis@example.com", Password: "x", Roles: datatypes.JSONSlice[models.Role]{models.RoleProvider}, ActiveRole: models.RoleProvider},
	}
	require.NoError(t, s.Users().Create(ctx, &w.seeker))
	require.NoError(t, s.Users().Create(ctx, &w.provider))
	w.svc = models.Service{Name: "Corte", Price: 12, Category: "Peluquería", ProviderID: w.provider.ID}
	require.NoError(t, s.Services().Create(ctx, &w.svc))
	return w
}

func (w world) slot(day, hour int) *models.Appointment {
	return &models.Appointment{
		Date:       datatypes.Date(time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)),
		Hour:       datatypes.NewTime(hour, 0, 0, 0),
		ServiceID:  w.svc.ID,
		SeekerID:   w.seeker.ID,
		ProviderID: w.provider.ID,
	}
}

func (w world) review(a *models.Appointment, rating int) *models.Review {
	return &models.Review{
		Rating:        rating,
		Date:          a.Date,
		AppointmentID: a.ID,
		ServiceID:     w.svc.ID,
		SeekerID:      w.seeker.ID,
		ProviderID:    w.provider.ID,
	}
}

func userEmailIsUnique(t *testing.T, s repository.Store) {
	ctx := context.Background()
	seed(t, s)

	dup := models.User{Name: "Otra", Email: "ana@example.com", Password: "x", Roles: datatypes.JSONSlice[models.Role]{models.RoleSeeker}, ActiveRole: models.RoleSeeker}
	assert.ErrorIs(t, s.Users().Create(ctx, &dup), repository.ErrDuplicate)

	u, err := s.Users().FindByEmail(ctx, "luis@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Luis", u.Name)
	assert.True(t, u.HasRole(models.RoleProvider))

	_, err = s.Users().FindByID(ctx, u.ID+100)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Users().Delete(ctx, u.ID+100), repository.ErrNotFound)
}

func appointmentSlotIsUnique(t *testing.T, s repository.Store) {
	ctx := context.Background()
	w := seed(t, s)

	first := w.slot(17, 10)
	require.NoError(t, s.Appointments().Create(ctx, first))
	assert.Equal(t, models.StatusPending, first.Status)

	assert.ErrorIs(t, s.Appointments().Create(ctx, w.slot(17, 10)), repository.ErrDuplicate)
	second := w.slot(17, 11)
	require.NoError(t, s.Appointments().Create(ctx, second))

	day := time.Time(first.Date)
	n, err := s.Appointments().CountAtSlot(ctx, w.provider.ID, day, first.Hour, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = s.Appointments().CountAtSlot(ctx, w.provider.ID, day, first.Hour, first.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := s.Appointments().FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Service)
	require.NotNil(t, got.Seeker)
	require.NotNil(t, got.Provider)
	assert.Equal(t, "Corte", got.Service.Name)
	assert.Equal(t, "Ana", got.Seeker.Name)
	assert.Equal(t, "Luis", got.Provider.Name)
	assert.Equal(t, "2024-06-17", time.Time(got.Date).Format("2006-01-02"))
	assert.Equal(t, first.Hour, got.Hour)

	// Saving an appointment in place keeps its own slot.
	got.Status = models.StatusConfirmed
	require.NoError(t, s.Appointments().Save(ctx, got))

	second.Hour = first.Hour
	assert.ErrorIs(t, s.Appointments().Save(ctx, second), repository.ErrDuplicate)
}

func appointmentStatus(t *testing.T, s repository.Store) {
	ctx := context.Background()
	w := seed(t, s)
	a := w.slot(10, 9)
	b := w.slot(11, 9)
	require.NoError(t, s.Appointments().Create(ctx, a))
	require.NoError(t, s.Appointments().Create(ctx, b))

	require.NoError(t, s.Appointments().SetStatus(ctx, a.ID, models.StatusCompleted))
	assert.ErrorIs(t, s.Appointments().SetStatus(ctx, b.ID+100, models.StatusCompleted), repository.ErrNotFound)

	pending, err := s.Appointments().FindByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
	require.NotNil(t, pending[0].Service)

	mine, err := s.Appointments().FindBySeeker(ctx, w.seeker.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	theirs, err := s.Appointments().FindByProvider(ctx, w.seeker.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func reviewPerAppointmentAndAverage(t *testing.T, s repository.Store) {
	ctx := context.Background()
	w := seed(t, s)
	a := w.slot(10, 9)
	b := w.slot(11, 9)
	require.NoError(t, s.Appointments().Create(ctx, a))
	require.NoError(t, s.Appointments().Create(ctx, b))

	ra := w.review(a, 6)
	require.NoError(t, s.Reviews().Create(ctx, ra))
	require.NoError(t, s.Reviews().Create(ctx, w.review(b, 9)))
	assert.ErrorIs(t, s.Reviews().Create(ctx, w.review(a, 1)), repository.ErrDuplicate)

	n, err := s.Reviews().CountBySeekerAndAppointment(ctx, w.seeker.ID, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	avg, err := s.Reviews().AverageRating(ctx, w.svc.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, avg, 1e-9)

	got, err := s.Reviews().FindByAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, ra.ID, got.ID)
	require.NotNil(t, got.Service)
	assert.Equal(t, "Corte", got.Service.Name)

	require.NoError(t, s.Reviews().DeleteByService(ctx, w.svc.ID))
	avg, err = s.Reviews().AverageRating(ctx, w.svc.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = s.Reviews().FindByAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Reviews().Delete(ctx, ra.ID), repository.ErrNotFound)
}

func transactionRollsBack(t *testing.T, s repository.Store) {
	ctx := context.Background()
	w := seed(t, s)
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Services().Delete(ctx, w.svc.ID))
		assert.ErrorIs(t, tx.Services().SetAverageRating(ctx, w.svc.ID, 1), repository.ErrNotFound)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Services().FindByID(ctx, w.svc.ID)
	assert.NoError(t, err)

	err = s.Transaction(ctx, func(tx repository.Store) error {
		return tx.Services().Delete(ctx, w.svc.ID)
	})
	require.NoError(t, err)
	_, err = s.Services().FindByID(ctx, w.svc.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func listServicesOrder(t *testing.T, s repository.Store) {
	ctx := context.Background()
	w := seed(t, s)
	for _, svc := range []models.Service{
		{Name: "Poda", Price: 40, Category: "Jardinería", ProviderID: w.provider.ID},
		{Name: "Enchufe", Price: 20, Category: "Electricidad", ProviderID: w.provider.ID},
	} {
		svc := svc
		require.NoError(t, s.Services().Create(ctx, &svc))
		rating := 3.0
		if svc.Name == "Enchufe" {
			rating = 9
		}
		require.NoError(t, s.Services().SetAverageRating(ctx, svc.ID, rating))
	}

	names := func(list []models.Service) []string {
		out := make([]string, len(list))
		for i, svc := range list {
			out[i] = svc.Name
		}
		return out
	}

	list, err := s.Services().List(ctx, repository.OrderByID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Corte", "Poda", "Enchufe"}, names(list))

	list, err = s.Services().List(ctx, repository.OrderByPrice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Corte", "Enchufe", "Poda"}, names(list))

	list, err = s.Services().List(ctx, repository.OrderByRating)
	require.NoError(t, err)
	assert.Equal(t, []string{"Enchufe", "Poda", "Corte"}, names(list))

	list, err = s.Services().FindByCategory(ctx, "electricidad")
	require.NoError(t, err)
	require.Equal(t, []string{"Enchufe"}, names(list))
	require.NotNil(t, list[0].Provider)
	assert.Equal(t, "Luis", list[0].Provider.Name)
}

func cascadeDeletes(t *testing.T, s repository.Store) {
	ctx := context.Background()
	w := seed(t, s)
	a := w.slot(10, 9)
	require.NoError(t, s.Appointments().Create(ctx, a))
	require.NoError(t, s.Reviews().Create(ctx, w.review(a, 7)))

	require.NoError(t, s.Reviews().DeleteByUser(ctx, w.seeker.ID))
	require.NoError(t, s.Appointments().DeleteByUser(ctx, w.seeker.ID))

	left, err := s.Reviews().FindByUser(ctx, w.provider.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = s.Appointments().FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
