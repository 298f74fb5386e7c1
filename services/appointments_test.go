package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/redis"
	"github.com/meinhoongagan/conectados/utils"
)

func TestCreateAppointmentScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)

	booked := f.book(t, seeker, provider, svc, nextMonday, "10:00")
	assert.Equal(t, string(models.StatusPending), booked.Status)
	assert.Equal(t, nextMonday, booked.Date)
	assert.Equal(t, "10:00", booked.Hour)
	assert.Equal(t, svc.Name, booked.ServiceName)

	other := f.seeker(t)
	tests := []struct {
		name    string
		date    string
		hour    string
		message string
	}{
		{"same slot", nextMonday, "10:00", utils.ErrSlotTaken.Error()},
		{"day off", nextTues, "10:00", utils.ErrDayOff.Error()},
		{"after hours", nextMonday, "19:00", utils.ErrOutsideHours.Error()},
		{"before hours", nextMonday, "07:59", utils.ErrOutsideHours.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.appointments.Create(ctx, asActor(other), AppointmentInput{
				Date:       tt.date,
				Hour:       tt.hour,
				ServiceID:  svc.ID,
				SeekerID:   other.ID,
				ProviderID: provider.ID,
			})
			requireKind(t, err, KindConflict)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCreateAppointmentHoursAreInclusive(t *testing.T) {
	f := newFixture(t)
	provider := f.provider(t, []string{"lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)

	f.book(t, f.seeker(t), provider, svc, nextMonday, "08:00")
	f.book(t, f.seeker(t), provider, svc, nextMonday, "18:00")
}

func TestCreateAppointmentWithoutSchedule(t *testing.T) {
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "", "")
	svc := f.service(t, provider)
	seeker := f.seeker(t)

	_, err := f.appointments.Create(context.Background(), asActor(seeker), AppointmentInput{
		Date: nextMonday, Hour: "10:00", ServiceID: svc.ID, SeekerID: seeker.ID, ProviderID: provider.ID,
	})
	requireKind(t, err, KindConflict)
	assert.Contains(t, err.Error(), utils.ErrNoSchedule.Error())
}

func TestCreateAppointmentValidationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)
	admin := System
	other := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	otherSvc := f.service(t, other)

	tests := []struct {
		name  string
		actor Actor
		in    AppointmentInput
		kind  Kind
	}{
		{
			name:  "missing seeker",
			actor: admin,
			in:    AppointmentInput{Date: nextMonday, Hour: "10:00", SeekerID: 999, ProviderID: 998, ServiceID: 997},
			kind:  KindNotFound,
		},
		{
			name:  "seeker operating as provider",
			actor: asActor(provider),
			in:    AppointmentInput{Date: nextMonday, Hour: "10:00", SeekerID: provider.ID, ProviderID: provider.ID, ServiceID: svc.ID},
			kind:  KindForbidden,
		},
		{
			name:  "missing provider",
			actor: asActor(seeker),
			in:    AppointmentInput{Date: nextMonday, Hour: "10:00", SeekerID: seeker.ID, ProviderID: 998, ServiceID: 997},
			kind:  KindNotFound,
		},
		{
			name:  "missing service",
			actor: asActor(seeker),
			in:    AppointmentInput{Date: nextMonday, Hour: "10:00", SeekerID: seeker.ID, ProviderID: provider.ID, ServiceID: 997},
			kind:  KindNotFound,
		},
		{
			name:  "service of another provider",
			actor: asActor(seeker),
			in:    AppointmentInput{Date: nextMonday, Hour: "10:00", SeekerID: seeker.ID, ProviderID: provider.ID, ServiceID: otherSvc.ID},
			kind:  KindConflict,
		},
		{
			name:  "booking for someone else",
			actor: asActor(seeker),
			in:    AppointmentInput{Date: nextMonday, Hour: "10:00", SeekerID: seeker.ID + 100, ProviderID: provider.ID, ServiceID: svc.ID},
			kind:  KindForbidden,
		},
		{
			name:  "malformed date",
			actor: asActor(seeker),
			in:    AppointmentInput{Date: "17/06/2024", Hour: "10:00", SeekerID: seeker.ID, ProviderID: provider.ID, ServiceID: svc.ID},
			kind:  KindBadRequest,
		},
		{
			name:  "malformed hour",
			actor: asActor(seeker),
			in:    AppointmentInput{Date: nextMonday, Hour: "10h", SeekerID: seeker.ID, ProviderID: provider.ID, ServiceID: svc.ID},
			kind:  KindBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.appointments.Create(ctx, tt.actor, tt.in)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestCreateAppointmentNotifies(t *testing.T) {
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)

	f.book(t, seeker, provider, svc, nextMonday, "10:00")

	assert.Equal(t, 1, f.publisher.count(EventAppointmentCreated))
	assert.ElementsMatch(t, []string{seeker.Email, provider.Email}, f.mailer.to)
}

type busyLocker struct{}

func (busyLocker) WithSlotLock(context.Context, string, func(context.Context) error) error {
	return redis.ErrLockNotAcquired
}

func TestCreateAppointmentLockContention(t *testing.T) {
	f := newFixture(t, WithSlotLocker(busyLocker{}))
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)

	_, err := f.appointments.Create(context.Background(), asActor(seeker), AppointmentInput{
		Date: nextMonday, Hour: "10:00", ServiceID: svc.ID, SeekerID: seeker.ID, ProviderID: provider.ID,
	})
	requireKind(t, err, KindConflict)

	list, err := f.appointments.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateAppointmentExcludesItself(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes", "Martes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)
	a := f.book(t, seeker, provider, svc, nextMonday, "10:00")

	updated, err := f.appointments.Update(ctx, asActor(seeker), a.ID, AppointmentInput{
		Date: nextMonday, Hour: "10:00", Status: "CONFIRMADA",
		ServiceID: svc.ID, SeekerID: seeker.ID, ProviderID: provider.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusConfirmed), updated.Status)

	moved, err := f.appointments.Update(ctx, asActor(seeker), a.ID, AppointmentInput{Date: nextTues, Hour: "11:30"})
	require.NoError(t, err)
	assert.Equal(t, nextTues, moved.Date)
	assert.Equal(t, "11:30", moved.Hour)
	assert.Equal(t, string(models.StatusConfirmed), moved.Status)

	b := f.book(t, f.seeker(t), provider, svc, nextMonday, "10:00")
	_, err = f.appointments.Update(ctx, System, b.ID, AppointmentInput{Date: nextTues, Hour: "11:30"})
	requireKind(t, err, KindConflict)

	_, err = f.appointments.Update(ctx, System, b.ID, AppointmentInput{Date: nextTues, Hour: "20:00"})
	requireKind(t, err, KindConflict)

	_, err = f.appointments.Update(ctx, System, 12345, AppointmentInput{})
	requireKind(t, err, KindNotFound)

	_, err = f.appointments.Update(ctx, System, b.ID, AppointmentInput{ProviderID: 12345})
	requireKind(t, err, KindNotFound)

	// Moving to another provider keeps the old provider's service.
	other := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	_, err = f.appointments.Update(ctx, System, b.ID, AppointmentInput{ProviderID: other.ID, Hour: "12:00"})
	requireKind(t, err, KindConflict)
	assert.Contains(t, err.Error(), "is not offered by provider")

	_, err = f.appointments.Update(ctx, Actor{ID: 4242, Role: models.RoleSeeker}, b.ID, AppointmentInput{})
	requireKind(t, err, KindForbidden)
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	past := f.book(t, f.seeker(t), provider, svc, pastMonday, "09:00")
	future := f.book(t, f.seeker(t), provider, svc, nextMonday, "09:00")

	completed, err := f.appointments.Sweep(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, past.ID, completed[0].ID)
	assert.Equal(t, string(models.StatusCompleted), completed[0].Status)

	again, err := f.appointments.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	got, err := f.appointments.Get(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCompleted), got.Status)
	got, err = f.appointments.Get(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPending), got.Status)
	assert.Equal(t, 1, f.publisher.count(EventAppointmentCompleted))
}

func TestSweepSkipsConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	a := f.book(t, f.seeker(t), provider, svc, pastMonday, "09:00")
	_, err := f.appointments.UpdateStatus(ctx, System, a.ID, "confirmada")
	require.NoError(t, err)

	completed, err := f.appointments.Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)
	a := f.book(t, seeker, provider, svc, nextMonday, "10:00")

	done, err := f.appointments.UpdateStatus(ctx, asActor(provider), a.ID, "COMPLETADA")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusCompleted), done.Status)

	reopened, err := f.appointments.UpdateStatus(ctx, asActor(seeker), a.ID, "Pendiente")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPending), reopened.Status)

	_, err = f.appointments.UpdateStatus(ctx, asActor(seeker), a.ID, "CANCELADA")
	requireKind(t, err, KindBadRequest)

	_, err = f.appointments.UpdateStatus(ctx, asActor(seeker), 999, "CONFIRMADA")
	requireKind(t, err, KindNotFound)
}

func TestDeleteAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)
	a := f.book(t, seeker, provider, svc, pastMonday, "10:00")
	_, err := f.reviews.Create(ctx, seeker.ID, ReviewInput{AppointmentID: a.ID, Rating: 7})
	require.NoError(t, err)

	requireKind(t, f.appointments.Delete(ctx, Actor{ID: 555, Role: models.RoleSeeker}, a.ID), KindForbidden)
	require.NoError(t, f.appointments.Delete(ctx, asActor(seeker), a.ID))

	_, err = f.appointments.Get(ctx, a.ID)
	requireKind(t, err, KindNotFound)
	reviews, err := f.reviews.ListByService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	got, err := f.catalog.Get(ctx, svc.ID)
	require.NoError(t, err)
	assert.Zero(t, got.AverageRating)

	requireKind(t, f.appointments.Delete(ctx, System, a.ID), KindNotFound)
}

func TestListAppointmentsByParticipant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)
	f.book(t, seeker, provider, svc, nextMonday, "10:00")
	f.book(t, seeker, provider, svc, nextMonday, "11:00")
	f.book(t, f.seeker(t), provider, svc, nextMonday, "12:00")

	mine, err := f.appointments.ListBySeeker(ctx, seeker.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.appointments.ListByProvider(ctx, provider.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 3)

	_, err = f.appointments.ListBySeeker(ctx, 999)
	requireKind(t, err, KindNotFound)
}
