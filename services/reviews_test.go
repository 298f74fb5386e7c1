package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewSetup struct {
	*fixture
	provider *UserView
	svc      *ServiceView
}

func newReviewSetup(t *testing.T) reviewSetup {
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	return reviewSetup{fixture: f, provider: provider, svc: f.service(t, provider)}
}

// bookPast returns a fresh seeker and their appointment on a past Monday.
func (s reviewSetup) bookPast(t *testing.T, hour string) (*UserView, *AppointmentView) {
	seeker := s.seeker(t)
	return seeker, s.book(t, seeker, s.provider, s.svc, pastMonday, hour)
}

func (s reviewSetup) averageRating(t *testing.T) float64 {
	svc, err := s.catalog.Get(context.Background(), s.svc.ID)
	require.NoError(t, err)
	return svc.AverageRating
}

func TestReviewRatingRecomputation(t *testing.T) {
	ctx := context.Background()
	s := newReviewSetup(t)
	s1, a1 := s.bookPast(t, "09:00")
	s2, a2 := s.bookPast(t, "10:00")

	r1, err := s.reviews.Create(ctx, s1.ID, ReviewInput{AppointmentID: a1.ID, Comment: "Muy bien", Rating: 8})
	require.NoError(t, err)
	r2, err := s.reviews.Create(ctx, s2.ID, ReviewInput{AppointmentID: a2.ID, Comment: "Excelente", Rating: 10})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, s.averageRating(t), 1e-9)

	assert.Equal(t, s.svc.ID, r1.ServiceID)
	assert.Equal(t, s.provider.ID, r1.ProviderID)
	assert.Equal(t, "2024-06-12", r1.Date)

	require.NoError(t, s.reviews.Delete(ctx, asActor(s1), r1.ID))
	assert.InDelta(t, 10.0, s.averageRating(t), 1e-9)

	require.NoError(t, s.reviews.Delete(ctx, asActor(s2), r2.ID))
	assert.Zero(t, s.averageRating(t))
}

func TestReviewUpdateRecomputes(t *testing.T) {
	ctx := context.Background()
	s := newReviewSetup(t)
	s1, a1 := s.bookPast(t, "09:00")
	s2, a2 := s.bookPast(t, "10:00")
	r1, err := s.reviews.Create(ctx, s1.ID, ReviewInput{AppointmentID: a1.ID, Rating: 8})
	require.NoError(t, err)
	_, err = s.reviews.Create(ctx, s2.ID, ReviewInput{AppointmentID: a2.ID, Rating: 10})
	require.NoError(t, err)

	updated, err := s.reviews.Update(ctx, asActor(s1), r1.ID, ReviewInput{Comment: "Regular", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "Regular", updated.Comment)
	assert.Equal(t, r1.Date, updated.Date)
	assert.InDelta(t, 7.0, s.averageRating(t), 1e-9)

	_, err = s.reviews.Update(ctx, asActor(s2), r1.ID, ReviewInput{Rating: 1})
	requireKind(t, err, KindForbidden)
	_, err = s.reviews.Update(ctx, asActor(s1), r1.ID, ReviewInput{Rating: 11})
	requireKind(t, err, KindBadRequest)
	_, err = s.reviews.Update(ctx, System, 9999, ReviewInput{Rating: 5})
	requireKind(t, err, KindNotFound)
}

func TestReviewUniqueness(t *testing.T) {
	ctx := context.Background()
	s := newReviewSetup(t)
	seeker, a := s.bookPast(t, "09:00")

	_, err := s.reviews.Create(ctx, seeker.ID, ReviewInput{AppointmentID: a.ID, Rating: 6})
	require.NoError(t, err)
	_, err = s.reviews.Create(ctx, seeker.ID, ReviewInput{AppointmentID: a.ID, Rating: 9})
	requireKind(t, err, KindConflict)

	list, err := s.reviews.ListByService(ctx, s.svc.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.InDelta(t, 6.0, s.averageRating(t), 1e-9)
	assert.Equal(t, 1, s.publisher.count(EventReviewCreated))
}

func TestCreateReviewValidation(t *testing.T) {
	ctx := context.Background()
	s := newReviewSetup(t)
	seeker, a := s.bookPast(t, "09:00")
	stranger := s.seeker(t)

	tests := []struct {
		name     string
		seekerID uint
		in       ReviewInput
		kind     Kind
	}{
		{"rating too low", seeker.ID, ReviewInput{AppointmentID: a.ID, Rating: 0}, KindBadRequest},
		{"rating too high", seeker.ID, ReviewInput{AppointmentID: a.ID, Rating: 11}, KindBadRequest},
		{"bad rating wins over missing appointment", seeker.ID, ReviewInput{AppointmentID: 999, Rating: 0}, KindBadRequest},
		{"missing appointment", seeker.ID, ReviewInput{AppointmentID: 999, Rating: 5}, KindNotFound},
		{"not the appointment's seeker", stranger.ID, ReviewInput{AppointmentID: a.ID, Rating: 5}, KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.reviews.Create(ctx, tt.seekerID, tt.in)
			requireKind(t, err, tt.kind)
		})
	}
	assert.Zero(t, s.averageRating(t))
}

func TestReviewLookups(t *testing.T) {
	ctx := context.Background()
	s := newReviewSetup(t)
	seeker, a := s.bookPast(t, "09:00")

	none, err := s.reviews.FindByAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	created, err := s.reviews.Create(ctx, seeker.ID, ReviewInput{AppointmentID: a.ID, Comment: "Puntual", Rating: 9})
	require.NoError(t, err)

	one, err := s.reviews.FindByAppointment(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, created.ID, one[0].ID)

	got, err := s.reviews.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Puntual", got.Comment)
	assert.Equal(t, seeker.Name, got.SeekerName)

	all, err := s.reviews.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.reviews.FindByAppointment(ctx, 999)
	requireKind(t, err, KindNotFound)
	_, err = s.reviews.Get(ctx, 999)
	requireKind(t, err, KindNotFound)
	requireKind(t, s.reviews.Delete(ctx, System, 999), KindNotFound)
}
