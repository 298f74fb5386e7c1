package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	err      error
	publicID string
}

func (u *fakeUploader) Upload(_ context.Context, _ interface{}, publicID string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.publicID = publicID
	return "https://cdn.example.com/" + publicID + ".jpg", nil
}

func price(p float64) *float64 { return &p }

func TestCreateServiceValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	seeker := f.seeker(t)

	tests := []struct {
		name  string
		actor Actor
		in    ServiceInput
		kind  Kind
	}{
		{"missing name", asActor(provider), ServiceInput{Price: price(10), Category: "Limpieza"}, KindBadRequest},
		{"negative price", asActor(provider), ServiceInput{Name: "X", Price: price(-1), Category: "Limpieza"}, KindBadRequest},
		{"unknown category", asActor(provider), ServiceInput{Name: "X", Price: price(1), Category: "Astrología"}, KindBadRequest},
		{"seeker cannot publish", asActor(seeker), ServiceInput{Name: "X", Price: price(1), Category: "Limpieza"}, KindForbidden},
		{"for another provider", asActor(seeker), ServiceInput{Name: "X", Category: "Limpieza", ProviderID: provider.ID}, KindForbidden},
		{"missing provider", System, ServiceInput{Name: "X", Category: "Limpieza", ProviderID: 999}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.catalog.Create(ctx, tt.actor, tt.in)
			requireKind(t, err, tt.kind)
		})
	}

	svc, err := f.catalog.Create(ctx, asActor(provider), ServiceInput{Name: " Limpieza profunda ", Price: price(30), Category: "LIMPIEZA"})
	require.NoError(t, err)
	assert.Equal(t, "Limpieza profunda", svc.Name)
	assert.Equal(t, "Limpieza", svc.Category)
	assert.Zero(t, svc.AverageRating)
	assert.Equal(t, provider.Name, svc.ProviderName)
}

func TestListServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	actor := asActor(provider)
	for _, in := range []ServiceInput{
		{Name: "Corte", Price: price(20), Category: "Peluquería"},
		{Name: "Armario", Price: price(300), Category: "Carpintería"},
		{Name: "Barba", Price: price(10), Category: "PELUQUERÍA"},
	} {
		_, err := f.catalog.Create(ctx, actor, in)
		require.NoError(t, err)
	}

	byPrice, err := f.catalog.ListSorted(ctx, "precio")
	require.NoError(t, err)
	require.Len(t, byPrice, 3)
	assert.Equal(t, []string{"Barba", "Corte", "Armario"}, names(byPrice))

	byName, err := f.catalog.ListSorted(ctx, "nombre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Armario", "Barba", "Corte"}, names(byName))

	_, err = f.catalog.ListSorted(ctx, "color")
	requireKind(t, err, KindBadRequest)

	hair, err := f.catalog.ListByCategory(ctx, "PELUQUERÍA")
	require.NoError(t, err)
	assert.Len(t, hair, 2)

	_, err = f.catalog.ListByCategory(ctx, "Astrología")
	requireKind(t, err, KindBadRequest)

	mine, err := f.catalog.ListByProvider(ctx, provider.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	_, err = f.catalog.ListByProvider(ctx, 999)
	requireKind(t, err, KindNotFound)

	assert.Len(t, f.catalog.Categories(), 6)
}

func names(list []ServiceView) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Name)
	}
	return out
}

func TestUpdateService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	intruder := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, owner)

	updated, err := f.catalog.Update(ctx, asActor(owner), svc.ID, ServiceInput{Price: price(75), Zone: "Sur"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.Price)
	assert.Equal(t, "Sur", updated.Zone)
	assert.Equal(t, svc.Name, updated.Name)

	_, err = f.catalog.Update(ctx, asActor(intruder), svc.ID, ServiceInput{Price: price(1)})
	requireKind(t, err, KindForbidden)
	_, err = f.catalog.Update(ctx, asActor(owner), svc.ID, ServiceInput{Category: "Cocina"})
	requireKind(t, err, KindBadRequest)
	_, err = f.catalog.Update(ctx, asActor(owner), 999, ServiceInput{})
	requireKind(t, err, KindNotFound)
}

func TestDeleteServiceCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	seeker := f.seeker(t)
	a := f.book(t, seeker, provider, svc, pastMonday, "09:00")
	r, err := f.reviews.Create(ctx, seeker.ID, ReviewInput{AppointmentID: a.ID, Rating: 9})
	require.NoError(t, err)

	requireKind(t, f.catalog.Delete(ctx, asActor(seeker), svc.ID), KindForbidden)
	require.NoError(t, f.catalog.Delete(ctx, asActor(provider), svc.ID))

	_, err = f.catalog.Get(ctx, svc.ID)
	requireKind(t, err, KindNotFound)
	_, err = f.appointments.Get(ctx, a.ID)
	requireKind(t, err, KindNotFound)
	_, err = f.reviews.Get(ctx, r.ID)
	requireKind(t, err, KindNotFound)

	requireKind(t, f.catalog.Delete(ctx, asActor(provider), svc.ID), KindNotFound)
}

func TestAttachPhoto(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	provider := f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc := f.service(t, provider)
	_, err := f.catalog.AttachPhoto(ctx, asActor(provider), svc.ID, strings.NewReader("img"))
	requireKind(t, err, KindUnavailable)

	up := &fakeUploader{}
	f = newFixture(t, WithUploader(up))
	provider = f.provider(t, []string{"Lunes"}, "08:00", "18:00")
	svc = f.service(t, provider)

	v, err := f.catalog.AttachPhoto(ctx, asActor(provider), svc.ID, strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+up.publicID+".jpg", v.Photo)

	stored, err := f.catalog.Get(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Photo, stored.Photo)

	up.err = errors.New("boom")
	_, err = f.catalog.AttachPhoto(ctx, asActor(provider), svc.ID, strings.NewReader("img"))
	requireKind(t, err, KindUnavailable)
}
