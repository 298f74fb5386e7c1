package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/repository/memory"
	"github.com/meinhoongagan/conectados/utils"
)

// Wednesday
var fixedNow = time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)

const (
	pastMonday = "2024-06-10"
	nextMonday = "2024-06-17"
	nextTues   = "2024-06-18"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string]int
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[string]int{}
	}
	p.events[key]++
	return nil
}

func (p *recordingPublisher) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[key]
}

type recordingMailer struct {
	mu sync.Mutex
	to []string
}

func (m *recordingMailer) SendEmail(to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	return nil
}

type fixture struct {
	store        repository.Store
	users        *UserService
	catalog      *CatalogService
	appointments *AppointmentService
	reviews      *ReviewService
	publisher    *recordingPublisher
	mailer       *recordingMailer
}

var emailSeq atomic.Int64

func newFixture(t *testing.T, extra ...Option) *fixture {
	t.Helper()
	return newFixtureOn(t, memory.New(), extra...)
}

// newFixtureOn wires the services over store.
func newFixtureOn(t *testing.T, store repository.Store, extra ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:     store,
		publisher: &recordingPublisher{},
		mailer:    &recordingMailer{},
	}
	opts := append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithPublisher(f.publisher),
		WithMailer(f.mailer),
	}, extra...)
	tokens := utils.TokenIssuer{
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
	f.users = NewUserService(f.store, tokens, bcrypt.MinCost, opts...)
	f.catalog = NewCatalogService(f.store, opts...)
	f.appointments = NewAppointmentService(f.store, opts...)
	f.reviews = NewReviewService(f.store, opts...)
	return f
}

func uniqueEmail() string {
	return strings.ToLower(fmt.Sprintf("%s.%d@example.com", gofakeit.Username(), emailSeq.Add(1)))
}

func asActor(v *UserView) Actor {
	return Actor{ID: v.ID, Role: models.Role(v.ActiveRole)}
}

func (f *fixture) seeker(t *testing.T) *UserView {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Name:     gofakeit.Name(),
		Email:    uniqueEmail(),
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) provider(t *testing.T, days []string, start, end string) *UserView {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Name:     gofakeit.Name(),
		Email:    uniqueEmail(),
		Password: "secret123",
		Roles:    []string{"PRESTADOR"},
		ProviderDetailsInput: ProviderDetailsInput{
			Zone:         gofakeit.City(),
			Categories:   []string{"Plomería"},
			Availability: days,
			WorkStart:    start,
			WorkEnd:      end,
		},
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) service(t *testing.T, provider *UserView) *ServiceView {
	t.Helper()
	price := 50.0
	svc, err := f.catalog.Create(context.Background(), asActor(provider), ServiceInput{
		Name:     "Reparación de cañerías",
		Price:    &price,
		Category: "plomería",
	})
	require.NoError(t, err)
	return svc
}

func (f *fixture) book(t *testing.T, seeker, provider *UserView, svc *ServiceView, date, hour string) *AppointmentView {
	t.Helper()
	a, err := f.appointments.Create(context.Background(), asActor(seeker), AppointmentInput{
		Date:       date,
		Hour:       hour,
		ServiceID:  svc.ID,
		SeekerID:   seeker.ID,
		ProviderID: provider.ID,
	})
	require.NoError(t, err)
	return a
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
