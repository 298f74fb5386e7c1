// Package memory is an in-process Store used by tests and local demos.
// It enforces the same unique constraints as the Postgres schema.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
)

type tables struct {
	users        map[uint]models.User
	services     map[uint]models.Service
	appointments map[uint]models.Appointment
	reviews      map[uint]models.Review
	seq          uint
}

func (t *tables) clone() tables {
	c := tables{
		users:        make(map[uint]models.User, len(t.users)),
		services:     make(map[uint]models.Service, len(t.services)),
		appointments: make(map[uint]models.Appointment, len(t.appointments)),
		reviews:      make(map[uint]models.Review, len(t.reviews)),
		seq:          t.seq,
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.services {
		c.services[k] = v
	}
	for k, v := range t.appointments {
		c.appointments[k] = v
	}
	for k, v := range t.reviews {
		c.reviews[k] = v
	}
	return c
}

type Store struct {
	mu   *sync.Mutex
	txMu *sync.Mutex
	data *tables
	inTx bool
	now  func() time.Time
}

func New() *Store {
	return &Store{
		mu:   &sync.Mutex{},
		txMu: &sync.Mutex{},
		data: &tables{
			users:        map[uint]models.User{},
			services:     map[uint]models.Service{},
			appointments: map[uint]models.Appointment{},
			reviews:      map[uint]models.Review{},
		},
		now: time.Now,
	}
}

func (s *Store) Users() repository.UserRepository               { return users{s} }
func (s *Store) Services() repository.ServiceRepository         { return services{s} }
func (s *Store) Appointments() repository.AppointmentRepository { return appointments{s} }
func (s *Store) Reviews() repository.ReviewRepository           { return reviews{s} }

// Transaction serializes fn against other transactions and restores the
// previous contents when fn fails.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	tx := *s
	tx.inTx = true
	if err := fn(&tx); err != nil {
		s.mu.Lock()
		*s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) nextID() uint {
	s.data.seq++
	return s.data.seq
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sortByID[T any](list []T, id func(T) uint) {
	sort.Slice(list, func(i, j int) bool { return id(list[i]) < id(list[j]) })
}

// Users

type users struct{ s *Store }

func (r users) Create(ctx context.Context, u *models.User) error {
	defer r.s.lock()()
	for _, other := range r.s.data.users {
		if strings.EqualFold(other.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.s.nextID()
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.data.users[u.ID] = *u
	return nil
}

func (r users) Save(ctx context.Context, u *models.User) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.s.data.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	u.UpdatedAt = r.s.now()
	r.s.data.users[u.ID] = *u
	return nil
}

func (r users) FindByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r users) List(ctx context.Context) ([]models.User, error) {
	defer r.s.lock()()
	list := make([]models.User, 0, len(r.s.data.users))
	for _, u := range r.s.data.users {
		list = append(list, u)
	}
	sortByID(list, func(u models.User) uint { return u.ID })
	return list, nil
}

func (r users) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.users, id)
	return nil
}

// Services

type services struct{ s *Store }

func (r services) withProvider(svc models.Service) models.Service {
	if p, ok := r.s.data.users[svc.ProviderID]; ok {
		svc.Provider = &p
	}
	return svc
}

func (r services) Create(ctx context.Context, svc *models.Service) error {
	defer r.s.lock()()
	svc.ID = r.s.nextID()
	svc.CreatedAt = r.s.now()
	svc.UpdatedAt = svc.CreatedAt
	stored := *svc
	stored.Provider = nil
	r.s.data.services[svc.ID] = stored
	return nil
}

func (r services) Save(ctx context.Context, svc *models.Service) error {
	defer r.s.lock()()
	if _, ok := r.s.data.services[svc.ID]; !ok {
		return repository.ErrNotFound
	}
	svc.UpdatedAt = r.s.now()
	stored := *svc
	stored.Provider = nil
	r.s.data.services[svc.ID] = stored
	return nil
}

func (r services) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	defer r.s.lock()()
	svc, ok := r.s.data.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	svc = r.withProvider(svc)
	return &svc, nil
}

func (r services) filter(keep func(models.Service) bool) []models.Service {
	list := []models.Service{}
	for _, svc := range r.s.data.services {
		if keep(svc) {
			list = append(list, r.withProvider(svc))
		}
	}
	sortByID(list, func(s models.Service) uint { return s.ID })
	return list
}

func (r services) List(ctx context.Context, order repository.ServiceOrder) ([]models.Service, error) {
	defer r.s.lock()()
	list := r.filter(func(models.Service) bool { return true })
	switch order {
	case repository.OrderByName:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	case repository.OrderByPrice:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	case repository.OrderByRating:
		sort.SliceStable(list, func(i, j int) bool { return list[i].AverageRating > list[j].AverageRating })
	}
	return list, nil
}

func (r services) FindByCategory(ctx context.Context, category string) ([]models.Service, error) {
	defer r.s.lock()()
	return r.filter(func(s models.Service) bool { return strings.EqualFold(s.Category, category) }), nil
}

func (r services) FindByProvider(ctx context.Context, providerID uint) ([]models.Service, error) {
	defer r.s.lock()()
	return r.filter(func(s models.Service) bool { return s.ProviderID == providerID }), nil
}

func (r services) SetAverageRating(ctx context.Context, id uint, avg float64) error {
	defer r.s.lock()()
	svc, ok := r.s.data.services[id]
	if !ok {
		return repository.ErrNotFound
	}
	svc.AverageRating = avg
	r.s.data.services[id] = svc
	return nil
}

func (r services) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.services, id)
	return nil
}

// Appointments

type appointments struct{ s *Store }

func (r appointments) hydrate(a models.Appointment) models.Appointment {
	if svc, ok := r.s.data.services[a.ServiceID]; ok {
		a.Service = &svc
	}
	if u, ok := r.s.data.users[a.SeekerID]; ok {
		a.Seeker = &u
	}
	if u, ok := r.s.data.users[a.ProviderID]; ok {
		a.Provider = &u
	}
	return a
}

func (r appointments) slotTaken(a *models.Appointment) bool {
	for id, other := range r.s.data.appointments {
		if id != a.ID && other.ProviderID == a.ProviderID &&
			sameDay(time.Time(other.Date), time.Time(a.Date)) && other.Hour == a.Hour {
			return true
		}
	}
	return false
}

func (r appointments) store(a *models.Appointment) {
	stored := *a
	stored.Service, stored.Seeker, stored.Provider = nil, nil, nil
	r.s.data.appointments[a.ID] = stored
}

func (r appointments) Create(ctx context.Context, a *models.Appointment) error {
	defer r.s.lock()()
	if r.slotTaken(a) {
		return repository.ErrDuplicate
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	a.ID = r.s.nextID()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.store(a)
	return nil
}

func (r appointments) Save(ctx context.Context, a *models.Appointment) error {
	defer r.s.lock()()
	if _, ok := r.s.data.appointments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.slotTaken(a) {
		return repository.ErrDuplicate
	}
	a.UpdatedAt = r.s.now()
	r.store(a)
	return nil
}

func (r appointments) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	defer r.s.lock()()
	a, ok := r.s.data.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a = r.hydrate(a)
	return &a, nil
}

func (r appointments) filter(keep func(models.Appointment) bool) []models.Appointment {
	list := []models.Appointment{}
	for _, a := range r.s.data.appointments {
		if keep(a) {
			list = append(list, r.hydrate(a))
		}
	}
	sortByID(list, func(a models.Appointment) uint { return a.ID })
	return list
}

func (r appointments) List(ctx context.Context) ([]models.Appointment, error) {
	defer r.s.lock()()
	return r.filter(func(models.Appointment) bool { return true }), nil
}

func (r appointments) FindBySeeker(ctx context.Context, seekerID uint) ([]models.Appointment, error) {
	defer r.s.lock()()
	return r.filter(func(a models.Appointment) bool { return a.SeekerID == seekerID }), nil
}

func (r appointments) FindByProvider(ctx context.Context, providerID uint) ([]models.Appointment, error) {
	defer r.s.lock()()
	return r.filter(func(a models.Appointment) bool { return a.ProviderID == providerID }), nil
}

func (r appointments) FindByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	defer r.s.lock()()
	return r.filter(func(a models.Appointment) bool { return a.Status == status }), nil
}

func (r appointments) CountAtSlot(ctx context.Context, providerID uint, date time.Time, hour datatypes.Time, excludeID uint) (int64, error) {
	defer r.s.lock()()
	var n int64
	for id, a := range r.s.data.appointments {
		if excludeID != 0 && id == excludeID {
			continue
		}
		if a.ProviderID == providerID && sameDay(time.Time(a.Date), date) && a.Hour == hour {
			n++
		}
	}
	return n, nil
}

func (r appointments) SetStatus(ctx context.Context, id uint, status models.AppointmentStatus) error {
	defer r.s.lock()()
	a, ok := r.s.data.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = r.s.now()
	r.s.data.appointments[id] = a
	return nil
}

func (r appointments) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.appointments, id)
	return nil
}

func (r appointments) DeleteByService(ctx context.Context, serviceID uint) error {
	defer r.s.lock()()
	for id, a := range r.s.data.appointments {
		if a.ServiceID == serviceID {
			delete(r.s.data.appointments, id)
		}
	}
	return nil
}

func (r appointments) DeleteByUser(ctx context.Context, userID uint) error {
	defer r.s.lock()()
	for id, a := range r.s.data.appointments {
		if a.SeekerID == userID || a.ProviderID == userID {
			delete(r.s.data.appointments, id)
		}
	}
	return nil
}

// Reviews

type reviews struct{ s *Store }

func (r reviews) hydrate(rv models.Review) models.Review {
	if svc, ok := r.s.data.services[rv.ServiceID]; ok {
		rv.Service = &svc
	}
	if u, ok := r.s.data.users[rv.SeekerID]; ok {
		rv.Seeker = &u
	}
	if u, ok := r.s.data.users[rv.ProviderID]; ok {
		rv.Provider = &u
	}
	return rv
}

func (r reviews) store(rv *models.Review) {
	stored := *rv
	stored.Appointment, stored.Service, stored.Seeker, stored.Provider = nil, nil, nil, nil
	r.s.data.reviews[rv.ID] = stored
}

func (r reviews) Create(ctx context.Context, rv *models.Review) error {
	defer r.s.lock()()
	for _, other := range r.s.data.reviews {
		if other.AppointmentID == rv.AppointmentID {
			return repository.ErrDuplicate
		}
	}
	rv.ID = r.s.nextID()
	rv.CreatedAt = r.s.now()
	rv.UpdatedAt = rv.CreatedAt
	r.store(rv)
	return nil
}

func (r reviews) Save(ctx context.Context, rv *models.Review) error {
	defer r.s.lock()()
	if _, ok := r.s.data.reviews[rv.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, other := range r.s.data.reviews {
		if id != rv.ID && other.AppointmentID == rv.AppointmentID {
			return repository.ErrDuplicate
		}
	}
	rv.UpdatedAt = r.s.now()
	r.store(rv)
	return nil
}

func (r reviews) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	defer r.s.lock()()
	rv, ok := r.s.data.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rv = r.hydrate(rv)
	return &rv, nil
}

func (r reviews) filter(keep func(models.Review) bool) []models.Review {
	list := []models.Review{}
	for _, rv := range r.s.data.reviews {
		if keep(rv) {
			list = append(list, r.hydrate(rv))
		}
	}
	sortByID(list, func(rv models.Review) uint { return rv.ID })
	return list
}

func (r reviews) List(ctx context.Context) ([]models.Review, error) {
	defer r.s.lock()()
	return r.filter(func(models.Review) bool { return true }), nil
}

func (r reviews) FindByService(ctx context.Context, serviceID uint) ([]models.Review, error) {
	defer r.s.lock()()
	return r.filter(func(rv models.Review) bool { return rv.ServiceID == serviceID }), nil
}

func (r reviews) FindByAppointment(ctx context.Context, appointmentID uint) (*models.Review, error) {
	defer r.s.lock()()
	for _, rv := range r.s.data.reviews {
		if rv.AppointmentID == appointmentID {
			rv = r.hydrate(rv)
			return &rv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r reviews) FindByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	defer r.s.lock()()
	return r.filter(func(rv models.Review) bool { return rv.SeekerID == userID || rv.ProviderID == userID }), nil
}

func (r reviews) CountBySeekerAndAppointment(ctx context.Context, seekerID, appointmentID uint) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, rv := range r.s.data.reviews {
		if rv.SeekerID == seekerID && rv.AppointmentID == appointmentID {
			n++
		}
	}
	return n, nil
}

func (r reviews) AverageRating(ctx context.Context, serviceID uint) (float64, error) {
	defer r.s.lock()()
	var sum, n int
	for _, rv := range r.s.data.reviews {
		if rv.ServiceID == serviceID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (r reviews) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.reviews, id)
	return nil
}

func (r reviews) deleteWhere(match func(models.Review) bool) {
	for id, rv := range r.s.data.reviews {
		if match(rv) {
			delete(r.s.data.reviews, id)
		}
	}
}

func (r reviews) DeleteByAppointment(ctx context.Context, appointmentID uint) error {
	defer r.s.lock()()
	r.deleteWhere(func(rv models.Review) bool { return rv.AppointmentID == appointmentID })
	return nil
}

func (r reviews) DeleteByService(ctx context.Context, serviceID uint) error {
	defer r.s.lock()()
	r.deleteWhere(func(rv models.Review) bool { return rv.ServiceID == serviceID })
	return nil
}

func (r reviews) DeleteByUser(ctx context.Context, userID uint) error {
	defer r.s.lock()()
	r.deleteWhere(func(rv models.Review) bool { return rv.SeekerID == userID || rv.ProviderID == userID })
	return nil
}
