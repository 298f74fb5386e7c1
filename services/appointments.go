package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/redis"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/utils"
)

const (
	EventAppointmentCreated   = "cita.creada"
	EventAppointmentCompleted = "cita.completada"
)

type AppointmentInput struct {
	Date       string `json:"fecha"`
	Hour       string `json:"hora"`
	Status     string `json:"estado"`
	ServiceID  uint   `json:"id_servicio"`
	SeekerID   uint   `json:"id_buscador"`
	ProviderID uint   `json:"id_prestador"`
}

// AppointmentEvent is published for every booking and completion.
type AppointmentEvent struct {
	AppointmentID uint      `json:"id_cita"`
	ServiceID     uint      `json:"id_servicio"`
	SeekerID      uint      `json:"id_buscador"`
	ProviderID    uint      `json:"id_prestador"`
	Date          string    `json:"fecha"`
	Hour          string    `json:"hora"`
	Status        string    `json:"estado"`
	OccurredAt    time.Time `json:"ocurrido_en"`
}

type AppointmentService struct {
	store repository.Store
	opts  options
}

func NewAppointmentService(store repository.Store, opts ...Option) *AppointmentService {
	return &AppointmentService{store: store, opts: buildOptions(opts)}
}

func slotKey(providerID uint, date time.Time, hour datatypes.Time) string {
	return fmt.Sprintf("%d:%s:%s", providerID, date.Format(utils.DateLayout), utils.FormatClock(hour))
}

func parseSlot(date, hour string) (time.Time, datatypes.Time, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, &Error{Kind: KindBadRequest, Message: "invalid fecha", Err: err}
	}
	h, err := utils.ParseClock(hour)
	if err != nil {
		return time.Time{}, 0, &Error{Kind: KindBadRequest, Message: "invalid hora", Err: err}
	}
	return d, h, nil
}

// checkSlot runs the booking gates in order: slot conflict, then weekday,
// then working hours.
func checkSlot(ctx context.Context, tx repository.Store, provider *models.User, date time.Time, hour datatypes.Time, excludeID uint) error {
	err := utils.CheckAvailability(ctx, tx.Appointments(), provider.ID, date, hour, excludeID)
	if err == nil {
		err = utils.CheckWorkingDayAndHours(provider, date, hour)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, utils.ErrSlotTaken),
		errors.Is(err, utils.ErrDayOff),
		errors.Is(err, utils.ErrNoSchedule),
		errors.Is(err, utils.ErrOutsideHours):
		return conflict("%s", err.Error())
	}
	return err
}

func ownsService(provider *models.User, svc *models.Service) error {
	if svc.ProviderID != provider.ID {
		return conflict("service %d is not offered by provider %d", svc.ID, provider.ID)
	}
	return nil
}

func lockError(err error) error {
	if errors.Is(err, redis.ErrLockNotAcquired) {
		return &Error{Kind: KindConflict, Message: "slot is being booked by someone else, try again", Err: err}
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return &Error{Kind: KindConflict, Message: utils.ErrSlotTaken.Error(), Err: err}
	}
	return err
}

func findUser(ctx context.Context, tx repository.Store, id uint, what string) (*models.User, error) {
	u, err := tx.Users().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("%s %d not found", what, id)
	}
	return u, err
}

func findService(ctx context.Context, tx repository.Store, id uint) (*models.Service, error) {
	svc, err := tx.Services().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("service %d not found", id)
	}
	return svc, err
}

func findAppointment(ctx context.Context, tx repository.Store, id uint) (*models.Appointment, error) {
	a, err := tx.Appointments().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("appointment %d not found", id)
	}
	return a, err
}

// Create books a slot. The seeker must exist and operate as BUSCADOR; the
// provider and service must exist and the service must be the provider's;
// the slot must be free and inside the provider's working days and hours.
func (s *AppointmentService) Create(ctx context.Context, actor Actor, in AppointmentInput) (*AppointmentView, error) {
	if !actor.CanActFor(in.SeekerID) {
		return nil, forbidden("cannot book on behalf of another user")
	}
	date, hour, err := parseSlot(in.Date, in.Hour)
	if err != nil {
		return nil, err
	}

	var created *models.Appointment
	err = s.opts.locker.WithSlotLock(ctx, slotKey(in.ProviderID, date, hour), func(ctx context.Context) error {
		return s.store.Transaction(ctx, func(tx repository.Store) error {
			seeker, err := findUser(ctx, tx, in.SeekerID, "seeker")
			if err != nil {
				return err
			}
			if !seeker.HasRole(models.RoleSeeker) || seeker.ActiveRole != models.RoleSeeker {
				return forbidden("user %d is not operating as %s", seeker.ID, models.RoleSeeker)
			}
			provider, err := findUser(ctx, tx, in.ProviderID, "provider")
			if err != nil {
				return err
			}
			svc, err := findService(ctx, tx, in.ServiceID)
			if err != nil {
				return err
			}
			if err := ownsService(provider, svc); err != nil {
				return err
			}
			if err := checkSlot(ctx, tx, provider, date, hour, 0); err != nil {
				return err
			}

			a := &models.Appointment{
				Date:       datatypes.Date(date),
				Hour:       hour,
				Status:     models.StatusPending,
				ServiceID:  svc.ID,
				SeekerID:   seeker.ID,
				ProviderID: provider.ID,
			}
			if err := tx.Appointments().Create(ctx, a); err != nil {
				return err
			}
			a.Service, a.Seeker, a.Provider = svc, seeker, provider
			created = a
			return nil
		})
	})
	if err != nil {
		return nil, lockError(err)
	}

	log.Infof("appointment %d booked: provider %d at %s", created.ID, created.ProviderID, slotKey(created.ProviderID, date, hour))
	s.notifyBooked(ctx, created)
	v := newAppointmentView(created)
	return &v, nil
}

// Update rewrites the appointment. Zero fields keep their current value and
// the appointment does not conflict with itself.
func (s *AppointmentService) Update(ctx context.Context, actor Actor, id uint, in AppointmentInput) (*AppointmentView, error) {
	current, err := findAppointment(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != current.SeekerID && actor.ID != current.ProviderID {
		return nil, forbidden("appointment %d belongs to other users", id)
	}

	if in.Date == "" {
		in.Date = utils.FormatDate(current.Date)
	}
	if in.Hour == "" {
		in.Hour = utils.FormatClock(current.Hour)
	}
	if in.SeekerID == 0 {
		in.SeekerID = current.SeekerID
	}
	if in.ProviderID == 0 {
		in.ProviderID = current.ProviderID
	}
	if in.ServiceID == 0 {
		in.ServiceID = current.ServiceID
	}
	status := current.Status
	if in.Status != "" {
		if status, err = models.ParseStatus(in.Status); err != nil {
			return nil, &Error{Kind: KindBadRequest, Message: "invalid estado", Err: err}
		}
	}
	date, hour, err := parseSlot(in.Date, in.Hour)
	if err != nil {
		return nil, err
	}

	var updated *models.Appointment
	err = s.opts.locker.WithSlotLock(ctx, slotKey(in.ProviderID, date, hour), func(ctx context.Context) error {
		return s.store.Transaction(ctx, func(tx repository.Store) error {
			a, err := findAppointment(ctx, tx, id)
			if err != nil {
				return err
			}
			seeker, err := findUser(ctx, tx, in.SeekerID, "seeker")
			if err != nil {
				return err
			}
			provider, err := findUser(ctx, tx, in.ProviderID, "provider")
			if err != nil {
				return err
			}
			svc, err := findService(ctx, tx, in.ServiceID)
			if err != nil {
				return err
			}
			if err := ownsService(provider, svc); err != nil {
				return err
			}
			if err := checkSlot(ctx, tx, provider, date, hour, a.ID); err != nil {
				return err
			}

			a.Date = datatypes.Date(date)
			a.Hour = hour
			a.Status = status
			a.SeekerID, a.ProviderID, a.ServiceID = seeker.ID, provider.ID, svc.ID
			if err := tx.Appointments().Save(ctx, a); err != nil {
				return err
			}
			a.Service, a.Seeker, a.Provider = svc, seeker, provider
			updated = a
			return nil
		})
	})
	if err != nil {
		return nil, lockError(err)
	}
	v := newAppointmentView(updated)
	return &v, nil
}

// UpdateStatus sets the status from its textual form. Any transition is
// allowed, including reopening a completed appointment.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor Actor, id uint, raw string) (*AppointmentView, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return nil, &Error{Kind: KindBadRequest, Message: "invalid estado", Err: err}
	}
	a, err := findAppointment(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != a.SeekerID && actor.ID != a.ProviderID {
		return nil, forbidden("appointment %d belongs to other users", id)
	}
	if err := s.store.Appointments().SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status
	if status == models.StatusCompleted {
		s.publish(ctx, EventAppointmentCompleted, a)
	}
	v := newAppointmentView(a)
	return &v, nil
}

// Delete removes the appointment and its review, refreshing the service rating.
func (s *AppointmentService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		a, err := findAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && actor.ID != a.SeekerID && actor.ID != a.ProviderID {
			return forbidden("appointment %d belongs to other users", id)
		}

		review, err := tx.Reviews().FindByAppointment(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if review != nil {
			if err := tx.Reviews().Delete(ctx, review.ID); err != nil {
				return err
			}
		}
		if err := tx.Appointments().Delete(ctx, id); err != nil {
			return err
		}
		if review != nil {
			return recomputeRating(ctx, tx, review.ServiceID)
		}
		return nil
	})
}

func (s *AppointmentService) Get(ctx context.Context, id uint) (*AppointmentView, error) {
	a, err := findAppointment(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	v := newAppointmentView(a)
	return &v, nil
}

func (s *AppointmentService) List(ctx context.Context) ([]AppointmentView, error) {
	list, err := s.store.Appointments().List(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newAppointmentView), nil
}

func (s *AppointmentService) ListBySeeker(ctx context.Context, seekerID uint) ([]AppointmentView, error) {
	if _, err := findUser(ctx, s.store, seekerID, "seeker"); err != nil {
		return nil, err
	}
	list, err := s.store.Appointments().FindBySeeker(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newAppointmentView), nil
}

func (s *AppointmentService) ListByProvider(ctx context.Context, providerID uint) ([]AppointmentView, error) {
	if _, err := findUser(ctx, s.store, providerID, "provider"); err != nil {
		return nil, err
	}
	list, err := s.store.Appointments().FindByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newAppointmentView), nil
}

// Sweep marks every pending appointment dated before today as completed and
// returns the ones it changed. Running it again changes nothing.
func (s *AppointmentService) Sweep(ctx context.Context) ([]AppointmentView, error) {
	today := utils.Today(s.opts.now())
	var completed []models.Appointment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		pending, err := tx.Appointments().FindByStatus(ctx, models.StatusPending)
		if err != nil {
			return err
		}
		for i := range pending {
			a := pending[i]
			if !a.DueForCompletion(today) {
				continue
			}
			if err := tx.Appointments().SetStatus(ctx, a.ID, models.StatusCompleted); err != nil {
				return err
			}
			a.Status = models.StatusCompleted
			completed = append(completed, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(completed) > 0 {
		log.Infof("completion sweep closed %d appointment(s)", len(completed))
	}
	for i := range completed {
		s.publish(ctx, EventAppointmentCompleted, &completed[i])
	}
	return mapViews(completed, newAppointmentView), nil
}

func (s *AppointmentService) publish(ctx context.Context, key string, a *models.Appointment) {
	if s.opts.publisher == nil {
		return
	}
	ev := AppointmentEvent{
		AppointmentID: a.ID,
		ServiceID:     a.ServiceID,
		SeekerID:      a.SeekerID,
		ProviderID:    a.ProviderID,
		Date:          utils.FormatDate(a.Date),
		Hour:          utils.FormatClock(a.Hour),
		Status:        string(a.Status),
		OccurredAt:    s.opts.now().UTC(),
	}
	if err := s.opts.publisher.Publish(ctx, key, ev); err != nil {
		log.Warnf("publish %s for appointment %d: %v", key, a.ID, err)
	}
}

func (s *AppointmentService) notifyBooked(ctx context.Context, a *models.Appointment) {
	s.publish(ctx, EventAppointmentCreated, a)
	if s.opts.mailer == nil {
		return
	}

	subject := fmt.Sprintf("Cita registrada: %s", a.Service.Name)
	body := fmt.Sprintf(`
		<p>Hola,</p>
		<p>Se registró una cita con los siguientes datos:</p>
		<ul>
			<li><strong>Servicio:</strong> %s</li>
			<li><strong>Buscador:</strong> %s</li>
			<li><strong>Prestador:</strong> %s</li>
			<li><strong>Fecha:</strong> %s</li>
			<li><strong>Hora:</strong> %s</li>
			<li><strong>Estado:</strong> %s</li>
		</ul>
	`, a.Service.Name, a.Seeker.Name, a.Provider.Name,
		utils.FormatDate(a.Date), utils.FormatClock(a.Hour), a.Status)

	for _, to := range []string{a.Seeker.Email, a.Provider.Email} {
		if err := s.opts.mailer.SendEmail(to, subject, body); err != nil {
			log.Warnf("booking mail for appointment %d to %s: %v", a.ID, to, err)
		}
	}
}
