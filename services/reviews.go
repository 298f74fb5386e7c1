package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/utils"
)

const EventReviewCreated = "resena.creada"

type ReviewInput struct {
	AppointmentID uint   `json:"id_cita"`
	Comment       string `json:"comentario"`
	Rating        int    `json:"valoracion"`
}

// ReviewEvent is published after a review is stored.
type ReviewEvent struct {
	ReviewID      uint    `json:"id_resena"`
	AppointmentID uint    `json:"id_cita"`
	ServiceID     uint    `json:"id_servicio"`
	Rating        int     `json:"valoracion"`
	AverageRating float64 `json:"valoracion_promedio"`
}

// ReviewService keeps one review per appointment and the derived average
// rating of every reviewed service.
type ReviewService struct {
	store repository.Store
	opts  options
}

func NewReviewService(store repository.Store, opts ...Option) *ReviewService {
	return &ReviewService{store: store, opts: buildOptions(opts)}
}

func validateRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return badRequest("valoracion must be between %d and %d", models.MinRating, models.MaxRating)
	}
	return nil
}

// recomputeRating stores the mean rating of the service's reviews, 0 when none remain.
func recomputeRating(ctx context.Context, tx repository.Store, serviceID uint) error {
	avg, err := tx.Reviews().AverageRating(ctx, serviceID)
	if err != nil {
		return err
	}
	return tx.Services().SetAverageRating(ctx, serviceID, avg)
}

// Create stores the seeker's review of an appointment. Service, seeker and
// provider are taken from the appointment itself.
func (s *ReviewService) Create(ctx context.Context, seekerID uint, in ReviewInput) (*ReviewView, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	var (
		created *models.Review
		avg     float64
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		a, err := findAppointment(ctx, tx, in.AppointmentID)
		if err != nil {
			return err
		}
		if a.SeekerID != seekerID {
			return forbidden("only the seeker of appointment %d may review it", a.ID)
		}
		n, err := tx.Reviews().CountBySeekerAndAppointment(ctx, seekerID, a.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflict("appointment %d already reviewed by this user", a.ID)
		}

		r := &models.Review{
			Comment:       strings.TrimSpace(in.Comment),
			Date:          datatypes.Date(utils.Today(s.opts.now())),
			Rating:        in.Rating,
			AppointmentID: a.ID,
			ServiceID:     a.ServiceID,
			SeekerID:      a.SeekerID,
			ProviderID:    a.ProviderID,
		}
		if err := tx.Reviews().Create(ctx, r); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return conflict("appointment %d already reviewed by this user", a.ID)
			}
			return err
		}
		if err := recomputeRating(ctx, tx, a.ServiceID); err != nil {
			return err
		}
		if avg, err = tx.Reviews().AverageRating(ctx, a.ServiceID); err != nil {
			return err
		}
		r.Service, r.Seeker, r.Provider = a.Service, a.Seeker, a.Provider
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.opts.publisher != nil {
		ev := ReviewEvent{
			ReviewID:      created.ID,
			AppointmentID: created.AppointmentID,
			ServiceID:     created.ServiceID,
			Rating:        created.Rating,
			AverageRating: avg,
		}
		if err := s.opts.publisher.Publish(ctx, EventReviewCreated, ev); err != nil {
			log.Warnf("publish %s for review %d: %v", EventReviewCreated, created.ID, err)
		}
	}
	v := newReviewView(created)
	return &v, nil
}

// Update overwrites comment and rating only.
func (s *ReviewService) Update(ctx context.Context, actor Actor, id uint, in ReviewInput) (*ReviewView, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	var updated *models.Review
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		r, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.CanActFor(r.SeekerID) {
			return forbidden("review %d belongs to another user", id)
		}
		r.Comment = strings.TrimSpace(in.Comment)
		r.Rating = in.Rating
		if err := tx.Reviews().Save(ctx, r); err != nil {
			return err
		}
		if err := recomputeRating(ctx, tx, r.ServiceID); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	v := newReviewView(updated)
	return &v, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		r, err := s.find(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.CanActFor(r.SeekerID) {
			return forbidden("review %d belongs to another user", id)
		}
		if err := tx.Reviews().Delete(ctx, id); err != nil {
			return err
		}
		return recomputeRating(ctx, tx, r.ServiceID)
	})
}

func (s *ReviewService) find(ctx context.Context, tx repository.Store, id uint) (*models.Review, error) {
	r, err := tx.Reviews().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("review %d not found", id)
	}
	return r, err
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*ReviewView, error) {
	r, err := s.find(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	v := newReviewView(r)
	return &v, nil
}

func (s *ReviewService) List(ctx context.Context) ([]ReviewView, error) {
	list, err := s.store.Reviews().List(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newReviewView), nil
}

func (s *ReviewService) ListByService(ctx context.Context, serviceID uint) ([]ReviewView, error) {
	if _, err := findService(ctx, s.store, serviceID); err != nil {
		return nil, err
	}
	list, err := s.store.Reviews().FindByService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newReviewView), nil
}

// FindByAppointment returns the appointment's review, or an empty list when
// it has none yet.
func (s *ReviewService) FindByAppointment(ctx context.Context, appointmentID uint) ([]ReviewView, error) {
	if _, err := findAppointment(ctx, s.store, appointmentID); err != nil {
		return nil, err
	}
	r, err := s.store.Reviews().FindByAppointment(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return []ReviewView{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []ReviewView{newReviewView(r)}, nil
}
