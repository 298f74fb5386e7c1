package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the repositories behind one unit of work.
type Store interface {
	Users() UserRepository
	Services() ServiceRepository
	Appointments() AppointmentRepository
	Reviews() ReviewRepository

	// Transaction runs fn against a store bound to a single transaction.
	// Returning an error from fn rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uint) error
}

// ServiceOrder is a column services can be listed by.
type ServiceOrder string

const (
	OrderByID     ServiceOrder = "id"
	OrderByName   ServiceOrder = "nombre"
	OrderByPrice  ServiceOrder = "precio"
	OrderByRating ServiceOrder = "valoracionPromedio"
)

func (o ServiceOrder) Valid() bool {
	switch o {
	case OrderByID, OrderByName, OrderByPrice, OrderByRating:
		return true
	}
	return false
}

type ServiceRepository interface {
	Create(ctx context.Context, s *models.Service) error
	Save(ctx context.Context, s *models.Service) error
	FindByID(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, order ServiceOrder) ([]models.Service, error)
	FindByCategory(ctx context.Context, category string) ([]models.Service, error)
	FindByProvider(ctx context.Context, providerID uint) ([]models.Service, error)
	SetAverageRating(ctx context.Context, id uint, avg float64) error
	Delete(ctx context.Context, id uint) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	Save(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	FindBySeeker(ctx context.Context, seekerID uint) ([]models.Appointment, error)
	FindByProvider(ctx context.Context, providerID uint) ([]models.Appointment, error)
	FindByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	// CountAtSlot counts the provider's appointments at (date, hour),
	// ignoring excludeID when it is non-zero.
	CountAtSlot(ctx context.Context, providerID uint, date time.Time, hour datatypes.Time, excludeID uint) (int64, error)
	SetStatus(ctx context.Context, id uint, status models.AppointmentStatus) error
	Delete(ctx context.Context, id uint) error
	DeleteByService(ctx context.Context, serviceID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	Save(ctx context.Context, r *models.Review) error
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	FindByService(ctx context.Context, serviceID uint) ([]models.Review, error)
	FindByAppointment(ctx context.Context, appointmentID uint) (*models.Review, error)
	// FindByUser returns reviews written by or about the user.
	FindByUser(ctx context.Context, userID uint) ([]models.Review, error)
	CountBySeekerAndAppointment(ctx context.Context, seekerID, appointmentID uint) (int64, error)
	// AverageRating is the mean rating of the service's reviews, 0 when it has none.
	AverageRating(ctx context.Context, serviceID uint) (float64, error)
	Delete(ctx context.Context, id uint) error
	DeleteByAppointment(ctx context.Context, appointmentID uint) error
	DeleteByService(ctx context.Context, serviceID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}
