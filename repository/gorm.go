package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/conectados/models"
)

const uniqueViolation = "23505"

// GormStore is the Postgres backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository               { return &gormUsers{db: s.db} }
func (s *GormStore) Services() ServiceRepository         { return &gormServices{db: s.db} }
func (s *GormStore) Appointments() AppointmentRepository { return &gormAppointments{db: s.db} }
func (s *GormStore) Reviews() ReviewRepository           { return &gormReviews{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

type gormUsers struct{ db *gorm.DB }

func (r *gormUsers) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *gormUsers) Save(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}

func (r *gormUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *gormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, translate(err)
}

func (r *gormUsers) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.User{}, id))
}

// Services

type gormServices struct{ db *gorm.DB }

var serviceColumns = map[ServiceOrder]string{
	OrderByID:     "id",
	OrderByName:   "name",
	OrderByPrice:  "price",
	OrderByRating: "average_rating DESC",
}

func (r *gormServices) Create(ctx context.Context, s *models.Service) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error)
}

func (r *gormServices) Save(ctx context.Context, s *models.Service) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error)
}

func (r *gormServices) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).Preload("Provider").First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *gormServices) List(ctx context.Context, order ServiceOrder) ([]models.Service, error) {
	column, ok := serviceColumns[order]
	if !ok {
		column = serviceColumns[OrderByID]
	}
	var services []models.Service
	err := r.db.WithContext(ctx).Preload("Provider").Order(column).Order("id").Find(&services).Error
	return services, translate(err)
}

func (r *gormServices) FindByCategory(ctx context.Context, category string) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Preload("Provider").
		Where("LOWER(category) = LOWER(?)", category).Order("id").Find(&services).Error
	return services, translate(err)
}

func (r *gormServices) FindByProvider(ctx context.Context, providerID uint) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Preload("Provider").
		Where("provider_id = ?", providerID).Order("id").Find(&services).Error
	return services, translate(err)
}

func (r *gormServices) SetAverageRating(ctx context.Context, id uint, avg float64) error {
	res := r.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Update("average_rating", avg)
	return deleted(res)
}

func (r *gormServices) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Service{}, id))
}

// Appointments

type gormAppointments struct{ db *gorm.DB }

func (r *gormAppointments) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Service").Preload("Seeker").Preload("Provider")
}

func (r *gormAppointments) Create(ctx context.Context, a *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (r *gormAppointments) Save(ctx context.Context, a *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error)
}

func (r *gormAppointments) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.preloaded(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *gormAppointments) List(ctx context.Context) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.preloaded(ctx).Order("date, hour, id").Find(&list).Error
	return list, translate(err)
}

func (r *gormAppointments) FindBySeeker(ctx context.Context, seekerID uint) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.preloaded(ctx).Where("seeker_id = ?", seekerID).Order("date, hour, id").Find(&list).Error
	return list, translate(err)
}

func (r *gormAppointments) FindByProvider(ctx context.Context, providerID uint) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.preloaded(ctx).Where("provider_id = ?", providerID).Order("date, hour, id").Find(&list).Error
	return list, translate(err)
}

func (r *gormAppointments) FindByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.preloaded(ctx).Where("status = ?", status).Order("id").Find(&list).Error
	return list, translate(err)
}

func (r *gormAppointments) CountAtSlot(ctx context.Context, providerID uint, date time.Time, hour datatypes.Time, excludeID uint) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("provider_id = ? AND date = ? AND hour = ?", providerID, datatypes.Date(date), hour)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, translate(err)
}

func (r *gormAppointments) SetStatus(ctx context.Context, id uint, status models.AppointmentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status)
	return deleted(res)
}

func (r *gormAppointments) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Appointment{}, id))
}

func (r *gormAppointments) DeleteByService(ctx context.Context, serviceID uint) error {
	return translate(r.db.WithContext(ctx).Where("service_id = ?", serviceID).Delete(&models.Appointment{}).Error)
}

func (r *gormAppointments) DeleteByUser(ctx context.Context, userID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("seeker_id = ? OR provider_id = ?", userID, userID).
		Delete(&models.Appointment{}).Error)
}

// Reviews

type gormReviews struct{ db *gorm.DB }

func (r *gormReviews) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Service").Preload("Seeker").Preload("Provider")
}

func (r *gormReviews) Create(ctx context.Context, rv *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error)
}

func (r *gormReviews) Save(ctx context.Context, rv *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(rv).Error)
}

func (r *gormReviews) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.preloaded(ctx).First(&rv, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *gormReviews) List(ctx context.Context) ([]models.Review, error) {
	var list []models.Review
	err := r.preloaded(ctx).Order("id").Find(&list).Error
	return list, translate(err)
}

func (r *gormReviews) FindByService(ctx context.Context, serviceID uint) ([]models.Review, error) {
	var list []models.Review
	err := r.preloaded(ctx).Where("service_id = ?", serviceID).Order("id").Find(&list).Error
	return list, translate(err)
}

func (r *gormReviews) FindByAppointment(ctx context.Context, appointmentID uint) (*models.Review, error) {
	var rv models.Review
	if err := r.preloaded(ctx).Where("appointment_id = ?", appointmentID).First(&rv).Error; err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *gormReviews) FindByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var list []models.Review
	err := r.db.WithContext(ctx).
		Where("seeker_id = ? OR provider_id = ?", userID, userID).Order("id").Find(&list).Error
	return list, translate(err)
}

func (r *gormReviews) CountBySeekerAndAppointment(ctx context.Context, seekerID, appointmentID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("seeker_id = ? AND appointment_id = ?", seekerID, appointmentID).Count(&n).Error
	return n, translate(err)
}

func (r *gormReviews) AverageRating(ctx context.Context, serviceID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").Where("service_id = ?", serviceID).Scan(&avg).Error
	return avg, translate(err)
}

func (r *gormReviews) Delete(ctx context.Context, id uint) error {
	return deleted(r.db.WithContext(ctx).Delete(&models.Review{}, id))
}

func (r *gormReviews) DeleteByAppointment(ctx context.Context, appointmentID uint) error {
	return translate(r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).Delete(&models.Review{}).Error)
}

func (r *gormReviews) DeleteByService(ctx context.Context, serviceID uint) error {
	return translate(r.db.WithContext(ctx).Where("service_id = ?", serviceID).Delete(&models.Review{}).Error)
}

func (r *gormReviews) DeleteByUser(ctx context.Context, userID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("seeker_id = ? OR provider_id = ?", userID, userID).
		Delete(&models.Review{}).Error)
}
