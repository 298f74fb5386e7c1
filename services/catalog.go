package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/utils"
)

type ServiceInput struct {
	Name        string   `json:"nombre"`
	Price       *float64 `json:"precio"`
	Zone        string   `json:"zona"`
	Description string   `json:"descripcion"`
	Photo       string   `json:"foto"`
	Category    string   `json:"categoria"`
	ProviderID  uint     `json:"id_prestador"`
}

// CatalogService manages the services providers publish.
type CatalogService struct {
	store repository.Store
	opts  options
}

func NewCatalogService(store repository.Store, opts ...Option) *CatalogService {
	return &CatalogService{store: store, opts: buildOptions(opts)}
}

func (s *CatalogService) Categories() []string {
	return append([]string(nil), models.Categories...)
}

func (s *CatalogService) Create(ctx context.Context, actor Actor, in ServiceInput) (*ServiceView, error) {
	if in.ProviderID == 0 {
		in.ProviderID = actor.ID
	}
	if !actor.CanActFor(in.ProviderID) {
		return nil, forbidden("cannot publish services for another provider")
	}

	svc := &models.Service{ProviderID: in.ProviderID}
	if err := applyServiceInput(svc, in, true); err != nil {
		return nil, err
	}

	provider, err := s.store.Users().FindByID(ctx, in.ProviderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("provider %d not found", in.ProviderID)
		}
		return nil, err
	}
	if !provider.HasRole(models.RoleProvider) {
		return nil, forbidden("user %d is not a provider", provider.ID)
	}

	if err := s.store.Services().Create(ctx, svc); err != nil {
		return nil, err
	}
	svc.Provider = provider
	v := newServiceView(svc)
	return &v, nil
}

func applyServiceInput(svc *models.Service, in ServiceInput, creating bool) error {
	if name := strings.TrimSpace(in.Name); name != "" {
		svc.Name = name
	} else if creating {
		return badRequest("nombre is required")
	}

	if in.Price != nil {
		if *in.Price < 0 {
			return badRequest("precio cannot be negative")
		}
		svc.Price = *in.Price
	}

	if in.Category != "" || creating {
		category, ok := models.CanonicalCategory(in.Category)
		if !ok {
			return badRequest("unknown category %q, expected one of %s", in.Category, strings.Join(models.Categories, ", "))
		}
		svc.Category = category
	}

	if in.Zone != "" {
		svc.Zone = strings.TrimSpace(in.Zone)
	}
	if in.Description != "" {
		svc.Description = strings.TrimSpace(in.Description)
	}
	if in.Photo != "" {
		svc.Photo = strings.TrimSpace(in.Photo)
	}
	return nil
}

func (s *CatalogService) find(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := s.store.Services().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("service %d not found", id)
	}
	return svc, err
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*ServiceView, error) {
	svc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := newServiceView(svc)
	return &v, nil
}

func (s *CatalogService) List(ctx context.Context) ([]ServiceView, error) {
	return s.ListSorted(ctx, string(repository.OrderByID))
}

// ListSorted orders by id, nombre, precio or valoracionPromedio (best first).
func (s *CatalogService) ListSorted(ctx context.Context, sortBy string) ([]ServiceView, error) {
	order := repository.ServiceOrder(sortBy)
	if sortBy == "" {
		order = repository.OrderByID
	}
	if !order.Valid() {
		return nil, badRequest("cannot sort by %q", sortBy)
	}
	list, err := s.store.Services().List(ctx, order)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newServiceView), nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]ServiceView, error) {
	canonical, ok := models.CanonicalCategory(category)
	if !ok {
		return nil, badRequest("unknown category %q", category)
	}
	list, err := s.store.Services().FindByCategory(ctx, canonical)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newServiceView), nil
}

func (s *CatalogService) ListByProvider(ctx context.Context, providerID uint) ([]ServiceView, error) {
	if _, err := s.store.Users().FindByID(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("provider %d not found", providerID)
		}
		return nil, err
	}
	list, err := s.store.Services().FindByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return mapViews(list, newServiceView), nil
}

func (s *CatalogService) Update(ctx context.Context, actor Actor, id uint, in ServiceInput) (*ServiceView, error) {
	svc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(svc.ProviderID) {
		return nil, forbidden("service %d belongs to another provider", id)
	}
	if err := applyServiceInput(svc, in, false); err != nil {
		return nil, err
	}
	if err := s.store.Services().Save(ctx, svc); err != nil {
		return nil, err
	}
	v := newServiceView(svc)
	return &v, nil
}

// Delete removes the service with its appointments and reviews.
func (s *CatalogService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		svc, err := tx.Services().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("service %d not found", id)
			}
			return err
		}
		if !actor.CanActFor(svc.ProviderID) {
			return forbidden("service %d belongs to another provider", id)
		}
		return deleteServiceCascade(ctx, tx, id)
	})
}

func deleteServiceCascade(ctx context.Context, tx repository.Store, serviceID uint) error {
	if err := tx.Reviews().DeleteByService(ctx, serviceID); err != nil {
		return err
	}
	if err := tx.Appointments().DeleteByService(ctx, serviceID); err != nil {
		return err
	}
	return tx.Services().Delete(ctx, serviceID)
}

// AttachPhoto uploads file and stores its URL as the service photo.
func (s *CatalogService) AttachPhoto(ctx context.Context, actor Actor, id uint, file interface{}) (*ServiceView, error) {
	if s.opts.uploader == nil {
		return nil, newError(KindUnavailable, "photo uploads are not configured")
	}
	svc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(svc.ProviderID) {
		return nil, forbidden("service %d belongs to another provider", id)
	}

	url, err := s.opts.uploader.Upload(ctx, file, utils.PhotoPublicID(svc.ID))
	if err != nil {
		log.Errorf("upload photo for service %d: %v", svc.ID, err)
		return nil, &Error{Kind: KindUnavailable, Message: "photo upload failed", Err: err}
	}
	svc.Photo = url
	if err := s.store.Services().Save(ctx, svc); err != nil {
		return nil, err
	}
	v := newServiceView(svc)
	return &v, nil
}
