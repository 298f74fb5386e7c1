package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/utils"
)

type RegisterInput struct {
	Name     string   `json:"nombre"`
	Email    string   `json:"email"`
	Password string   `json:"contrasena"`
	Phone    string   `json:"telefono"`
	Photo    string   `json:"foto"`
	Roles    []string `json:"roles"`
	ProviderDetailsInput
}

// ProviderDetailsInput carries the attributes only providers have.
type ProviderDetailsInput struct {
	Zone         string   `json:"zona"`
	Categories   []string `json:"categorias"`
	Description  string   `json:"descripcion"`
	Availability []string `json:"disponibilidad"`
	WorkStart    string   `json:"hora_inicio"`
	WorkEnd      string   `json:"hora_fin"`
}

type ScheduleInput struct {
	Availability []string `json:"disponibilidad"`
	WorkStart    string   `json:"hora_inicio"`
	WorkEnd      string   `json:"hora_fin"`
}

// UpdateUserInput holds a partial profile update; nil fields are left alone.
type UpdateUserInput struct {
	Name        *string `json:"nombre"`
	Email       *string `json:"email"`
	Password    *string `json:"contrasena"`
	Phone       *string `json:"telefono"`
	Photo       *string `json:"foto"`
	Zone        *string `json:"zona"`
	Description *string `json:"descripcion"`
}

type UserService struct {
	store      repository.Store
	tokens     utils.TokenIssuer
	bcryptCost int
	opts       options
}

func NewUserService(store repository.Store, tokens utils.TokenIssuer, bcryptCost int, opts ...Option) *UserService {
	return &UserService{store: store, tokens: tokens, bcryptCost: bcryptCost, opts: buildOptions(opts)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, badRequest("nombre, email and contrasena are required")
	}
	if !validEmail(in.Email) {
		return nil, badRequest("invalid email %q", in.Email)
	}

	user := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      strings.TrimSpace(in.Phone),
		Photo:      strings.TrimSpace(in.Photo),
		Roles:      datatypes.JSONSlice[models.Role]{models.RoleSeeker},
		ActiveRole: models.RoleSeeker,
	}
	for _, raw := range in.Roles {
		role, ok := models.ParseRole(raw)
		if !ok {
			return nil, badRequest("unknown role %q", raw)
		}
		if role == models.RoleAdmin {
			return nil, forbidden("role %s cannot be self assigned", role)
		}
		user.AddRole(role)
	}
	if user.HasRole(models.RoleProvider) {
		if err := applyProviderDetails(user, in.ProviderDetailsInput); err != nil {
			return nil, err
		}
		user.ActiveRole = models.RoleProvider
	}

	hashed, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a user with email %s already exists", in.Email)
		}
		return nil, err
	}
	log.Infof("registered user %d (%s) as %s", user.ID, user.Email, user.ActiveRole)
	v := newUserView(user)
	return &v, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthView, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, unauthorized("invalid credentials")
	}

	// Older accounts may carry no active role.
	if user.ActiveRole == "" || !user.HasRole(user.ActiveRole) {
		user.AddRole(models.RoleSeeker)
		user.ActiveRole = models.RoleSeeker
		if err := s.store.Users().Save(ctx, user); err != nil {
			return nil, err
		}
	}
	return s.authView(user)
}

// Refresh trades a refresh token for a new token pair.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthView, error) {
	id, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "invalid refresh token", Err: err}
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorized("invalid refresh token")
		}
		return nil, err
	}
	return s.authView(user)
}

func (s *UserService) authView(user *models.User) (*AuthView, error) {
	access, refresh, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthView{Token: access, RefreshToken: refresh, User: newUserView(user)}, nil
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("user %d not found", id)
	}
	return user, err
}

func (s *UserService) Get(ctx context.Context, id uint) (*UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := newUserView(user)
	return &v, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*UserView, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("user with email %s not found", email)
		}
		return nil, err
	}
	v := newUserView(user)
	return &v, nil
}

func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	return mapViews(users, newUserView), nil
}

func (s *UserService) Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (*UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(user.ID) {
		return nil, forbidden("cannot modify another user's profile")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, badRequest("nombre cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !validEmail(email) {
			return nil, badRequest("invalid email %q", *in.Email)
		}
		user.Email = email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, badRequest("contrasena cannot be empty")
		}
		hashed, err := utils.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Photo != nil {
		user.Photo = strings.TrimSpace(*in.Photo)
	}
	if in.Zone != nil {
		user.Zone = strings.TrimSpace(*in.Zone)
	}
	if in.Description != nil {
		user.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.store.Users().Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a user with email %s already exists", user.Email)
		}
		return nil, err
	}
	v := newUserView(user)
	return &v, nil
}

// Delete removes the user together with their services, appointments and
// reviews, then refreshes the rating of every surviving service that lost a review.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("user %d not found", id)
			}
			return err
		}
		if !actor.CanActFor(user.ID) {
			return forbidden("cannot delete another user")
		}

		owned, err := tx.Services().FindByProvider(ctx, id)
		if err != nil {
			return err
		}
		for _, svc := range owned {
			if err := deleteServiceCascade(ctx, tx, svc.ID); err != nil {
				return err
			}
		}

		reviews, err := tx.Reviews().FindByUser(ctx, id)
		if err != nil {
			return err
		}
		touched := map[uint]struct{}{}
		for _, r := range reviews {
			touched[r.ServiceID] = struct{}{}
		}
		if err := tx.Reviews().DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Appointments().DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, id); err != nil {
			return err
		}

		for serviceID := range touched {
			if err := recomputeRating(ctx, tx, serviceID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		log.Infof("deleted user %d", id)
		return nil
	})
}

// SwitchActiveRole changes the role the user operates under. The role must
// already be held. A fresh token pair is returned when users switch themselves.
func (s *UserService) SwitchActiveRole(ctx context.Context, actor Actor, id uint, rawRole string) (*AuthView, error) {
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, badRequest("unknown role %q", rawRole)
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(user.ID) {
		return nil, forbidden("cannot change another user's role")
	}
	if !user.HasRole(role) {
		return nil, badRequest("user %d does not hold role %s", id, role)
	}
	user.ActiveRole = role
	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	if actor.ID == user.ID {
		return s.authView(user)
	}
	return &AuthView{User: newUserView(user)}, nil
}

// GrantRole adds role to the user without changing the active one.
func (s *UserService) GrantRole(ctx context.Context, actor Actor, id uint, rawRole string) (*UserView, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only %s may grant roles", models.RoleAdmin)
	}
	role, ok := models.ParseRole(rawRole)
	if !ok {
		return nil, badRequest("unknown role %q", rawRole)
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	user.AddRole(role)
	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	v := newUserView(user)
	return &v, nil
}

// BecomeProvider appends PRESTADOR to the user's roles, stores the provider
// attributes and makes PRESTADOR the active role.
func (s *UserService) BecomeProvider(ctx context.Context, actor Actor, id uint, in ProviderDetailsInput) (*UserView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(user.ID) {
		return nil, forbidden("cannot modify another user's profile")
	}
	if err := applyProviderDetails(user, in); err != nil {
		return nil, err
	}
	user.AddRole(models.RoleProvider)
	user.ActiveRole = models.RoleProvider
	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	log.Infof("user %d is now a provider", user.ID)
	v := newUserView(user)
	return &v, nil
}

func (s *UserService) GetSchedule(ctx context.Context, id uint) (*ScheduleView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(models.RoleProvider) {
		return nil, notFound("user %d is not a provider", id)
	}
	v := newScheduleView(user)
	return &v, nil
}

func (s *UserService) SetSchedule(ctx context.Context, actor Actor, id uint, in ScheduleInput) (*ScheduleView, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(user.ID) {
		return nil, forbidden("cannot modify another provider's schedule")
	}
	if !user.HasRole(models.RoleProvider) {
		return nil, forbidden("user %d is not a provider", id)
	}
	if err := applySchedule(user, in); err != nil {
		return nil, err
	}
	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, err
	}
	v := newScheduleView(user)
	return &v, nil
}

func applyProviderDetails(user *models.User, in ProviderDetailsInput) error {
	categories := make(datatypes.JSONSlice[string], 0, len(in.Categories))
	for _, raw := range in.Categories {
		c, ok := models.CanonicalCategory(raw)
		if !ok {
			return badRequest("unknown category %q", raw)
		}
		categories = append(categories, c)
	}
	if err := applySchedule(user, ScheduleInput{
		Availability: in.Availability,
		WorkStart:    in.WorkStart,
		WorkEnd:      in.WorkEnd,
	}); err != nil {
		return err
	}
	user.Categories = categories
	user.Zone = strings.TrimSpace(in.Zone)
	user.Description = strings.TrimSpace(in.Description)
	return nil
}

func applySchedule(user *models.User, in ScheduleInput) error {
	days := make(datatypes.JSONSlice[string], 0, len(in.Availability))
	seen := map[string]bool{}
	for _, raw := range in.Availability {
		label, ok := models.CanonicalWeekday(raw)
		if !ok {
			return badRequest("unknown weekday %q", raw)
		}
		if !seen[label] {
			seen[label] = true
			days = append(days, label)
		}
	}

	var start, end *datatypes.Time
	if in.WorkStart != "" {
		t, err := utils.ParseClock(in.WorkStart)
		if err != nil {
			return &Error{Kind: KindBadRequest, Message: "invalid hora_inicio", Err: err}
		}
		start = &t
	}
	if in.WorkEnd != "" {
		t, err := utils.ParseClock(in.WorkEnd)
		if err != nil {
			return &Error{Kind: KindBadRequest, Message: "invalid hora_fin", Err: err}
		}
		end = &t
	}
	if start != nil && end != nil && *start >= *end {
		return badRequest("hora_inicio must be before hora_fin")
	}

	user.Availability = days
	user.WorkStart = start
	user.WorkEnd = end
	return nil
}
