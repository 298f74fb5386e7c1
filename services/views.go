package services

import (
	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/utils"
)

type UserView struct {
	ID           uint     `json:"id"`
	Name         string   `json:"nombre"`
	Email        string   `json:"email"`
	Phone        string   `json:"telefono,omitempty"`
	Photo        string   `json:"foto,omitempty"`
	Roles        []string `json:"roles"`
	ActiveRole   string   `json:"rol_activo"`
	Zone         string   `json:"zona,omitempty"`
	Categories   []string `json:"categorias,omitempty"`
	Description  string   `json:"descripcion,omitempty"`
	Availability []string `json:"disponibilidad,omitempty"`
	WorkStart    string   `json:"hora_inicio,omitempty"`
	WorkEnd      string   `json:"hora_fin,omitempty"`
}

type AuthView struct {
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	User         UserView `json:"usuario"`
}

type ScheduleView struct {
	UserID       uint     `json:"id_prestador"`
	Availability []string `json:"disponibilidad"`
	WorkStart    string   `json:"hora_inicio,omitempty"`
	WorkEnd      string   `json:"hora_fin,omitempty"`
}

type ServiceView struct {
	ID            uint    `json:"id"`
	Name          string  `json:"nombre"`
	Price         float64 `json:"precio"`
	Zone          string  `json:"zona,omitempty"`
	Description   string  `json:"descripcion,omitempty"`
	Photo         string  `json:"foto,omitempty"`
	Category      string  `json:"categoria"`
	AverageRating float64 `json:"valoracion_promedio"`
	ProviderID    uint    `json:"id_prestador"`
	ProviderName  string  `json:"nombre_prestador,omitempty"`
}

type AppointmentView struct {
	ID           uint   `json:"id"`
	Date         string `json:"fecha"`
	Hour         string `json:"hora"`
	Status       string `json:"estado"`
	ServiceID    uint   `json:"id_servicio"`
	ServiceName  string `json:"nombre_servicio,omitempty"`
	SeekerID     uint   `json:"id_buscador"`
	SeekerName   string `json:"nombre_buscador,omitempty"`
	ProviderID   uint   `json:"id_prestador"`
	ProviderName string `json:"nombre_prestador,omitempty"`
}

type ReviewView struct {
	ID            uint   `json:"id"`
	Comment       string `json:"comentario"`
	Date          string `json:"fecha"`
	Rating        int    `json:"valoracion"`
	AppointmentID uint   `json:"id_cita"`
	ServiceID     uint   `json:"id_servicio"`
	ServiceName   string `json:"nombre_servicio,omitempty"`
	SeekerID      uint   `json:"id_buscador"`
	SeekerName    string `json:"nombre_buscador,omitempty"`
	ProviderID    uint   `json:"id_prestador"`
}

func newUserView(u *models.User) UserView {
	v := UserView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Photo:        u.Photo,
		Roles:        make([]string, 0, len(u.Roles)),
		ActiveRole:   string(u.ActiveRole),
		Zone:         u.Zone,
		Categories:   u.Categories,
		Description:  u.Description,
		Availability: u.Availability,
	}
	for _, r := range u.Roles {
		v.Roles = append(v.Roles, string(r))
	}
	if u.WorkStart != nil {
		v.WorkStart = utils.FormatClock(*u.WorkStart)
	}
	if u.WorkEnd != nil {
		v.WorkEnd = utils.FormatClock(*u.WorkEnd)
	}
	return v
}

func newScheduleView(u *models.User) ScheduleView {
	v := ScheduleView{UserID: u.ID, Availability: []string(u.Availability)}
	if v.Availability == nil {
		v.Availability = []string{}
	}
	if u.WorkStart != nil {
		v.WorkStart = utils.FormatClock(*u.WorkStart)
	}
	if u.WorkEnd != nil {
		v.WorkEnd = utils.FormatClock(*u.WorkEnd)
	}
	return v
}

func newServiceView(s *models.Service) ServiceView {
	v := ServiceView{
		ID:            s.ID,
		Name:          s.Name,
		Price:         s.Price,
		Zone:          s.Zone,
		Description:   s.Description,
		Photo:         s.Photo,
		Category:      s.Category,
		AverageRating: s.AverageRating,
		ProviderID:    s.ProviderID,
	}
	if s.Provider != nil {
		v.ProviderName = s.Provider.Name
	}
	return v
}

func newAppointmentView(a *models.Appointment) AppointmentView {
	v := AppointmentView{
		ID:         a.ID,
		Date:       utils.FormatDate(a.Date),
		Hour:       utils.FormatClock(a.Hour),
		Status:     string(a.Status),
		ServiceID:  a.ServiceID,
		SeekerID:   a.SeekerID,
		ProviderID: a.ProviderID,
	}
	if a.Service != nil {
		v.ServiceName = a.Service.Name
	}
	if a.Seeker != nil {
		v.SeekerName = a.Seeker.Name
	}
	if a.Provider != nil {
		v.ProviderName = a.Provider.Name
	}
	return v
}

func newReviewView(r *models.Review) ReviewView {
	v := ReviewView{
		ID:            r.ID,
		Comment:       r.Comment,
		Date:          utils.FormatDate(r.Date),
		Rating:        r.Rating,
		AppointmentID: r.AppointmentID,
		ServiceID:     r.ServiceID,
		SeekerID:      r.SeekerID,
		ProviderID:    r.ProviderID,
	}
	if r.Service != nil {
		v.ServiceName = r.Service.Name
	}
	if r.Seeker != nil {
		v.SeekerName = r.Seeker.Name
	}
	return v
}

func mapViews[T any, V any](items []T, view func(*T) V) []V {
	out := make([]V, 0, len(items))
	for i := range items {
		out = append(out, view(&items[i]))
	}
	return out
}
