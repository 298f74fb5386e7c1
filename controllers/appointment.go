package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/services"
)

type AppointmentController struct {
	Appointments *services.AppointmentService
}

func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{Appointments: appointments}
}

// CreateAppointment books a slot; id_buscador defaults to the caller
func (h *AppointmentController) CreateAppointment(c *fiber.Ctx) error {
	var input services.AppointmentInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if input.SeekerID == 0 {
		input.SeekerID = actorFrom(c).ID
	}
	appointment, err := h.Appointments.Create(c.UserContext(), actorFrom(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

func (h *AppointmentController) GetAllAppointments(c *fiber.Ctx) error {
	list, err := h.Appointments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	appointment, err := h.Appointments.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

// GetMyAppointments lists the caller's bookings as a seeker
func (h *AppointmentController) GetMyAppointments(c *fiber.Ctx) error {
	list, err := h.Appointments.ListBySeeker(c.UserContext(), actorFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *AppointmentController) GetSeekerAppointments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Appointments.ListBySeeker(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *AppointmentController) GetProviderAppointments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Appointments.ListByProvider(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *AppointmentController) UpdateAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.AppointmentInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	appointment, err := h.Appointments.Update(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

// UpdateAppointmentStatus takes the new status as the raw request body
func (h *AppointmentController) UpdateAppointmentStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	status := trimQuotes(string(c.Body()))
	if status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "estado is required")
	}
	appointment, err := h.Appointments.UpdateStatus(c.UserContext(), actorFrom(c), id, status)
	if err != nil {
		return err
	}
	return c.JSON(appointment)
}

func (h *AppointmentController) DeleteAppointment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Appointments.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompletePastAppointments runs the completion sweep on demand
func (h *AppointmentController) CompletePastAppointments(c *fiber.Ctx) error {
	completed, err := h.Appointments.Sweep(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(completed)
}
