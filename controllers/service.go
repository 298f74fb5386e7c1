package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/conectados/services"
)

type ServiceController struct {
	Catalog *services.CatalogService
}

func NewServiceController(catalog *services.CatalogService) *ServiceController {
	return &ServiceController{Catalog: catalog}
}

// CreateService publishes a new service for the caller (or id_prestador for admins)
func (h *ServiceController) CreateService(c *fiber.Ctx) error {
	var input services.ServiceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	svc, err := h.Catalog.Create(c.UserContext(), actorFrom(c), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(svc)
}

func (h *ServiceController) GetAllServices(c *fiber.Ctx) error {
	list, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetSortedServices lists services ordered by ?sortBy=
func (h *ServiceController) GetSortedServices(c *fiber.Ctx) error {
	list, err := h.Catalog.ListSorted(c.UserContext(), c.Query("sortBy"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ServiceController) GetCategories(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.Categories())
}

func (h *ServiceController) GetServicesByCategory(c *fiber.Ctx) error {
	list, err := h.Catalog.ListByCategory(c.UserContext(), c.Params("categoria"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ServiceController) GetServicesByProvider(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.Catalog.ListByProvider(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *ServiceController) GetService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(svc)
}

func (h *ServiceController) UpdateService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.ServiceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	svc, err := h.Catalog.Update(c.UserContext(), actorFrom(c), id, input)
	if err != nil {
		return err
	}
	return c.JSON(svc)
}

func (h *ServiceController) DeleteService(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPhoto takes a multipart "foto" file and stores it as the service photo
func (h *ServiceController) UploadPhoto(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	header, err := c.FormFile("foto")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "foto file is required")
	}
	file, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read foto file")
	}
	defer file.Close()

	svc, err := h.Catalog.AttachPhoto(c.UserContext(), actorFrom(c), id, file)
	if err != nil {
		return err
	}
	return c.JSON(svc)
}
