package handlers

import (
	"fmt"

	"foodorder/internal/middleware"
	"foodorder/internal/models"
	"foodorder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for the menu catalog.
type MenuHandler struct {
	service *services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{
		service: service,
	}
}

// RegisterRoutes registers the menu routes. Reads are public, writes go
// through auth.
func (h *MenuHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/", h.HandleGetMenu)
	menuRoutes.Post("/add", auth, h.HandleCreateMenuItem)
	menuRoutes.Put("/edit/:id", auth, h.HandleUpdateMenuItem)
	menuRoutes.Delete("/delete/:id", auth, h.HandleDeleteMenuItem)
	menuRoutes.Get("/:id", h.HandleGetMenuItem)
}

// HandleGetMenu lists the menu.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	items, err := h.service.GetMenu(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve menu", err)
	}
	return c.JSON(items)
}

// HandleGetMenuItem retrieves a single menu item.
func (h *MenuHandler) HandleGetMenuItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "Invalid menu item ID", err)
	}
	item, err := h.service.GetMenuItem(c.UserContext(), id)
	if err != nil {
		return respondError(c, fmt.Sprintf("Could not retrieve menu item %d", id), err)
	}
	return c.JSON(item)
}

// HandleCreateMenuItem adds a menu item.
func (h *MenuHandler) HandleCreateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.service.CreateMenuItem(c.UserContext(), middleware.CallerFrom(c), &item); err != nil {
		return respondError(c, "Could not create menu item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateMenuItem replaces a menu item.
func (h *MenuHandler) HandleUpdateMenuItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "Invalid menu item ID", err)
	}

	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	item.ID = id

	updated, err := h.service.UpdateMenuItem(c.UserContext(), middleware.CallerFrom(c), &item)
	if err != nil {
		return respondError(c, fmt.Sprintf("Could not update menu item %d", id), err)
	}
	return c.JSON(updated)
}

// HandleDeleteMenuItem removes a menu item.
func (h *MenuHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "Invalid menu item ID", err)
	}
	if err := h.service.DeleteMenuItem(c.UserContext(), middleware.CallerFrom(c), id); err != nil {
		return respondError(c, fmt.Sprintf("Could not delete menu item %d", id), err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Menu item %d deleted successfully", id),
	})
}
