package handlers

import (
	"fmt"

	"foodorder/internal/middleware"
	"foodorder/internal/models"
	"foodorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them go through auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("/create", h.HandleCreateOrder)
	orderRoutes.Get("/my", h.HandleGetMyOrders)
	orderRoutes.Delete("/cancel/:id", h.HandleCancelOrder)
	orderRoutes.Get("/admin", h.HandleGetAllOrders)
	orderRoutes.Put("/admin/update-status/:id", h.HandleUpdateOrderStatus)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleCreateOrder places a new order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), middleware.CallerFrom(c), req.Items)
	if err != nil {
		return respondError(c, "Could not create order", err)
	}
	return c.JSON(order)
}

// HandleGetMyOrders lists the caller's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListMine(c.UserContext(), middleware.CallerFrom(c))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetAllOrders lists every order.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext(), middleware.CallerFrom(c))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "Invalid order ID", err)
	}
	order, err := h.service.GetOrder(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return respondError(c, fmt.Sprintf("Could not retrieve order %d", id), err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels one of the caller's pending orders.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "Invalid order ID", err)
	}
	order, err := h.service.CancelMine(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return respondError(c, fmt.Sprintf("Could not cancel order %d", id), err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "Invalid order ID", err)
	}

	var req models.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body for status update", err)
	}

	order, err := h.service.AdminSetStatus(c.UserContext(), middleware.CallerFrom(c), id, req.Status)
	if err != nil {
		return respondError(c, fmt.Sprintf("Could not update status of order %d", id), err)
	}
	return c.JSON(order)
}
