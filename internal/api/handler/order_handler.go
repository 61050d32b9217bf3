package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobileshop/shop-api/internal/api/middleware"
	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /api/Order.
//
// @Summary      List orders
// @Tags         Order
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/Order [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.List(c.Request().Context(), middleware.Caller(c))
	if err != nil {
		return err
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/Order/:id.
//
// @Summary      Get an order
// @Tags         Order
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/Order/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.service.Get(c.Request().Context(), middleware.Caller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Create handles POST /api/Order.
//
// @Summary      Place an order
// @Description  createdAt is set by the server.
// @Tags         Order
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      orderRequest  true  "Order"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/Order [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.service.Create(c.Request().Context(), middleware.Caller(c), ports.OrderInput{
		UserID:      req.UserID,
		TotalAmount: *req.TotalAmount,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/Order/%d", order.ID))
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Update handles PUT /api/Order/:id.
//
// @Summary      Replace an order
// @Tags         Order
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      int           true  "Order id"
// @Param        body  body      orderRequest  true  "Order"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/Order/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ID != id {
		return domain.ErrIDMismatch
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err = h.service.Update(c.Request().Context(), middleware.Caller(c), id, ports.OrderInput{
		ID:          req.ID,
		UserID:      req.UserID,
		TotalAmount: *req.TotalAmount,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/Order/:id.
//
// @Summary      Delete an order
// @Tags         Order
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/Order/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), middleware.Caller(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
