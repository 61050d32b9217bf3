package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobileshop/shop-api/internal/api/middleware"
	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

type CartItemHandler struct {
	service ports.CartItemService
}

func NewCartItemHandler(service ports.CartItemService) *CartItemHandler {
	return &CartItemHandler{service: service}
}

// List handles GET /api/CartItem.
//
// @Summary      List cart items
// @Description  Non-admin callers only see their own items.
// @Tags         CartItem
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   cartItemResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/CartItem [get]
func (h *CartItemHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), middleware.Caller(c))
	if err != nil {
		return err
	}

	resp := make([]cartItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, toCartItemResponse(it))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/CartItem/:id.
//
// @Summary      Get a cart item
// @Tags         CartItem
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Cart item id"
// @Success      200  {object}  cartItemResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/CartItem/{id} [get]
func (h *CartItemHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.service.Get(c.Request().Context(), middleware.Caller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartItemResponse(item))
}

// Create handles POST /api/CartItem.
//
// @Summary      Add a cart item
// @Description  A zero userId is filled with the caller's id.
// @Tags         CartItem
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartItemRequest  true  "Cart item"
// @Success      201   {object}  cartItemResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/CartItem [post]
func (h *CartItemHandler) Create(c echo.Context) error {
	var req cartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), middleware.Caller(c), ports.CartItemInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/CartItem/%d", item.ID))
	return c.JSON(http.StatusCreated, toCartItemResponse(item))
}

// Update handles PUT /api/CartItem/:id.
//
// @Summary      Replace a cart item
// @Tags         CartItem
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      int              true  "Cart item id"
// @Param        body  body      cartItemRequest  true  "Cart item"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/CartItem/{id} [put]
func (h *CartItemHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ID != id {
		return domain.ErrIDMismatch
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err = h.service.Update(c.Request().Context(), middleware.Caller(c), id, ports.CartItemInput{
		ID:        req.ID,
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/CartItem/:id.
//
// @Summary      Remove a cart item
// @Tags         CartItem
// @Security     BearerAuth
// @Param        id   path      int  true  "Cart item id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/CartItem/{id} [delete]
func (h *CartItemHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), middleware.Caller(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
