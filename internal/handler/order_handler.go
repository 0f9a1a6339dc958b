package handler

import (
	"net/http"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	"github.com/MahyaarMaleki/storetrack/internal/usecase"

	"github.com/labstack/echo/v4"
)

type orderResponse struct {
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

// /orders のAPI
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// gは /orders のグループ（認証つき）
func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.place)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.updateStatus)
	g.DELETE("/:id", h.delete)
}

func (h *OrderHandler) place(c echo.Context) error {
	var req usecase.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, invalidBody())
	}

	o, err := h.uc.PlaceOrder(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, orderResponse{Message: "order placed successfully", Order: o})
}

func (h *OrderHandler) list(c echo.Context) error {
	orders, err := h.uc.ListOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	o, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req usecase.UpdateOrderStatusInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, invalidBody())
	}

	o, err := h.uc.UpdateOrderStatus(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "order status updated successfully", Order: o})
}

func (h *OrderHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "order deleted successfully; stock was not restored, cancel the order first to return items to inventory",
	})
}
