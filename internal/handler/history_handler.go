package handler

import (
	"net/http"

	"github.com/MahyaarMaleki/storetrack/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 在庫履歴の参照
type HistoryHandler struct {
	uc *usecase.HistoryUsecase
}

func NewHistoryHandler(uc *usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// gは /products のグループ。/history は /:id より優先される
func (h *HistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/history", h.listAll)
	g.GET("/:id/history", h.listForProduct)
}

func (h *HistoryHandler) listAll(c echo.Context) error {
	rows, err := h.uc.ListAllHistory(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *HistoryHandler) listForProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	rows, err := h.uc.ListHistoryForProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
