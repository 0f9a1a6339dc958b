package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"
	"github.com/MahyaarMaleki/storetrack/internal/usecase"

	"github.com/labstack/echo/v4"
)

type productResponse struct {
	Message string        `json:"message"`
	Product model.Product `json:"product"`
}

// /products のAPI
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// gは /products のグループ（認証つき）
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req usecase.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, invalidBody())
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, productResponse{Message: "product added successfully", Product: p})
}

func (h *ProductHandler) list(c echo.Context) error {
	in, details := parseProductQuery(c)
	if len(details) > 0 {
		return writeError(c, usecase.NewValidationError("invalid filter", details...))
	}

	items, err := h.uc.ListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// クエリの型だけここで見る。値の範囲はusecaseで見る
func parseProductQuery(c echo.Context) (usecase.ProductListInput, []string) {
	in := usecase.ProductListInput{Name: c.QueryParam("name")}
	var details []string

	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		cat := model.Category(v)
		in.Category = &cat
	}

	parsePrice := func(key string) *int64 {
		v := strings.TrimSpace(c.QueryParam(key))
		if v == "" {
			return nil
		}
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			details = append(details, key+" must be an integer")
			return nil
		}
		return &x
	}
	in.MinPrice = parsePrice("minPrice")
	in.MaxPrice = parsePrice("maxPrice")

	if v := c.QueryParam("includeDeleted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details = append(details, "includeDeleted must be a boolean")
		}
		in.IncludeDeleted = b
	}
	return in, details
}

func (h *ProductHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req usecase.UpdateProductInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, invalidBody())
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, productResponse{Message: "product updated successfully", Product: p})
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted successfully"})
}
