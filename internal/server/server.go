package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/config"
	"github.com/MahyaarMaleki/storetrack/internal/handler"
	"github.com/MahyaarMaleki/storetrack/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Deps はルーティングに必要な部品
type Deps struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	History  *handler.HistoryHandler
	Orders   *handler.OrderHandler

	Verifier     middleware.TokenVerifier
	LoginLimiter *middleware.RateLimiter

	// /health でDBの疎通を見る（nilなら常にok）
	Ping func(ctx context.Context) error
}

// New はミドルウェアとルートを登録したechoを返す
func New(cfg config.Config, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, d)
	return e
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/health", healthHandler(d.Ping))

	d.Auth.RegisterRoutes(e, d.LoginLimiter)

	authMW := middleware.AuthJWT(d.Verifier)

	products := e.Group("/products", authMW)
	d.Products.RegisterRoutes(products)
	d.History.RegisterRoutes(products)

	orders := e.Group("/orders", authMW)
	d.Orders.RegisterRoutes(orders)
}

func healthHandler(ping func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logrus.WithError(err).Warn("health check failed")
				return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Error: "database unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// echo自身のエラー（404ルートなど）も {error} の形にそろえる
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	} else {
		logrus.WithContext(c.Request().Context()).WithError(err).Error("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, handler.ErrorResponse{Error: msg})
}
