package handler

import (
	"net/http"
	"strconv"

	"github.com/MahyaarMaleki/storetrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// HTTPErrorをJSONにする。5xxの原因はログにだけ出す。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	he, ok := usecase.AsHTTPError(err)
	if !ok {
		he = &usecase.HTTPError{Status: http.StatusInternalServerError, Message: "internal server error", Cause: err}
	}

	if he.Status >= 500 {
		logrus.WithContext(c.Request().Context()).WithError(he.Cause).WithFields(logrus.Fields{
			"method":     c.Request().Method,
			"path":       c.Path(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).Error(he.Message)
	}

	return c.JSON(he.Status, ErrorResponse{Error: he.Message, Details: he.Details})
}

// パスの:idを数値にする
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, usecase.NewValidationError("invalid id")
	}
	return id, nil
}

func invalidBody() error {
	return usecase.NewValidationError("invalid request body")
}
