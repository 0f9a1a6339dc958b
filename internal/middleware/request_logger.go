package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// 1リクエスト1行のアクセスログ
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				//ステータスを確定させる
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := logrus.Fields{
				"method":      req.Method,
				"path":        req.URL.Path,
				"status":      res.Status,
				"duration_ms": time.Since(start).Milliseconds(),
				"ip":          c.RealIP(),
				"request_id":  res.Header().Get(echo.HeaderXRequestID),
			}
			if id, ok := IdentityFrom(c); ok {
				fields["admin_id"] = id.SubjectID
			}

			entry := logrus.WithContext(req.Context()).WithFields(fields)
			switch {
			case res.Status >= 500:
				entry.Error("request processed")
			case res.Status >= 400:
				entry.Warn("request processed")
			default:
				entry.Info("request processed")
			}
			return nil
		}
	}
}
