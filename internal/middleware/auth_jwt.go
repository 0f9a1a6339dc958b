package middleware

import (
	"net/http"
	"strings"

	auth "github.com/MahyaarMaleki/storetrack/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxIdentityKey = "identity" // auth.Identity
	AuthCookieName = "authToken"
)

// トークンを検証する約束（auth.TokenServiceが満たす）
type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

// JWT検証ミドルウェア。
// Authorization: Bearer か authToken Cookie のどちらかから読む。
func AuthJWT(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken := extractToken(c)
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized: no token provided"))
			}

			id, err := verifier.Verify(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized: invalid or expired token"))
			}

			//contextへ保存
			c.Set(CtxIdentityKey, id)
			return next(c)
		}
	}
}

// ヘッダ優先、なければCookie
func extractToken(c echo.Context) string {
	if authz := c.Request().Header.Get(echo.HeaderAuthorization); authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}

	if ck, err := c.Cookie(AuthCookieName); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

// 認証済みのIdentityを取り出す
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(CtxIdentityKey).(auth.Identity)
	return id, ok
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
