package handler

import (
	"net/http"
	"time"

	"github.com/MahyaarMaleki/storetrack/internal/middleware"
	auth "github.com/MahyaarMaleki/storetrack/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	loginUC      *auth.LoginUsecase // ログインusecase
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(loginUC *auth.LoginUsecase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{loginUC: loginUC, cookieSecure: cookieSecure}
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// loginだけIPごとの回数制限をかける
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, limiter *middleware.RateLimiter) {
	g := e.Group("/auth")
	g.POST("/login", h.login, limiter.Middleware())
	g.POST("/logout", h.logout)
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return writeError(c, invalidBody())
	}

	out, err := h.loginUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	//ブラウザ用にCookieにも入れる
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    out.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  out.ExpiresAt,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Message:   "login successful",
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
	})
}

// POST /auth/logout
// トークンはステートレスなのでCookieを消すだけ
func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}
