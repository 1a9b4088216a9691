package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Haseeb044/ecommerce-backend-design/internal/logging"
	"github.com/Haseeb044/ecommerce-backend-design/internal/repo"
	"github.com/Haseeb044/ecommerce-backend-design/internal/service"
	"github.com/Haseeb044/ecommerce-backend-design/internal/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type authRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func authErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, repo.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repo.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *AuthHTTP) setPairCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(tokens.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))
}

func pairResponse(pair *service.TokenPair) echo.Map {
	return echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"is_admin":      pair.IsAdmin,
	}
}

// Signup backs the form-style flow: on success the tokens are attached as
// cookies in addition to the JSON body.
func (h *AuthHTTP) Signup(c echo.Context) error {
	return h.signup(c, true)
}

// APISignup returns the token pair as a bare JSON body.
func (h *AuthHTTP) APISignup(c echo.Context) error {
	return h.signup(c, false)
}

func (h *AuthHTTP) signup(c echo.Context, withCookies bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req authRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		code := authErrorStatus(err)
		l.Warn("signup_failed", "status", code, "error", err)
		if code == http.StatusConflict {
			return echo.NewHTTPError(code, "username already exists")
		}
		return echo.NewHTTPError(code, "signup failed")
	}

	if withCookies {
		h.setPairCookies(c, pair)
	}
	l.Info("signup_success", "username", req.Username)
	return c.JSON(http.StatusOK, pairResponse(pair))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	return h.login(c, true)
}

func (h *AuthHTTP) APILogin(c echo.Context) error {
	return h.login(c, false)
}

func (h *AuthHTTP) login(c echo.Context, withCookies bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req authRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		code := authErrorStatus(err)
		l.Warn("login_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, "invalid username or password")
	}

	if withCookies {
		h.setPairCookies(c, pair)
	}
	l.Info("login_success", "username", req.Username)
	return c.JSON(http.StatusOK, pairResponse(pair))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh token")
	}

	if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}

	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing refresh token")
	}

	pair, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		code := authErrorStatus(err)
		l.Warn("refresh_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, "refresh failed")
	}

	h.setPairCookies(c, pair)
	l.Info("refresh_success")
	return c.JSON(http.StatusOK, pairResponse(pair))
}
