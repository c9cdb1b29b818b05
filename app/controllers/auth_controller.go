package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register handles POST /api/auth/register.
func (h *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	session, err := h.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(http.StatusCreated, "Account created successfully", session)
}

// Login handles POST /api/auth/login.
func (h *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	session, err := h.service.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(session)
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthController) Refresh(c *ctx.Context) {
	var in struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if !c.BindJSON(&in) {
		return
	}
	session, err := h.service.Refresh(c.Context(), in.RefreshToken)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(session)
}

// Me handles GET /api/auth/me.
func (h *AuthController) Me(c *ctx.Context) {
	user, err := h.service.Me(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}

// Logout handles POST /api/auth/logout.
func (h *AuthController) Logout(c *ctx.Context) {
	id, _ := c.Identity()
	if err := h.service.Logout(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Logged out successfully")
}
