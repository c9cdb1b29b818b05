package controllers

import (
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
)

// UserController serves the account self-service endpoints.
type UserController struct {
	account  *services.AccountService
	settings *services.SettingsService
}

func NewUserController() *UserController {
	return &UserController{
		account:  services.NewAccountService(),
		settings: services.NewSettingsService(),
	}
}

// Export handles GET /api/user/data-export.
func (h *UserController) Export(c *ctx.Context) {
	data, err := h.account.Export(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Attachment(h.account.ExportFilename(), data)
}

// Delete handles DELETE /api/user/delete-account.
func (h *UserController) Delete(c *ctx.Context) {
	if err := h.account.Delete(c.Context(), c.UserID()); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Account deleted successfully")
}

// Settings handles GET /api/user/settings.
func (h *UserController) Settings(c *ctx.Context) {
	out, err := h.settings.User(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(out)
}

// UpdateSettings handles PUT /api/user/settings.
func (h *UserController) UpdateSettings(c *ctx.Context) {
	var in services.UserSettingsInput
	if !c.BindJSON(&in) {
		return
	}
	st, err := h.settings.SaveUser(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Respond(200, "Settings updated successfully", map[string]any{"settings": st})
}
