package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// ShopSettingsInput is the body of PUT /api/admin/settings. Numeric fields
// that are missing fall back to the defaults.
type ShopSettingsInput struct {
	ShopName              string   `json:"shopName"`
	ShopDescription       string   `json:"shopDescription"`
	ContactEmail          string   `json:"contactEmail"`
	ContactPhone          string   `json:"contactPhone"`
	Address               string   `json:"address"`
	City                  string   `json:"city"`
	State                 string   `json:"state"`
	ZipCode               string   `json:"zipCode"`
	Country               string   `json:"country"`
	Currency              string   `json:"currency"`
	TaxRate               *float64 `json:"taxRate"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold"`
}

// NotificationSettings is the editable part of UserSettings.
type NotificationSettings struct {
	EmailNotifications *bool `json:"emailNotifications"`
	SMSNotifications   *bool `json:"smsNotifications"`
	MarketingEmails    *bool `json:"marketingEmails"`
	OrderUpdates       *bool `json:"orderUpdates"`
	TwoFactorAuth      *bool `json:"twoFactorAuth"`
	PublicProfile      *bool `json:"publicProfile"`
}

// ProfileInput changes the names on the account.
type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserSettingsInput is the body of PUT /api/user/settings.
type UserSettingsInput struct {
	Settings *NotificationSettings `json:"settings"`
	Profile  *ProfileInput         `json:"profile"`
}

// UserSettingsView is the body of GET /api/user/settings.
type UserSettingsView struct {
	User     ProfileView         `json:"user"`
	Settings models.UserSettings `json:"settings"`
}

// ProfileView is the public part of a user.
type ProfileView struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type SettingsService struct {
	settings *repositories.SettingsRepository
	users    *repositories.UserRepository
}

func NewSettingsService() *SettingsService {
	return &SettingsService{
		settings: repositories.NewSettingsRepository(),
		users:    repositories.NewUserRepository(),
	}
}

// Shop returns the saved shop settings or the defaults.
func (s *SettingsService) Shop(ctx context.Context) (models.ShopSettings, error) {
	out, err := s.settings.Shop(ctx)
	if err != nil {
		return out, fmt.Errorf("load shop settings: %w", err)
	}
	return out, nil
}

// SaveShop replaces the shop settings.
func (s *SettingsService) SaveShop(ctx context.Context, in ShopSettingsInput) (models.ShopSettings, error) {
	def := models.DefaultShopSettings()
	out := models.ShopSettings{
		ShopName:              firstNonEmpty(in.ShopName, def.ShopName),
		ShopDescription:       in.ShopDescription,
		ContactEmail:          in.ContactEmail,
		ContactPhone:          in.ContactPhone,
		Address:               in.Address,
		City:                  in.City,
		State:                 in.State,
		ZipCode:               in.ZipCode,
		Country:               in.Country,
		Currency:              firstNonEmpty(in.Currency, def.Currency),
		TaxRate:               def.TaxRate,
		FreeShippingThreshold: def.FreeShippingThreshold,
	}
	if in.TaxRate != nil {
		if *in.TaxRate < 0 || *in.TaxRate > 100 {
			return models.ShopSettings{}, apperr.BadRequest("Tax rate must be between 0 and 100")
		}
		out.TaxRate = *in.TaxRate
	}
	if in.FreeShippingThreshold != nil {
		if *in.FreeShippingThreshold < 0 {
			return models.ShopSettings{}, apperr.BadRequest("Free shipping threshold cannot be negative")
		}
		out.FreeShippingThreshold = *in.FreeShippingThreshold
	}

	if err := s.settings.SaveShop(ctx, &out); err != nil {
		return models.ShopSettings{}, fmt.Errorf("save shop settings: %w", err)
	}
	return out, nil
}

// User returns a user's profile and settings, defaults included.
func (s *SettingsService) User(ctx context.Context, userID uint) (UserSettingsView, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, orm.ErrNotFound) {
		return UserSettingsView{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return UserSettingsView{}, fmt.Errorf("load user: %w", err)
	}
	st, err := s.settings.User(ctx, userID)
	if err != nil {
		return UserSettingsView{}, fmt.Errorf("load user settings: %w", err)
	}
	return UserSettingsView{
		User:     ProfileView{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email},
		Settings: st,
	}, nil
}

// SaveUser applies the given settings and profile names together.
func (s *SettingsService) SaveUser(ctx context.Context, userID uint, in UserSettingsInput) (models.UserSettings, error) {
	var out models.UserSettings
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		settings := s.settings.WithTx(tx)

		u, err := users.FindByID(ctx, userID)
		if errors.Is(err, orm.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}

		if in.Profile != nil {
			first := firstNonEmpty(strings.TrimSpace(in.Profile.FirstName), u.FirstName)
			last := firstNonEmpty(strings.TrimSpace(in.Profile.LastName), u.LastName)
			if err := users.UpdateNames(ctx, userID, first, last); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}

		out, err = settings.User(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user settings: %w", err)
		}
		if in.Settings != nil {
			in.Settings.apply(&out)
		}
		if err := settings.SaveUser(ctx, &out); err != nil {
			return fmt.Errorf("save user settings: %w", err)
		}
		return nil
	})
	return out, err
}

func (n NotificationSettings) apply(s *models.UserSettings) {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.EmailNotifications, n.EmailNotifications)
	set(&s.SMSNotifications, n.SMSNotifications)
	set(&s.MarketingEmails, n.MarketingEmails)
	set(&s.OrderUpdates, n.OrderUpdates)
	set(&s.TwoFactorAuth, n.TwoFactorAuth)
	set(&s.PublicProfile, n.PublicProfile)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
