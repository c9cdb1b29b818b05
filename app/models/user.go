package models

// User is a shop account. The password hash is never serialised.
type User struct {
	Model
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"size:255;not null" json:"-"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Role      string `gorm:"size:20;not null;default:CUSTOMER;index" json:"role"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserSettings stores per-user notification and privacy preferences.
type UserSettings struct {
	Model
	UserID             uint `gorm:"uniqueIndex;not null" json:"userId"`
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `gorm:"column:sms_notifications" json:"smsNotifications"`
	MarketingEmails    bool `json:"marketingEmails"`
	OrderUpdates       bool `json:"orderUpdates"`
	TwoFactorAuth      bool `json:"twoFactorAuth"`
	PublicProfile      bool `json:"publicProfile"`
}

// DefaultUserSettings is what a user sees before saving anything.
func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:             userID,
		EmailNotifications: true,
		MarketingEmails:    true,
		OrderUpdates:       true,
	}
}
