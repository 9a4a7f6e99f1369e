package models

import (
	"time"

	"github.com/google/uuid"
)

// Account roles (platform-wide)
const (
	AccountRoleUser   = "user"
	AccountRoleAgency = "agency"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"-"`
	AccountRole string    `json:"account_role"`
	AgencyName  *string   `json:"agency_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsAgency() bool {
	return u.AccountRole == AccountRoleAgency
}
