package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// User is owned by the external OAuth collaborator. This system only reads it
// and references it from purchases; it never deletes users.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OpenID       string     `gorm:"uniqueIndex;type:varchar(191);not null" json:"open_id"`
	Name         string     `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Email        string     `gorm:"type:varchar(320);index" json:"email" validate:"omitempty,email,max=320"`
	LoginMethod  string     `gorm:"type:varchar(64)" json:"login_method"`
	Role         string     `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	LastSignedIn *time.Time `gorm:"type:timestamp;default:null" json:"last_signed_in"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
