package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleMember UserRole = "MEMBER"
	RoleEscort UserRole = "ESCORT"
	RoleAgency UserRole = "AGENCY"
	RoleClub   UserRole = "CLUB"
	RoleStudio UserRole = "STUDIO"
)

// Valid reports whether r is one of the account roles offered at registration.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleEscort, RoleAgency, RoleClub, RoleStudio:
		return true
	}
	return false
}

type User struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Image          string    `json:"image"`
	Role           UserRole  `gorm:"type:varchar(20);default:'MEMBER';not null" json:"role"`
	Profile        *Profile  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
