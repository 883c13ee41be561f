package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base holds the identity and timestamp columns shared by the tables.
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// Role is the authorization role carried in access tokens.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleCollaborator Role = "COLLABORATOR"
	RoleClient       Role = "CLIENT"
)

// IsTeam reports whether the role belongs to a staff member.
func (r Role) IsTeam() bool {
	return r == RoleAdmin || r == RoleCollaborator
}

// All returns every model managed by the schema migration, parents first.
func All() []interface{} {
	return []interface{}{
		&TeamMember{},
		&Client{},
		&Category{},
		&Brand{},
		&Product{},
		&ProductVariant{},
		&ProductImage{},
		&ProductCategory{},
		&Banner{},
		&Newsletter{},
		&StoreConfiguration{},
		&SocialMedia{},
	}
}
