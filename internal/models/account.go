package models

// Client is a storefront customer account.
type Client struct {
	Base
	Name     string `json:"name" gorm:"type:varchar(100);not null"`
	LastName string `json:"last_name" gorm:"type:varchar(100);not null"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Role     Role   `json:"role" gorm:"type:varchar(16);not null"`
	IsActive bool   `json:"is_active" gorm:"not null"`
}

// TeamMember is a staff account (ADMIN or COLLABORATOR).
type TeamMember struct {
	Base
	Name     string `json:"name" gorm:"type:varchar(100);not null"`
	LastName string `json:"last_name" gorm:"type:varchar(100);not null"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"`
	Role     Role   `json:"role" gorm:"type:varchar(16);not null"`
	IsActive bool   `json:"is_active" gorm:"not null"`
}

func (TeamMember) TableName() string { return "team_members" }
