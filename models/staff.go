package models

import "gorm.io/gorm"

// Staff roles. The session middleware resolves the acting staff row;
// services enforce which role may perform which operation.
const (
	RoleTeller     = "teller"
	RoleDeclarator = "declarator"
	RoleAdmin      = "admin"
)

type Staff struct {
	gorm.Model

	Username string `gorm:"uniqueIndex;size:32" json:"username"`
	FullName string `gorm:"size:128" json:"full_name"`
	Role     string `gorm:"size:16;index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Sessions []Session `gorm:"foreignKey:StaffID"`
}

func (s Staff) IsAdmin() bool      { return s.Role == RoleAdmin }
func (s Staff) IsDeclarator() bool { return s.Role == RoleDeclarator }
func (s Staff) IsTeller() bool     { return s.Role == RoleTeller }
