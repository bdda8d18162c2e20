package models

import (
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/types"
)

// ProjectMembership associates a user with a project and a role. The
// (user, project) pair is unique; this row is the sole basis for every
// authorization check in the service layer.
type ProjectMembership struct {
	gorm.Model

	UserID    uint       `gorm:"not null;uniqueIndex:idx_user_project"`
	ProjectID uint       `gorm:"not null;uniqueIndex:idx_user_project"`
	Role      types.Role `gorm:"not null"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
