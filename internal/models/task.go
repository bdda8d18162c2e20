package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/types"
)

// Task belongs to exactly one membership (the assignee); its project is the
// project of that membership. The membership is resolved by explicit store
// lookups, never preloaded.
type Task struct {
	gorm.Model

	Name        string             `gorm:"not null"`
	Description string             `gorm:"type:text"`
	Status      types.TaskStatus   `gorm:"not null;default:TODO"`
	Priority    types.TaskPriority `gorm:"not null;default:MEDIUM"`
	DueDate     *datatypes.Date
	EndDate     *datatypes.Date

	MembershipID uint `gorm:"not null;index"`

	// Relationships. RESTRICT keeps a membership from being deleted while
	// tasks still point at it.
	Membership ProjectMembership `gorm:"foreignKey:MembershipID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
