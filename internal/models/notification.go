package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model

	MembershipID uint  `gorm:"not null;index"`
	TaskID       *uint `gorm:"index"` // nil for project invitations
	Message      string
	Read         bool `gorm:"default:false"`

	// Relationships
	Membership ProjectMembership `gorm:"foreignKey:MembershipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
