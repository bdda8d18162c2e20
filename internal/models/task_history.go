package models

import (
	"time"

	"github.com/taskforge-dev/taskforge/internal/types"
)

// TaskHistory is one immutable record of a single field's old→new transition
// on a task, attributed to the acting membership. Rows are only ever inserted;
// they intentionally carry no update or soft-delete columns and no foreign key
// constraints, so the ledger survives task deletion.
type TaskHistory struct {
	ID uint `gorm:"primarykey"`

	TaskID       uint            `gorm:"not null;index"`
	MembershipID uint            `gorm:"not null;index"`
	FieldName    types.FieldName `gorm:"not null"`
	OldValue     *string         `gorm:"type:text"`
	NewValue     *string         `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"not null"`
}
