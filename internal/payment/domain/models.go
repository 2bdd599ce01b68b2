// Package domain contains persistence models for payments against dues.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Receipt records one registered payment against a due. Receipts are append
// only; corrections are new receipts, never edits.
type Receipt struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	DueID     snowflake.ID    `gorm:"not null;index" json:"due_id"`
	MemberID  snowflake.ID    `gorm:"not null;index" json:"member_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method    string          `gorm:"type:text" json:"method,omitempty"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Receipt) TableName() string { return "receipts" }
