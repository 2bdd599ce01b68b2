// Package domain contains persistence models for dues generation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// GenerationStatus represents batch lifecycle states.
type GenerationStatus string

const (
	GenerationStatusActive   GenerationStatus = "ACTIVE"
	GenerationStatusReverted GenerationStatus = "REVERTED"
)

// PaymentGeneration is one persisted billing run. Stats freeze the aggregate
// buckets at creation time; reverting flips Status and cancels the dues, it
// never deletes anything.
type PaymentGeneration struct {
	ID          snowflake.ID     `gorm:"primaryKey" json:"id"`
	Month       int              `gorm:"not null" json:"month"`
	Year        int              `gorm:"not null" json:"year"`
	Status      GenerationStatus `gorm:"type:text;not null;default:'ACTIVE'" json:"status"`
	Notes       string           `gorm:"type:text" json:"notes,omitempty"`
	Stats       datatypes.JSON   `gorm:"not null" json:"stats"`
	GeneratedAt time.Time        `gorm:"not null" json:"generated_at"`
	CreatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentGeneration) TableName() string { return "payment_generations" }

// GenerationStats is the frozen aggregate snapshot stored on a batch.
type GenerationStats struct {
	OnlySocietaryCount    int64           `json:"only_societary_count"`
	OnlySocietaryAmount   decimal.Decimal `json:"only_societary_amount"`
	PrincipalSportsCount  int64           `json:"principal_sports_count"`
	PrincipalSportsAmount decimal.Decimal `json:"principal_sports_amount"`
	SecondarySportsCount  int64           `json:"secondary_sports_count"`
	SecondarySportsAmount decimal.Decimal `json:"secondary_sports_amount"`
	TotalPayments         int64           `json:"total_payments"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
}

// DueType classifies a due by what it bills.
type DueType string

const (
	DueTypeSocietary DueType = "SOCIETARY"
	DueTypePrincipal DueType = "PRINCIPAL_SPORT"
	DueTypeSecondary DueType = "SECONDARY_SPORT"
)

// DueStatus represents the payment lifecycle of a due.
type DueStatus string

const (
	DueStatusPending   DueStatus = "PENDING"
	DueStatusPartial   DueStatus = "PARTIAL"
	DueStatusPaid      DueStatus = "PAID"
	DueStatusOverdue   DueStatus = "OVERDUE"
	DueStatusCancelled DueStatus = "CANCELLED"
)

// Due is one billed line item of a generation. Cancellation is a status, not
// a removal.
type Due struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	GenerationID snowflake.ID    `gorm:"not null;index" json:"generation_id"`
	MemberID     snowflake.ID    `gorm:"not null;index" json:"member_id"`
	Type         DueType         `gorm:"type:text;not null" json:"type"`
	SportID      *snowflake.ID   `gorm:"index" json:"sport_id,omitempty"`
	Description  string          `gorm:"type:text" json:"description"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid_amount"`
	DueDate      time.Time       `gorm:"not null;index" json:"due_date"`
	Status       DueStatus       `gorm:"type:text;not null;default:'PENDING';index" json:"status"`
	Breakdown    datatypes.JSON  `gorm:"" json:"breakdown,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Due) TableName() string { return "dues" }
