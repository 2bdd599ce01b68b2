package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Quote is a priced billing plan. Sport-scoped quotes carry the sport they
// belong to; a nil SportID marks the club-wide societary fee.
type Quote struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	SportID        *snowflake.ID   `gorm:"index" json:"sport_id,omitempty"`
	Name           string          `gorm:"not null" json:"name"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`
	DurationMonths int             `gorm:"not null;default:1" json:"duration_months"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// MemberCount is derived on read; it is never written.
	MemberCount int64 `gorm:"-" json:"member_count"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }

// Societary reports whether the quote is the club-wide membership fee.
func (q Quote) Societary() bool { return q.SportID == nil }
