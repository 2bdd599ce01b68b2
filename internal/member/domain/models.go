package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Member is a billable person of the club.
type Member struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name             string        `gorm:"not null" json:"name"`
	DNI              string        `gorm:"column:dni;not null;uniqueIndex" json:"dni"`
	Email            string        `gorm:"" json:"email,omitempty"`
	Phone            string        `gorm:"" json:"phone,omitempty"`
	SocietaryQuoteID *snowflake.ID `gorm:"index" json:"societary_quote_id,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Enrollments []SportEnrollment `gorm:"foreignKey:MemberID" json:"enrollments,omitempty"`
}

// TableName sets the database table name.
func (Member) TableName() string { return "members" }

// SportEnrollment associates a member with a sport. At most one enrollment per
// member may be principal; the service enforces it on write.
type SportEnrollment struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	MemberID  snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_member_sport,priority:1" json:"member_id"`
	SportID   snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_member_sport,priority:2" json:"sport_id"`
	QuoteID   *snowflake.ID `gorm:"index" json:"quote_id,omitempty"`
	Principal bool          `gorm:"not null;default:false" json:"principal"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SportEnrollment) TableName() string { return "sport_enrollments" }
