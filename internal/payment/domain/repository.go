package domain

import (
	"context"
	"time"

	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListReceiptFilter struct {
	MemberID     *snowflake.ID
	DueID        *snowflake.ID
	GenerationID *snowflake.ID
}

type ListMemberDuesFilter struct {
	MemberID snowflake.ID
	Status   duesdomain.DueStatus
}

type Repository interface {
	InsertReceipt(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	FindDueByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*duesdomain.Due, error)
	UpdateDuePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAmount decimal.Decimal, status duesdomain.DueStatus, updatedAt time.Time) error
	ListReceipts(ctx context.Context, db *gorm.DB, filter ListReceiptFilter, page pagination.Pagination) ([]*Receipt, error)
	ListMemberDues(ctx context.Context, db *gorm.DB, filter ListMemberDuesFilter, page pagination.Pagination) ([]*duesdomain.Due, error)
	MarkOverdue(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error)
}
