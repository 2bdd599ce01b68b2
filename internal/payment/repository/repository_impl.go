package repository

import (
	"context"
	"time"

	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/option"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertReceipt(ctx context.Context, db *gorm.DB, receipt *domain.Receipt) error {
	return db.WithContext(ctx).Create(receipt).Error
}

func (r *repo) FindDueByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*duesdomain.Due, error) {
	var due duesdomain.Due
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	if due.ID == 0 {
		return nil, nil
	}
	return &due, nil
}

func (r *repo) UpdateDuePayment(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAmount decimal.Decimal, status duesdomain.DueStatus, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&duesdomain.Due{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"paid_amount": paidAmount,
			"status":      status,
			"updated_at":  updatedAt,
		}).Error
}

func (r *repo) ListReceipts(ctx context.Context, db *gorm.DB, filter domain.ListReceiptFilter, page pagination.Pagination) ([]*domain.Receipt, error) {
	var receipts []*domain.Receipt
	stmt := db.WithContext(ctx).Model(&domain.Receipt{})
	if filter.MemberID != nil {
		stmt = stmt.Where("member_id = ?", *filter.MemberID)
	}
	if filter.DueID != nil {
		stmt = stmt.Where("due_id = ?", *filter.DueID)
	}
	if filter.GenerationID != nil {
		stmt = stmt.Where("due_id IN (SELECT id FROM dues WHERE generation_id = ?)", *filter.GenerationID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *repo) ListMemberDues(ctx context.Context, db *gorm.DB, filter domain.ListMemberDuesFilter, page pagination.Pagination) ([]*duesdomain.Due, error) {
	var dues []*duesdomain.Due
	stmt := db.WithContext(ctx).
		Model(&duesdomain.Due{}).
		Where("member_id = ?", filter.MemberID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&dues).Error
	if err != nil {
		return nil, err
	}
	return dues, nil
}

func (r *repo) MarkOverdue(ctx context.Context, db *gorm.DB, asOf time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&duesdomain.Due{}).
		Where("due_date < ? AND status IN ?", asOf, []duesdomain.DueStatus{
			duesdomain.DueStatusPending,
			duesdomain.DueStatusPartial,
		}).
		Updates(map[string]any{
			"status":     duesdomain.DueStatusOverdue,
			"updated_at": asOf,
		})
	return result.RowsAffected, result.Error
}
