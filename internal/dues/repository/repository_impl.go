package repository

import (
	"context"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/option"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertGeneration(ctx context.Context, db *gorm.DB, generation *domain.PaymentGeneration) error {
	return db.WithContext(ctx).Create(generation).Error
}

func (r *repo) InsertDues(ctx context.Context, db *gorm.DB, dues []*domain.Due) error {
	if len(dues) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(dues, 200).Error
}

func (r *repo) FindGenerationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PaymentGeneration, error) {
	var generation domain.PaymentGeneration
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&generation).Error
	if err != nil {
		return nil, err
	}
	if generation.ID == 0 {
		return nil, nil
	}
	return &generation, nil
}

func (r *repo) ListGenerations(ctx context.Context, db *gorm.DB, filter domain.ListGenerationFilter, page pagination.Pagination) ([]*domain.PaymentGeneration, error) {
	var generations []*domain.PaymentGeneration
	stmt := db.WithContext(ctx).Model(&domain.PaymentGeneration{})
	if filter.Month != nil {
		stmt = stmt.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		stmt = stmt.Where("year = ?", *filter.Year)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&generations).Error
	if err != nil {
		return nil, err
	}
	return generations, nil
}

func (r *repo) UpdateGenerationStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.GenerationStatus, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.PaymentGeneration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		}).Error
}

func (r *repo) FindDuesByGeneration(ctx context.Context, db *gorm.DB, generationID snowflake.ID) ([]*domain.Due, error) {
	var dues []*domain.Due
	err := db.WithContext(ctx).
		Where("generation_id = ?", generationID).
		Order("member_id, id").
		Find(&dues).Error
	if err != nil {
		return nil, err
	}
	return dues, nil
}

// CancelDuesByGeneration cancels every due of the batch that still awaits
// money. Paid dues keep their status so the ledger stays truthful.
func (r *repo) CancelDuesByGeneration(ctx context.Context, db *gorm.DB, generationID snowflake.ID, cancelledAt time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Due{}).
		Where("generation_id = ? AND status IN ?", generationID, []domain.DueStatus{
			domain.DueStatusPending,
			domain.DueStatusPartial,
			domain.DueStatusOverdue,
		}).
		Updates(map[string]any{
			"status":     domain.DueStatusCancelled,
			"updated_at": cancelledAt,
		})
	return result.RowsAffected, result.Error
}
