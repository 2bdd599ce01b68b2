package repository

import (
	"context"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/option"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Create(quote).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", quote.ID).
		Updates(map[string]any{
			"name":            quote.Name,
			"price":           quote.Price,
			"description":     quote.Description,
			"duration_months": quote.DurationMonths,
			"updated_at":      quote.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&quote).Error
	if err != nil {
		return nil, err
	}
	if quote.ID == 0 {
		return nil, nil
	}
	return &quote, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var quotes []*domain.Quote
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListQuoteFilter, page pagination.Pagination) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	stmt := db.WithContext(ctx).Model(&domain.Quote{})
	if filter.SportID != nil {
		stmt = stmt.Where("sport_id = ?", *filter.SportID)
	}
	if filter.Societary != nil {
		if *filter.Societary {
			stmt = stmt.Where("sport_id IS NULL")
		} else {
			stmt = stmt.Where("sport_id IS NOT NULL")
		}
	}
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// CountMembers counts how many members currently pay the quote. Sport quotes
// are referenced by enrollments, the societary quote directly by members.
func (r *repo) CountMembers(ctx context.Context, db *gorm.DB, quote *domain.Quote) (int64, error) {
	var count int64
	if quote.Societary() {
		err := db.WithContext(ctx).
			Table("members").
			Where("societary_quote_id = ?", quote.ID).
			Count(&count).Error
		return count, err
	}
	err := db.WithContext(ctx).
		Table("sport_enrollments").
		Where("quote_id = ?", quote.ID).
		Count(&count).Error
	return count, err
}
