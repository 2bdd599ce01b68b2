package repository

import (
	"context"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/option"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sport *domain.Sport) error {
	return db.WithContext(ctx).Create(sport).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sport *domain.Sport) error {
	return db.WithContext(ctx).
		Model(&domain.Sport{}).
		Where("id = ?", sport.ID).
		Updates(map[string]any{
			"name":        sport.Name,
			"description": sport.Description,
			"updated_at":  sport.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Sport{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Sport, error) {
	var sport domain.Sport
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, created_at, updated_at FROM sports WHERE id = ?`,
		id,
	).Scan(&sport).Error
	if err != nil {
		return nil, err
	}
	if sport.ID == 0 {
		return nil, nil
	}
	return &sport, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Sport, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sports []*domain.Sport
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&sports).Error
	if err != nil {
		return nil, err
	}
	return sports, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSportFilter, page pagination.Pagination) ([]*domain.Sport, error) {
	var sports []*domain.Sport
	stmt := db.WithContext(ctx).Model(&domain.Sport{})
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&sports).Error
	if err != nil {
		return nil, err
	}
	return sports, nil
}

func (r *repo) CountEnrollments(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("sport_enrollments").
		Where("sport_id = ?", id).
		Count(&count).Error
	return count, err
}
