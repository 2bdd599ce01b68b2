package domain

import (
	"context"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListGenerationFilter struct {
	Month  *int
	Year   *int
	Status GenerationStatus
}

type Repository interface {
	InsertGeneration(ctx context.Context, db *gorm.DB, generation *PaymentGeneration) error
	InsertDues(ctx context.Context, db *gorm.DB, dues []*Due) error
	FindGenerationByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentGeneration, error)
	ListGenerations(ctx context.Context, db *gorm.DB, filter ListGenerationFilter, page pagination.Pagination) ([]*PaymentGeneration, error)
	UpdateGenerationStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status GenerationStatus, updatedAt time.Time) error
	FindDuesByGeneration(ctx context.Context, db *gorm.DB, generationID snowflake.ID) ([]*Due, error)
	CancelDuesByGeneration(ctx context.Context, db *gorm.DB, generationID snowflake.ID, cancelledAt time.Time) (int64, error)
}
