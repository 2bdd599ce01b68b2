package domain

import (
	"context"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListQuoteFilter struct {
	SportID   *snowflake.ID
	Societary *bool
	Name      string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, quote *Quote) error
	Update(ctx context.Context, db *gorm.DB, quote *Quote) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quote, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Quote, error)
	List(ctx context.Context, db *gorm.DB, filter ListQuoteFilter, page pagination.Pagination) ([]*Quote, error)
	CountMembers(ctx context.Context, db *gorm.DB, quote *Quote) (int64, error)
}
