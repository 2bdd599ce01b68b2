package domain

import (
	"context"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListSportFilter struct {
	Name string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sport *Sport) error
	Update(ctx context.Context, db *gorm.DB, sport *Sport) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sport, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Sport, error)
	List(ctx context.Context, db *gorm.DB, filter ListSportFilter, page pagination.Pagination) ([]*Sport, error)
	CountEnrollments(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
