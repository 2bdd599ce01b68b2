package domain

import (
	"context"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListMemberFilter struct {
	// Name and DNI match by containment, mirroring the registry search boxes.
	Name    string
	DNI     string
	SportID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	Update(ctx context.Context, db *gorm.DB, member *Member) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Member, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Member, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*Member, error)
	FindBySports(ctx context.Context, db *gorm.DB, sportIDs []snowflake.ID) ([]*Member, error)
	List(ctx context.Context, db *gorm.DB, filter ListMemberFilter, page pagination.Pagination) ([]*Member, error)
	UpdateSocietaryQuote(ctx context.Context, db *gorm.DB, memberID snowflake.ID, quoteID *snowflake.ID) error

	InsertEnrollment(ctx context.Context, db *gorm.DB, enrollment *SportEnrollment) error
	DeleteEnrollment(ctx context.Context, db *gorm.DB, memberID, sportID snowflake.ID) error
	FindEnrollment(ctx context.Context, db *gorm.DB, memberID, sportID snowflake.ID) (*SportEnrollment, error)
	ClearPrincipal(ctx context.Context, db *gorm.DB, memberID snowflake.ID) error
	SetPrincipal(ctx context.Context, db *gorm.DB, enrollmentID snowflake.ID) error
	UpdateEnrollmentQuote(ctx context.Context, db *gorm.DB, enrollmentID snowflake.ID, quoteID *snowflake.ID) error
}
