package repository

import (
	"context"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/option"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Omit("Enrollments").Create(member).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]any{
			"name":               member.Name,
			"dni":                member.DNI,
			"email":              member.Email,
			"phone":              member.Phone,
			"societary_quote_id": member.SocietaryQuoteID,
			"updated_at":         member.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.SportEnrollment{}, "member_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Member{}, "id = ?", id).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).
		Preload("Enrollments").
		Where("id = ?", id).
		Limit(1).
		Find(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var members []*domain.Member
	err := db.WithContext(ctx).
		Preload("Enrollments").
		Where("id IN ?", ids).
		Order("created_at asc, id asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]*domain.Member, error) {
	var members []*domain.Member
	err := db.WithContext(ctx).
		Preload("Enrollments").
		Order("created_at asc, id asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) FindBySports(ctx context.Context, db *gorm.DB, sportIDs []snowflake.ID) ([]*domain.Member, error) {
	if len(sportIDs) == 0 {
		return nil, nil
	}
	var members []*domain.Member
	err := db.WithContext(ctx).
		Preload("Enrollments").
		Where("id IN (SELECT member_id FROM sport_enrollments WHERE sport_id IN ?)", sportIDs).
		Order("created_at asc, id asc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListMemberFilter, page pagination.Pagination) ([]*domain.Member, error) {
	var members []*domain.Member
	stmt := db.WithContext(ctx).Model(&domain.Member{}).Preload("Enrollments")
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.DNI != "" {
		stmt = stmt.Where("dni LIKE ?", "%"+filter.DNI+"%")
	}
	if filter.SportID != nil {
		stmt = stmt.Where("id IN (SELECT member_id FROM sport_enrollments WHERE sport_id = ?)", *filter.SportID)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repo) UpdateSocietaryQuote(ctx context.Context, db *gorm.DB, memberID snowflake.ID, quoteID *snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", memberID).
		Update("societary_quote_id", quoteID).Error
}

func (r *repo) InsertEnrollment(ctx context.Context, db *gorm.DB, enrollment *domain.SportEnrollment) error {
	return db.WithContext(ctx).Create(enrollment).Error
}

func (r *repo) DeleteEnrollment(ctx context.Context, db *gorm.DB, memberID, sportID snowflake.ID) error {
	return db.WithContext(ctx).
		Delete(&domain.SportEnrollment{}, "member_id = ? AND sport_id = ?", memberID, sportID).Error
}

func (r *repo) FindEnrollment(ctx context.Context, db *gorm.DB, memberID, sportID snowflake.ID) (*domain.SportEnrollment, error) {
	var enrollment domain.SportEnrollment
	err := db.WithContext(ctx).
		Where("member_id = ? AND sport_id = ?", memberID, sportID).
		Limit(1).
		Find(&enrollment).Error
	if err != nil {
		return nil, err
	}
	if enrollment.ID == 0 {
		return nil, nil
	}
	return &enrollment, nil
}

func (r *repo) ClearPrincipal(ctx context.Context, db *gorm.DB, memberID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.SportEnrollment{}).
		Where("member_id = ? AND principal = ?", memberID, true).
		Update("principal", false).Error
}

func (r *repo) SetPrincipal(ctx context.Context, db *gorm.DB, enrollmentID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.SportEnrollment{}).
		Where("id = ?", enrollmentID).
		Update("principal", true).Error
}

func (r *repo) UpdateEnrollmentQuote(ctx context.Context, db *gorm.DB, enrollmentID snowflake.ID, quoteID *snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.SportEnrollment{}).
		Where("id = ?", enrollmentID).
		Update("quote_id", quoteID).Error
}
