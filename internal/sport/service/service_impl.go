package service

import (
	"context"
	"strings"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sport.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSportRequest) (domain.Sport, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Sport{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	sport := domain.Sport{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &sport); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Sport{}, domain.ErrNameTaken
		}
		return domain.Sport{}, err
	}

	return sport, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSportRequest) (domain.Sport, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Sport{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Sport{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Sport{}, err
	}
	if existing == nil {
		return domain.Sport{}, domain.ErrNotFound
	}

	existing.Name = name
	existing.Description = strings.TrimSpace(req.Description)
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Sport{}, domain.ErrNameTaken
		}
		return domain.Sport{}, err
	}

	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteSportRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}

	enrolled, err := s.repo.CountEnrollments(ctx, s.db, id)
	if err != nil {
		return err
	}
	if enrolled > 0 {
		return domain.ErrSportInUse
	}

	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetSportRequest) (domain.Sport, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Sport{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Sport{}, err
	}
	if item == nil {
		return domain.Sport{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSportRequest) (domain.ListSportResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListSportFilter{
		Name: strings.TrimSpace(req.Name),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListSportResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(sport *domain.Sport) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        sport.ID.String(),
			CreatedAt: sport.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	sports := make([]domain.Sport, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sports = append(sports, *item)
	}

	resp := domain.ListSportResponse{Sports: sports}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
