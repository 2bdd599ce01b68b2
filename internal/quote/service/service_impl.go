package service

import (
	"context"
	"strings"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	sportdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	SportRepo sportdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	sportRepo sportdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("quote.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		sportRepo: p.SportRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuoteRequest) (domain.Quote, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Quote{}, domain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return domain.Quote{}, domain.ErrInvalidPrice
	}
	duration := req.DurationMonths
	if duration == 0 {
		duration = 1
	}
	if duration < 1 {
		return domain.Quote{}, domain.ErrInvalidDuration
	}

	var sportID *snowflake.ID
	if trimmed := strings.TrimSpace(req.SportID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil || id == 0 {
			return domain.Quote{}, domain.ErrInvalidSportID
		}
		sport, err := s.sportRepo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Quote{}, err
		}
		if sport == nil {
			return domain.Quote{}, domain.ErrInvalidSportID
		}
		sportID = &id
	}

	now := time.Now().UTC()
	quote := domain.Quote{
		ID:             s.genID.Generate(),
		SportID:        sportID,
		Name:           name,
		Price:          req.Price,
		Description:    strings.TrimSpace(req.Description),
		DurationMonths: duration,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &quote); err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateQuoteRequest) (domain.Quote, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Quote{}, domain.ErrInvalidName
	}
	if req.Price.IsNegative() {
		return domain.Quote{}, domain.ErrInvalidPrice
	}
	if req.DurationMonths < 1 {
		return domain.Quote{}, domain.ErrInvalidDuration
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Quote{}, err
	}
	if existing == nil {
		return domain.Quote{}, domain.ErrNotFound
	}

	existing.Name = name
	existing.Price = req.Price
	existing.Description = strings.TrimSpace(req.Description)
	existing.DurationMonths = req.DurationMonths
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Quote{}, err
	}

	existing.MemberCount, err = s.repo.CountMembers(ctx, s.db, existing)
	if err != nil {
		return domain.Quote{}, err
	}

	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteQuoteRequest) error {
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

	members, err := s.repo.CountMembers(ctx, s.db, existing)
	if err != nil {
		return err
	}
	if members > 0 {
		return domain.ErrQuoteInUse
	}

	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetQuoteRequest) (domain.Quote, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Quote{}, err
	}
	if item == nil {
		return domain.Quote{}, domain.ErrNotFound
	}

	item.MemberCount, err = s.repo.CountMembers(ctx, s.db, item)
	if err != nil {
		return domain.Quote{}, err
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListQuoteRequest) (domain.ListQuoteResponse, error) {
	filter := domain.ListQuoteFilter{
		Societary: req.Societary,
		Name:      strings.TrimSpace(req.Name),
	}
	if trimmed := strings.TrimSpace(req.SportID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil || id == 0 {
			return domain.ListQuoteResponse{}, domain.ErrInvalidSportID
		}
		filter.SportID = &id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListQuoteResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(quote *domain.Quote) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        quote.ID.String(),
			CreatedAt: quote.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	quotes := make([]domain.Quote, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		item.MemberCount, err = s.repo.CountMembers(ctx, s.db, item)
		if err != nil {
			return domain.ListQuoteResponse{}, err
		}
		quotes = append(quotes, *item)
	}

	resp := domain.ListQuoteResponse{Quotes: quotes}
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
