package service

import (
	"context"
	"strings"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	quotedomain "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	sportdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db"
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
	QuoteRepo quotedomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	sportRepo sportdomain.Repository
	quoteRepo quotedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("member.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		sportRepo: p.SportRepo,
		quoteRepo: p.QuoteRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMemberRequest) (domain.Member, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, domain.ErrInvalidName
	}
	dni := strings.TrimSpace(req.DNI)
	if dni == "" {
		return domain.Member{}, domain.ErrInvalidDNI
	}

	societaryQuoteID, err := s.resolveSocietaryQuote(ctx, req.SocietaryQuoteID)
	if err != nil {
		return domain.Member{}, err
	}

	now := time.Now().UTC()
	member := domain.Member{
		ID:               s.genID.Generate(),
		Name:             name,
		DNI:              dni,
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		SocietaryQuoteID: societaryQuoteID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &member); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Member{}, domain.ErrDNITaken
		}
		return domain.Member{}, err
	}

	return member, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateMemberRequest) (domain.Member, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Member{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, domain.ErrInvalidName
	}
	dni := strings.TrimSpace(req.DNI)
	if dni == "" {
		return domain.Member{}, domain.ErrInvalidDNI
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Member{}, err
	}
	if existing == nil {
		return domain.Member{}, domain.ErrNotFound
	}

	societaryQuoteID, err := s.resolveSocietaryQuote(ctx, req.SocietaryQuoteID)
	if err != nil {
		return domain.Member{}, err
	}

	existing.Name = name
	existing.DNI = dni
	existing.Email = strings.TrimSpace(req.Email)
	existing.Phone = strings.TrimSpace(req.Phone)
	existing.SocietaryQuoteID = societaryQuoteID
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Member{}, domain.ErrDNITaken
		}
		return domain.Member{}, err
	}

	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteMemberRequest) error {
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

	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetMemberRequest) (domain.Member, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Member{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Member{}, err
	}
	if item == nil {
		return domain.Member{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListMemberRequest) (domain.ListMemberResponse, error) {
	filter := domain.ListMemberFilter{
		Name: strings.TrimSpace(req.Name),
		DNI:  strings.TrimSpace(req.DNI),
	}
	if trimmed := strings.TrimSpace(req.SportID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil || id == 0 {
			return domain.ListMemberResponse{}, domain.ErrInvalidSportID
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
		return domain.ListMemberResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(member *domain.Member) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        member.ID.String(),
			CreatedAt: member.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	members := make([]domain.Member, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		members = append(members, *item)
	}

	resp := domain.ListMemberResponse{Members: members}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) Enroll(ctx context.Context, req domain.EnrollRequest) (domain.SportEnrollment, error) {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	sportID, err := snowflake.ParseString(strings.TrimSpace(req.SportID))
	if err != nil || sportID == 0 {
		return domain.SportEnrollment{}, domain.ErrInvalidSportID
	}

	member, err := s.repo.FindByID(ctx, s.db, memberID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	if member == nil {
		return domain.SportEnrollment{}, domain.ErrNotFound
	}

	sport, err := s.sportRepo.FindByID(ctx, s.db, sportID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	if sport == nil {
		return domain.SportEnrollment{}, domain.ErrInvalidSportID
	}

	quoteID, err := s.resolveSportQuote(ctx, req.QuoteID, sportID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}

	now := time.Now().UTC()
	enrollment := domain.SportEnrollment{
		ID:        s.genID.Generate(),
		MemberID:  memberID,
		SportID:   sportID,
		QuoteID:   quoteID,
		Principal: req.Principal,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Principal {
			// A member carries at most one principal enrollment; demote the
			// current one before inserting.
			if err := s.repo.ClearPrincipal(ctx, tx, memberID); err != nil {
				return err
			}
		}
		return s.repo.InsertEnrollment(ctx, tx, &enrollment)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.SportEnrollment{}, domain.ErrAlreadyEnrolled
		}
		return domain.SportEnrollment{}, err
	}

	return enrollment, nil
}

func (s *Service) Unenroll(ctx context.Context, req domain.UnenrollRequest) error {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return err
	}
	sportID, err := snowflake.ParseString(strings.TrimSpace(req.SportID))
	if err != nil || sportID == 0 {
		return domain.ErrInvalidSportID
	}

	enrollment, err := s.repo.FindEnrollment(ctx, s.db, memberID, sportID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return domain.ErrEnrollmentNotFound
	}

	return s.repo.DeleteEnrollment(ctx, s.db, memberID, sportID)
}

func (s *Service) SetPrincipal(ctx context.Context, req domain.SetPrincipalRequest) (domain.SportEnrollment, error) {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	sportID, err := snowflake.ParseString(strings.TrimSpace(req.SportID))
	if err != nil || sportID == 0 {
		return domain.SportEnrollment{}, domain.ErrInvalidSportID
	}

	enrollment, err := s.repo.FindEnrollment(ctx, s.db, memberID, sportID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	if enrollment == nil {
		return domain.SportEnrollment{}, domain.ErrEnrollmentNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.ClearPrincipal(ctx, tx, memberID); err != nil {
			return err
		}
		return s.repo.SetPrincipal(ctx, tx, enrollment.ID)
	})
	if err != nil {
		return domain.SportEnrollment{}, err
	}

	enrollment.Principal = true
	return *enrollment, nil
}

func (s *Service) SetEnrollmentQuote(ctx context.Context, req domain.SetEnrollmentQuoteRequest) (domain.SportEnrollment, error) {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	sportID, err := snowflake.ParseString(strings.TrimSpace(req.SportID))
	if err != nil || sportID == 0 {
		return domain.SportEnrollment{}, domain.ErrInvalidSportID
	}

	enrollment, err := s.repo.FindEnrollment(ctx, s.db, memberID, sportID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}
	if enrollment == nil {
		return domain.SportEnrollment{}, domain.ErrEnrollmentNotFound
	}

	quoteID, err := s.resolveSportQuote(ctx, req.QuoteID, sportID)
	if err != nil {
		return domain.SportEnrollment{}, err
	}

	if err := s.repo.UpdateEnrollmentQuote(ctx, s.db, enrollment.ID, quoteID); err != nil {
		return domain.SportEnrollment{}, err
	}

	enrollment.QuoteID = quoteID
	return *enrollment, nil
}

// SetSocietaryQuote rebinds a member's club-wide fee tier without touching the
// rest of the record. An empty quote id clears the reference.
func (s *Service) SetSocietaryQuote(ctx context.Context, req domain.SetSocietaryQuoteRequest) (domain.Member, error) {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.Member{}, err
	}

	member, err := s.repo.FindByID(ctx, s.db, memberID)
	if err != nil {
		return domain.Member{}, err
	}
	if member == nil {
		return domain.Member{}, domain.ErrNotFound
	}

	quoteID, err := s.resolveSocietaryQuote(ctx, req.QuoteID)
	if err != nil {
		return domain.Member{}, err
	}

	if err := s.repo.UpdateSocietaryQuote(ctx, s.db, memberID, quoteID); err != nil {
		return domain.Member{}, err
	}

	member.SocietaryQuoteID = quoteID
	member.UpdatedAt = time.Now().UTC()
	return *member, nil
}

// resolveSocietaryQuote validates that the referenced quote exists and is the
// club-wide kind. An empty id clears the reference.
func (s *Service) resolveSocietaryQuote(ctx context.Context, raw string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidQuoteID
	}
	quote, err := s.quoteRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrInvalidQuoteID
	}
	if !quote.Societary() {
		return nil, domain.ErrSocietaryQuoteShape
	}
	return &id, nil
}

// resolveSportQuote validates that the referenced quote belongs to the sport
// being enrolled. An empty id leaves the enrollment without a fee tier, which
// generation surfaces as incomplete.
func (s *Service) resolveSportQuote(ctx context.Context, raw string, sportID snowflake.ID) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidQuoteID
	}
	quote, err := s.quoteRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrInvalidQuoteID
	}
	if quote.SportID == nil || *quote.SportID != sportID {
		return nil, domain.ErrQuoteSportMismatch
	}
	return &id, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
