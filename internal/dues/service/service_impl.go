package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/clock"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/engine"
	memberdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/observability/metrics"
	quotedomain "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	sportdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dueDayOfMonth is the day of the billed period the dues fall due.
const dueDayOfMonth = 10

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Metrics    *metrics.Metrics `optional:"true"`
	Repo       domain.Repository
	MemberRepo memberdomain.Repository
	SportRepo  sportdomain.Repository
	QuoteRepo  quotedomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	metrics    *metrics.Metrics
	repo       domain.Repository
	memberRepo memberdomain.Repository
	sportRepo  sportdomain.Repository
	quoteRepo  quotedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("dues.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		metrics:    p.Metrics,
		repo:       p.Repo,
		memberRepo: p.MemberRepo,
		sportRepo:  p.SportRepo,
		quoteRepo:  p.QuoteRepo,
	}
}

// Preview computes a generation without persisting anything. The caller is
// expected to discard it and recompute whenever the request changes.
func (s *Service) Preview(ctx context.Context, req domain.GenerateRequest) (domain.Preview, error) {
	result, _, err := s.compute(ctx, req)
	if err != nil {
		return domain.Preview{}, err
	}
	return domain.Preview{
		Month:  req.Month,
		Year:   req.Year,
		Notes:  strings.TrimSpace(req.Notes),
		Result: result,
	}, nil
}

// Confirm recomputes the generation from the request and persists it as one
// batch plus its dues inside a transaction. An outdated preview can therefore
// never be written; only the request is trusted.
func (s *Service) Confirm(ctx context.Context, req domain.GenerateRequest) (domain.GenerationDetail, error) {
	result, _, err := s.compute(ctx, req)
	if err != nil {
		return domain.GenerationDetail{}, err
	}
	if result.TotalPayments == 0 {
		return domain.GenerationDetail{}, domain.ErrEmptyGeneration
	}

	stats, err := json.Marshal(domain.GenerationStats{
		OnlySocietaryCount:    result.OnlySocietaryCount,
		OnlySocietaryAmount:   result.OnlySocietaryAmount,
		PrincipalSportsCount:  result.PrincipalSportsCount,
		PrincipalSportsAmount: result.PrincipalSportsAmount,
		SecondarySportsCount:  result.SecondarySportsCount,
		SecondarySportsAmount: result.SecondarySportsAmount,
		TotalPayments:         result.TotalPayments,
		TotalAmount:           result.TotalAmount,
	})
	if err != nil {
		return domain.GenerationDetail{}, err
	}

	now := s.clock.Now()
	generation := domain.PaymentGeneration{
		ID:          s.genID.Generate(),
		Month:       req.Month,
		Year:        req.Year,
		Status:      domain.GenerationStatusActive,
		Notes:       strings.TrimSpace(req.Notes),
		Stats:       stats,
		GeneratedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dueDate := time.Date(req.Year, time.Month(req.Month), dueDayOfMonth, 0, 0, 0, 0, time.UTC)

	var dues []*domain.Due
	for _, member := range result.Breakdown {
		for _, item := range member.Payments {
			due := &domain.Due{
				ID:           s.genID.Generate(),
				GenerationID: generation.ID,
				MemberID:     member.MemberID,
				Type:         domain.DueType(item.Type),
				SportID:      item.SportID,
				Description:  item.Description,
				Amount:       item.Amount,
				PaidAmount:   decimal.Zero,
				DueDate:      dueDate,
				Status:       domain.DueStatusPending,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if item.Breakdown != nil {
				breakdown, err := json.Marshal(item.Breakdown)
				if err != nil {
					return domain.GenerationDetail{}, err
				}
				due.Breakdown = breakdown
			}
			dues = append(dues, due)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertGeneration(ctx, tx, &generation); err != nil {
			return err
		}
		return s.repo.InsertDues(ctx, tx, dues)
	})
	if err != nil {
		s.metrics.IncGeneration(ctx, "failed")
		return domain.GenerationDetail{}, err
	}

	s.metrics.IncGeneration(ctx, "confirmed")
	s.metrics.AddDuesCreated(ctx, int64(len(dues)))
	s.log.Info("generation confirmed",
		zap.String("generation_id", generation.ID.String()),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("dues", len(dues)),
		zap.String("total_amount", result.TotalAmount.String()),
	)

	detail := domain.GenerationDetail{Generation: generation}
	for _, due := range dues {
		detail.Dues = append(detail.Dues, *due)
	}
	return detail, nil
}

// Revert marks the batch reverted and cancels its unpaid dues. Nothing is
// deleted; paid dues keep their status.
func (s *Service) Revert(ctx context.Context, req domain.RevertRequest) (domain.PaymentGeneration, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.PaymentGeneration{}, err
	}

	generation, err := s.repo.FindGenerationByID(ctx, s.db, id)
	if err != nil {
		return domain.PaymentGeneration{}, err
	}
	if generation == nil {
		return domain.PaymentGeneration{}, domain.ErrNotFound
	}
	if generation.Status == domain.GenerationStatusReverted {
		return domain.PaymentGeneration{}, domain.ErrAlreadyReverted
	}

	now := s.clock.Now()
	var cancelled int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateGenerationStatus(ctx, tx, id, domain.GenerationStatusReverted, now); err != nil {
			return err
		}
		cancelled, err = s.repo.CancelDuesByGeneration(ctx, tx, id, now)
		return err
	})
	if err != nil {
		return domain.PaymentGeneration{}, err
	}

	s.metrics.IncGeneration(ctx, "reverted")
	s.log.Info("generation reverted",
		zap.String("generation_id", id.String()),
		zap.Int64("dues_cancelled", cancelled),
	)

	generation.Status = domain.GenerationStatusReverted
	generation.UpdatedAt = now
	return *generation, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetGenerationRequest) (domain.GenerationDetail, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.GenerationDetail{}, err
	}

	generation, err := s.repo.FindGenerationByID(ctx, s.db, id)
	if err != nil {
		return domain.GenerationDetail{}, err
	}
	if generation == nil {
		return domain.GenerationDetail{}, domain.ErrNotFound
	}

	dues, err := s.repo.FindDuesByGeneration(ctx, s.db, id)
	if err != nil {
		return domain.GenerationDetail{}, err
	}

	detail := domain.GenerationDetail{Generation: *generation}
	for _, due := range dues {
		detail.Dues = append(detail.Dues, *due)
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, req domain.ListGenerationRequest) (domain.ListGenerationResponse, error) {
	filter := domain.ListGenerationFilter{
		Month: req.Month,
		Year:  req.Year,
	}
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status := domain.GenerationStatus(strings.ToUpper(trimmed))
		if status != domain.GenerationStatusActive && status != domain.GenerationStatusReverted {
			return domain.ListGenerationResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.ListGenerations(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListGenerationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(generation *domain.PaymentGeneration) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        generation.ID.String(),
			CreatedAt: generation.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	generations := make([]domain.PaymentGeneration, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		generations = append(generations, *item)
	}

	resp := domain.ListGenerationResponse{Generations: generations}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// compute validates the request, resolves the roster for its selection mode
// and runs the pricing engine over it.
func (s *Service) compute(ctx context.Context, req domain.GenerateRequest) (engine.Result, []engine.MemberInput, error) {
	if req.Month < 1 || req.Month > 12 {
		return engine.Result{}, nil, domain.ErrInvalidMonth
	}
	if req.Year < 2000 || req.Year > 2100 {
		return engine.Result{}, nil, domain.ErrInvalidYear
	}
	if err := req.Selection.Validate(req.SelectedSports); err != nil {
		return engine.Result{}, nil, err
	}

	selectedSports, err := parseIDs(req.SelectedSports, domain.ErrInvalidSelection)
	if err != nil {
		return engine.Result{}, nil, err
	}

	overrides := make(map[engine.OverrideKey]decimal.Decimal, len(req.Overrides))
	for _, override := range req.Overrides {
		memberID, err := snowflake.ParseString(strings.TrimSpace(override.MemberID))
		if err != nil || memberID == 0 {
			return engine.Result{}, nil, domain.ErrInvalidOverride
		}
		sportID, err := snowflake.ParseString(strings.TrimSpace(override.SportID))
		if err != nil || sportID == 0 {
			return engine.Result{}, nil, domain.ErrInvalidOverride
		}
		overrides[engine.OverrideKey{MemberID: memberID, SportID: sportID}] = override.Amount
	}

	members, err := s.resolveRoster(ctx, req.Selection, selectedSports)
	if err != nil {
		return engine.Result{}, nil, err
	}

	inputs, err := s.buildInputs(ctx, members)
	if err != nil {
		return engine.Result{}, nil, err
	}

	result := engine.Compute(inputs, engine.Config{
		Month:                     req.Month,
		Year:                      req.Year,
		IncludeSocietary:          req.IncludeSocietary,
		IncludeNonPrincipalSports: req.IncludeNonPrincipalSports,
		SelectedSports:            selectedSports,
		Overrides:                 overrides,
		Notes:                     strings.TrimSpace(req.Notes),
	})
	return result, inputs, nil
}

func (s *Service) resolveRoster(ctx context.Context, selection domain.Selection, selectedSports []snowflake.ID) ([]*memberdomain.Member, error) {
	switch selection.Mode {
	case domain.SelectionAll:
		return s.memberRepo.FindAll(ctx, s.db)
	case domain.SelectionBySports:
		return s.memberRepo.FindBySports(ctx, s.db, selectedSports)
	case domain.SelectionMembers:
		ids, err := parseIDs(selection.MemberIDs, domain.ErrInvalidSelection)
		if err != nil {
			return nil, err
		}
		return s.memberRepo.FindByIDs(ctx, s.db, ids)
	default:
		return nil, domain.ErrInvalidSelection
	}
}

// buildInputs resolves sport names and fee tiers for the roster in two batch
// lookups, then projects each member into the engine's input shape. A missing
// tier maps to a nil quote so the engine can flag it instead of skipping.
func (s *Service) buildInputs(ctx context.Context, members []*memberdomain.Member) ([]engine.MemberInput, error) {
	quoteIDs := make(map[snowflake.ID]struct{})
	sportIDs := make(map[snowflake.ID]struct{})
	for _, member := range members {
		if member.SocietaryQuoteID != nil {
			quoteIDs[*member.SocietaryQuoteID] = struct{}{}
		}
		for _, enrollment := range member.Enrollments {
			sportIDs[enrollment.SportID] = struct{}{}
			if enrollment.QuoteID != nil {
				quoteIDs[*enrollment.QuoteID] = struct{}{}
			}
		}
	}

	quotes, err := s.quoteRepo.FindByIDs(ctx, s.db, keys(quoteIDs))
	if err != nil {
		return nil, err
	}
	quoteByID := make(map[snowflake.ID]*quotedomain.Quote, len(quotes))
	for _, quote := range quotes {
		quoteByID[quote.ID] = quote
	}

	sports, err := s.sportRepo.FindByIDs(ctx, s.db, keys(sportIDs))
	if err != nil {
		return nil, err
	}
	sportByID := make(map[snowflake.ID]*sportdomain.Sport, len(sports))
	for _, sport := range sports {
		sportByID[sport.ID] = sport
	}

	inputs := make([]engine.MemberInput, 0, len(members))
	for _, member := range members {
		input := engine.MemberInput{
			ID:   member.ID,
			Name: member.Name,
			DNI:  member.DNI,
		}
		if member.SocietaryQuoteID != nil {
			input.Societary = quoteRef(quoteByID[*member.SocietaryQuoteID])
		}
		for _, enrollment := range member.Enrollments {
			sportName := ""
			if sport, ok := sportByID[enrollment.SportID]; ok {
				sportName = sport.Name
			}
			var ref *engine.QuoteRef
			if enrollment.QuoteID != nil {
				ref = quoteRef(quoteByID[*enrollment.QuoteID])
			}
			input.Enrollments = append(input.Enrollments, engine.Enrollment{
				SportID:   enrollment.SportID,
				SportName: sportName,
				Principal: enrollment.Principal,
				Quote:     ref,
			})
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseIDs(values []string, invalid error) ([]snowflake.ID, error) {
	ids := make([]snowflake.ID, 0, len(values))
	for _, value := range values {
		id, err := snowflake.ParseString(strings.TrimSpace(value))
		if err != nil || id == 0 {
			return nil, invalid
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func keys(set map[snowflake.ID]struct{}) []snowflake.ID {
	out := make([]snowflake.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func quoteRef(quote *quotedomain.Quote) *engine.QuoteRef {
	if quote == nil {
		return nil
	}
	return &engine.QuoteRef{
		ID:    quote.ID,
		Name:  quote.Name,
		Price: quote.Price,
	}
}
