package service

import (
	"context"
	"strings"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/clock"
	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/observability/metrics"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
	Repo    domain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
	repo    domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		metrics: p.Metrics,
		repo:    p.Repo,
	}
}

// Register books a payment against a due. Partial amounts accumulate on the
// due; the due settles when the accumulated total reaches its amount.
func (s *Service) Register(ctx context.Context, req domain.RegisterPaymentRequest) (domain.RegisterPaymentResponse, error) {
	id, err := s.parseID(req.DueID)
	if err != nil {
		return domain.RegisterPaymentResponse{}, err
	}
	if !req.Amount.IsPositive() {
		return domain.RegisterPaymentResponse{}, domain.ErrInvalidAmount
	}

	due, err := s.repo.FindDueByID(ctx, s.db, id)
	if err != nil {
		return domain.RegisterPaymentResponse{}, err
	}
	if due == nil {
		return domain.RegisterPaymentResponse{}, domain.ErrDueNotFound
	}
	switch due.Status {
	case duesdomain.DueStatusCancelled:
		return domain.RegisterPaymentResponse{}, domain.ErrDueCancelled
	case duesdomain.DueStatusPaid:
		return domain.RegisterPaymentResponse{}, domain.ErrDueSettled
	}

	newPaid := due.PaidAmount.Add(req.Amount)
	if newPaid.GreaterThan(due.Amount) {
		return domain.RegisterPaymentResponse{}, domain.ErrExceedsBalance
	}

	status := duesdomain.DueStatusPartial
	if newPaid.GreaterThanOrEqual(due.Amount) {
		status = duesdomain.DueStatusPaid
	} else if due.Status == duesdomain.DueStatusOverdue {
		// A partial payment does not lift an overdue flag.
		status = duesdomain.DueStatusOverdue
	}

	now := s.clock.Now()
	receipt := domain.Receipt{
		ID:        s.genID.Generate(),
		DueID:     due.ID,
		MemberID:  due.MemberID,
		Amount:    req.Amount,
		Method:    strings.TrimSpace(req.Method),
		Notes:     strings.TrimSpace(req.Notes),
		PaidAt:    now,
		CreatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertReceipt(ctx, tx, &receipt); err != nil {
			return err
		}
		return s.repo.UpdateDuePayment(ctx, tx, due.ID, newPaid, status, now)
	})
	if err != nil {
		return domain.RegisterPaymentResponse{}, err
	}

	s.metrics.IncPaymentRegistered(ctx)
	s.log.Info("payment registered",
		zap.String("due_id", due.ID.String()),
		zap.String("member_id", due.MemberID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(status)),
	)

	due.PaidAmount = newPaid
	due.Status = status
	due.UpdatedAt = now
	return domain.RegisterPaymentResponse{Receipt: receipt, Due: *due}, nil
}

func (s *Service) ListReceipts(ctx context.Context, req domain.ListReceiptRequest) (domain.ListReceiptResponse, error) {
	var filter domain.ListReceiptFilter
	if trimmed := strings.TrimSpace(req.MemberID); trimmed != "" {
		id, err := s.parseID(trimmed)
		if err != nil {
			return domain.ListReceiptResponse{}, err
		}
		filter.MemberID = &id
	}
	if trimmed := strings.TrimSpace(req.DueID); trimmed != "" {
		id, err := s.parseID(trimmed)
		if err != nil {
			return domain.ListReceiptResponse{}, err
		}
		filter.DueID = &id
	}
	if trimmed := strings.TrimSpace(req.GenerationID); trimmed != "" {
		id, err := s.parseID(trimmed)
		if err != nil {
			return domain.ListReceiptResponse{}, err
		}
		filter.GenerationID = &id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.ListReceipts(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListReceiptResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(receipt *domain.Receipt) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        receipt.ID.String(),
			CreatedAt: receipt.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	receipts := make([]domain.Receipt, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		receipts = append(receipts, *item)
	}

	resp := domain.ListReceiptResponse{Receipts: receipts}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) ListMemberDues(ctx context.Context, req domain.ListMemberDuesRequest) (domain.ListMemberDuesResponse, error) {
	memberID, err := s.parseID(req.MemberID)
	if err != nil {
		return domain.ListMemberDuesResponse{}, err
	}

	filter := domain.ListMemberDuesFilter{MemberID: memberID}
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status := duesdomain.DueStatus(strings.ToUpper(trimmed))
		switch status {
		case duesdomain.DueStatusPending, duesdomain.DueStatusPartial,
			duesdomain.DueStatusPaid, duesdomain.DueStatusOverdue,
			duesdomain.DueStatusCancelled:
			filter.Status = status
		default:
			return domain.ListMemberDuesResponse{}, domain.ErrInvalidStatus
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.ListMemberDues(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListMemberDuesResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(due *duesdomain.Due) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        due.ID.String(),
			CreatedAt: due.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	dues := make([]duesdomain.Due, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		dues = append(dues, *item)
	}

	resp := domain.ListMemberDuesResponse{Dues: dues}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// MarkOverdue is invoked by the scheduler; it is idempotent because already
// overdue dues no longer match the sweep predicate.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	marked, err := s.repo.MarkOverdue(ctx, s.db, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		s.metrics.AddOverdueMarked(ctx, marked)
		s.log.Info("dues marked overdue", zap.Int64("count", marked))
	}
	return marked, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
