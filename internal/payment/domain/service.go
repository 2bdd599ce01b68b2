package domain

import (
	"context"
	"errors"

	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type RegisterPaymentRequest struct {
	DueID  string
	Amount decimal.Decimal
	Method string
	Notes  string
}

// RegisterPaymentResponse returns the receipt plus the due as the payment
// left it, so callers see the status transition.
type RegisterPaymentResponse struct {
	Receipt Receipt        `json:"receipt"`
	Due     duesdomain.Due `json:"due"`
}

type ListReceiptRequest struct {
	PageToken    string
	PageSize     int32
	MemberID     string
	DueID        string
	GenerationID string
}

type ListReceiptResponse struct {
	pagination.PageInfo
	Receipts []Receipt `json:"receipts"`
}

type ListMemberDuesRequest struct {
	MemberID  string
	PageToken string
	PageSize  int32
	Status    string
}

type ListMemberDuesResponse struct {
	pagination.PageInfo
	Dues []duesdomain.Due `json:"dues"`
}

type Service interface {
	Register(context.Context, RegisterPaymentRequest) (RegisterPaymentResponse, error)
	ListReceipts(context.Context, ListReceiptRequest) (ListReceiptResponse, error)
	ListMemberDues(context.Context, ListMemberDuesRequest) (ListMemberDuesResponse, error)
	// MarkOverdue flips pending and partial dues past their due date to
	// overdue and reports how many changed.
	MarkOverdue(ctx context.Context) (int64, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrDueNotFound    = errors.New("due_not_found")
	ErrDueCancelled   = errors.New("due_cancelled")
	ErrDueSettled     = errors.New("due_settled")
	ErrExceedsBalance = errors.New("exceeds_balance")
)
