package domain

import (
	"context"
	"errors"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateQuoteRequest struct {
	SportID        string
	Name           string
	Price          decimal.Decimal
	Description    string
	DurationMonths int
}

type UpdateQuoteRequest struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	Description    string
	DurationMonths int
}

type GetQuoteRequest struct {
	ID string
}

type DeleteQuoteRequest struct {
	ID string
}

type ListQuoteRequest struct {
	PageToken string
	PageSize  int32
	SportID   string
	Societary *bool
	Name      string
}

type ListQuoteResponse struct {
	pagination.PageInfo
	Quotes []Quote `json:"quotes"`
}

type Service interface {
	Create(context.Context, CreateQuoteRequest) (Quote, error)
	Update(context.Context, UpdateQuoteRequest) (Quote, error)
	Delete(context.Context, DeleteQuoteRequest) error
	GetByID(context.Context, GetQuoteRequest) (Quote, error)
	List(context.Context, ListQuoteRequest) (ListQuoteResponse, error)
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidSportID  = errors.New("invalid_sport_id")
	ErrNotFound        = errors.New("not_found")
	ErrQuoteInUse      = errors.New("quote_in_use")
)
