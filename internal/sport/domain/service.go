package domain

import (
	"context"
	"errors"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
)

type CreateSportRequest struct {
	Name        string
	Description string
}

type UpdateSportRequest struct {
	ID          string
	Name        string
	Description string
}

type GetSportRequest struct {
	ID string
}

type DeleteSportRequest struct {
	ID string
}

type ListSportRequest struct {
	PageToken string
	PageSize  int32
	Name      string
}

type ListSportResponse struct {
	pagination.PageInfo
	Sports []Sport `json:"sports"`
}

type Service interface {
	Create(context.Context, CreateSportRequest) (Sport, error)
	Update(context.Context, UpdateSportRequest) (Sport, error)
	Delete(context.Context, DeleteSportRequest) error
	GetByID(context.Context, GetSportRequest) (Sport, error)
	List(context.Context, ListSportRequest) (ListSportResponse, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
	ErrNameTaken   = errors.New("name_taken")
	ErrSportInUse  = errors.New("sport_in_use")
)
