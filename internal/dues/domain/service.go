package domain

import (
	"context"
	"errors"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/engine"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// SelectionMode discriminates how the billable population is chosen.
type SelectionMode string

const (
	SelectionAll      SelectionMode = "ALL"
	SelectionBySports SelectionMode = "BY_SPORTS"
	SelectionMembers  SelectionMode = "MEMBERS"
)

// Selection is a tagged value: MemberIDs belongs to SelectionMembers only,
// the by-sports population is derived from the request's SelectedSports.
type Selection struct {
	Mode      SelectionMode
	MemberIDs []string
}

// Validate rejects selections whose id list does not match their mode.
func (s Selection) Validate(selectedSports []string) error {
	switch s.Mode {
	case SelectionAll:
		if len(s.MemberIDs) > 0 {
			return ErrInvalidSelection
		}
	case SelectionBySports:
		if len(s.MemberIDs) > 0 || len(selectedSports) == 0 {
			return ErrInvalidSelection
		}
	case SelectionMembers:
		if len(s.MemberIDs) == 0 {
			return ErrInvalidSelection
		}
	default:
		return ErrInvalidSelection
	}
	return nil
}

// Override is one per-run custom amount for a member's enrollment.
type Override struct {
	MemberID string
	SportID  string
	Amount   decimal.Decimal
}

// GenerateRequest configures one billing run; Preview and Confirm take the
// same shape so a confirmed batch is exactly what was previewed.
type GenerateRequest struct {
	Month                     int
	Year                      int
	IncludeSocietary          bool
	IncludeNonPrincipalSports bool
	Selection                 Selection
	SelectedSports            []string
	Overrides                 []Override
	Notes                     string
}

// Preview is the computed result before persistence. It is never stored; a
// changed config discards it and recomputes.
type Preview struct {
	Month  int           `json:"month"`
	Year   int           `json:"year"`
	Notes  string        `json:"notes,omitempty"`
	Result engine.Result `json:"result"`
}

type RevertRequest struct {
	ID string
}

type GetGenerationRequest struct {
	ID string
}

type GenerationDetail struct {
	Generation PaymentGeneration `json:"generation"`
	Dues       []Due             `json:"dues"`
}

type ListGenerationRequest struct {
	PageToken string
	PageSize  int32
	Month     *int
	Year      *int
	Status    string
}

type ListGenerationResponse struct {
	pagination.PageInfo
	Generations []PaymentGeneration `json:"generations"`
}

type Service interface {
	Preview(context.Context, GenerateRequest) (Preview, error)
	Confirm(context.Context, GenerateRequest) (GenerationDetail, error)
	Revert(context.Context, RevertRequest) (PaymentGeneration, error)
	GetByID(context.Context, GetGenerationRequest) (GenerationDetail, error)
	List(context.Context, ListGenerationRequest) (ListGenerationResponse, error)
}

var (
	ErrInvalidMonth     = errors.New("invalid_month")
	ErrInvalidYear      = errors.New("invalid_year")
	ErrInvalidSelection = errors.New("invalid_selection")
	ErrInvalidOverride  = errors.New("invalid_override")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrEmptyGeneration  = errors.New("empty_generation")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyReverted  = errors.New("already_reverted")
)
