package domain

import (
	"context"
	"errors"

	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
)

type CreateMemberRequest struct {
	Name             string
	DNI              string
	Email            string
	Phone            string
	SocietaryQuoteID string
}

type UpdateMemberRequest struct {
	ID               string
	Name             string
	DNI              string
	Email            string
	Phone            string
	SocietaryQuoteID string
}

type GetMemberRequest struct {
	ID string
}

type DeleteMemberRequest struct {
	ID string
}

type ListMemberRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	DNI       string
	SportID   string
}

type ListMemberResponse struct {
	pagination.PageInfo
	Members []Member `json:"members"`
}

type EnrollRequest struct {
	MemberID  string
	SportID   string
	QuoteID   string
	Principal bool
}

type UnenrollRequest struct {
	MemberID string
	SportID  string
}

type SetPrincipalRequest struct {
	MemberID string
	SportID  string
}

type SetEnrollmentQuoteRequest struct {
	MemberID string
	SportID  string
	QuoteID  string
}

type SetSocietaryQuoteRequest struct {
	MemberID string
	QuoteID  string
}

type Service interface {
	Create(context.Context, CreateMemberRequest) (Member, error)
	Update(context.Context, UpdateMemberRequest) (Member, error)
	Delete(context.Context, DeleteMemberRequest) error
	GetByID(context.Context, GetMemberRequest) (Member, error)
	List(context.Context, ListMemberRequest) (ListMemberResponse, error)

	Enroll(context.Context, EnrollRequest) (SportEnrollment, error)
	Unenroll(context.Context, UnenrollRequest) error
	SetPrincipal(context.Context, SetPrincipalRequest) (SportEnrollment, error)
	SetEnrollmentQuote(context.Context, SetEnrollmentQuoteRequest) (SportEnrollment, error)
	SetSocietaryQuote(context.Context, SetSocietaryQuoteRequest) (Member, error)
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidDNI          = errors.New("invalid_dni")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidSportID      = errors.New("invalid_sport_id")
	ErrInvalidQuoteID      = errors.New("invalid_quote_id")
	ErrNotFound            = errors.New("not_found")
	ErrEnrollmentNotFound  = errors.New("enrollment_not_found")
	ErrDNITaken            = errors.New("dni_taken")
	ErrAlreadyEnrolled     = errors.New("already_enrolled")
	ErrQuoteSportMismatch  = errors.New("quote_sport_mismatch")
	ErrSocietaryQuoteShape = errors.New("quote_not_societary")
)
