package server

import (
	"net/http"
	"strings"

	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type generationOverride struct {
	MemberID string          `json:"member_id"`
	SportID  string          `json:"sport_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type generateRequest struct {
	Month                     int                  `json:"month"`
	Year                      int                  `json:"year"`
	IncludeSocietary          bool                 `json:"include_societary"`
	IncludeNonPrincipalSports bool                 `json:"include_non_principal_sports"`
	SelectionMode             string               `json:"selection_mode"`
	MemberIDs                 []string             `json:"member_ids"`
	SelectedSports            []string             `json:"selected_sports"`
	Overrides                 []generationOverride `json:"overrides"`
	Notes                     string               `json:"notes"`
}

func (r generateRequest) toDomain() duesdomain.GenerateRequest {
	overrides := make([]duesdomain.Override, 0, len(r.Overrides))
	for _, override := range r.Overrides {
		overrides = append(overrides, duesdomain.Override{
			MemberID: strings.TrimSpace(override.MemberID),
			SportID:  strings.TrimSpace(override.SportID),
			Amount:   override.Amount,
		})
	}
	mode := duesdomain.SelectionMode(strings.ToUpper(strings.TrimSpace(r.SelectionMode)))
	if mode == "" {
		mode = duesdomain.SelectionAll
	}
	return duesdomain.GenerateRequest{
		Month:                     r.Month,
		Year:                      r.Year,
		IncludeSocietary:          r.IncludeSocietary,
		IncludeNonPrincipalSports: r.IncludeNonPrincipalSports,
		Selection: duesdomain.Selection{
			Mode:      mode,
			MemberIDs: r.MemberIDs,
		},
		SelectedSports: r.SelectedSports,
		Overrides:      overrides,
		Notes:          strings.TrimSpace(r.Notes),
	}
}

func (s *Server) PreviewGeneration(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.duesSvc.Preview(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmGeneration(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.duesSvc.Confirm(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RevertGeneration(c *gin.Context) {
	resp, err := s.duesSvc.Revert(c.Request.Context(), duesdomain.RevertRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGenerationByID(c *gin.Context) {
	resp, err := s.duesSvc.GetByID(c.Request.Context(), duesdomain.GetGenerationRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListGenerations(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Month  string `form:"month"`
		Year   string `form:"year"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	month, err := parseOptionalInt(query.Month)
	if err != nil {
		AbortWithError(c, newValidationError("month", "invalid_month", "invalid month"))
		return
	}
	year, err := parseOptionalInt(query.Year)
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}

	resp, err := s.duesSvc.List(c.Request.Context(), duesdomain.ListGenerationRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Month:     month,
		Year:      year,
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isDuesValidationError(err error) bool {
	switch err {
	case duesdomain.ErrInvalidMonth,
		duesdomain.ErrInvalidYear,
		duesdomain.ErrInvalidSelection,
		duesdomain.ErrInvalidOverride,
		duesdomain.ErrInvalidID,
		duesdomain.ErrInvalidStatus,
		duesdomain.ErrEmptyGeneration:
		return true
	default:
		return false
	}
}
