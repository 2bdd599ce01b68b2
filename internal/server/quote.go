package server

import (
	"net/http"
	"strings"

	quotedomain "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createQuoteRequest struct {
	SportID        string          `json:"sport_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Description    string          `json:"description"`
	DurationMonths int             `json:"duration_months"`
}

type updateQuoteRequest struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Description    string          `json:"description"`
	DurationMonths int             `json:"duration_months"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Create(c.Request.Context(), quotedomain.CreateQuoteRequest{
		SportID:        strings.TrimSpace(req.SportID),
		Name:           strings.TrimSpace(req.Name),
		Price:          req.Price,
		Description:    strings.TrimSpace(req.Description),
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateQuote(c *gin.Context) {
	var req updateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Update(c.Request.Context(), quotedomain.UpdateQuoteRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Name:           strings.TrimSpace(req.Name),
		Price:          req.Price,
		Description:    strings.TrimSpace(req.Description),
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteQuote(c *gin.Context) {
	err := s.quoteSvc.Delete(c.Request.Context(), quotedomain.DeleteQuoteRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	resp, err := s.quoteSvc.GetByID(c.Request.Context(), quotedomain.GetQuoteRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListQuotes(c *gin.Context) {
	var query struct {
		pagination.Pagination
		SportID   string `form:"sport_id"`
		Societary string `form:"societary"`
		Name      string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	societary, err := parseOptionalBool(query.Societary)
	if err != nil {
		AbortWithError(c, newValidationError("societary", "invalid_societary", "invalid societary"))
		return
	}

	resp, err := s.quoteSvc.List(c.Request.Context(), quotedomain.ListQuoteRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		SportID:   strings.TrimSpace(query.SportID),
		Societary: societary,
		Name:      strings.TrimSpace(query.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isQuoteValidationError(err error) bool {
	switch err {
	case quotedomain.ErrInvalidName,
		quotedomain.ErrInvalidPrice,
		quotedomain.ErrInvalidDuration,
		quotedomain.ErrInvalidID,
		quotedomain.ErrInvalidSportID:
		return true
	default:
		return false
	}
}
