package server

import (
	"net/http"
	"strings"

	paymentdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type registerPaymentRequest struct {
	DueID  string          `json:"due_id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Notes  string          `json:"notes"`
}

func (s *Server) RegisterPayment(c *gin.Context) {
	var req registerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Register(c.Request.Context(), paymentdomain.RegisterPaymentRequest{
		DueID:  strings.TrimSpace(req.DueID),
		Amount: req.Amount,
		Method: strings.TrimSpace(req.Method),
		Notes:  strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReceipts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		MemberID     string `form:"member_id"`
		DueID        string `form:"due_id"`
		GenerationID string `form:"generation_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.ListReceipts(c.Request.Context(), paymentdomain.ListReceiptRequest{
		PageToken:    query.PageToken,
		PageSize:     int32(query.PageSize),
		MemberID:     strings.TrimSpace(query.MemberID),
		DueID:        strings.TrimSpace(query.DueID),
		GenerationID: strings.TrimSpace(query.GenerationID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidID,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
