package server

import (
	"net/http"
	"strings"

	memberdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	paymentdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type memberRequest struct {
	Name             string `json:"name"`
	DNI              string `json:"dni"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	SocietaryQuoteID string `json:"societary_quote_id"`
}

func (s *Server) CreateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Create(c.Request.Context(), memberdomain.CreateMemberRequest{
		Name:             strings.TrimSpace(req.Name),
		DNI:              strings.TrimSpace(req.DNI),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		SocietaryQuoteID: strings.TrimSpace(req.SocietaryQuoteID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Update(c.Request.Context(), memberdomain.UpdateMemberRequest{
		ID:               strings.TrimSpace(c.Param("id")),
		Name:             strings.TrimSpace(req.Name),
		DNI:              strings.TrimSpace(req.DNI),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		SocietaryQuoteID: strings.TrimSpace(req.SocietaryQuoteID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMember(c *gin.Context) {
	err := s.memberSvc.Delete(c.Request.Context(), memberdomain.DeleteMemberRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetMemberByID(c *gin.Context) {
	resp, err := s.memberSvc.GetByID(c.Request.Context(), memberdomain.GetMemberRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMembers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name    string `form:"name"`
		DNI     string `form:"dni"`
		SportID string `form:"sport_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.List(c.Request.Context(), memberdomain.ListMemberRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Name:      strings.TrimSpace(query.Name),
		DNI:       strings.TrimSpace(query.DNI),
		SportID:   strings.TrimSpace(query.SportID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type enrollRequest struct {
	SportID   string `json:"sport_id"`
	QuoteID   string `json:"quote_id"`
	Principal bool   `json:"principal"`
}

func (s *Server) EnrollMember(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Enroll(c.Request.Context(), memberdomain.EnrollRequest{
		MemberID:  strings.TrimSpace(c.Param("id")),
		SportID:   strings.TrimSpace(req.SportID),
		QuoteID:   strings.TrimSpace(req.QuoteID),
		Principal: req.Principal,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UnenrollMember(c *gin.Context) {
	err := s.memberSvc.Unenroll(c.Request.Context(), memberdomain.UnenrollRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		SportID:  strings.TrimSpace(c.Param("sportId")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) SetPrincipalEnrollment(c *gin.Context) {
	resp, err := s.memberSvc.SetPrincipal(c.Request.Context(), memberdomain.SetPrincipalRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		SportID:  strings.TrimSpace(c.Param("sportId")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setEnrollmentQuoteRequest struct {
	QuoteID string `json:"quote_id"`
}

func (s *Server) SetEnrollmentQuote(c *gin.Context) {
	var req setEnrollmentQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.SetEnrollmentQuote(c.Request.Context(), memberdomain.SetEnrollmentQuoteRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		SportID:  strings.TrimSpace(c.Param("sportId")),
		QuoteID:  strings.TrimSpace(req.QuoteID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setSocietaryQuoteRequest struct {
	QuoteID string `json:"quote_id"`
}

func (s *Server) SetSocietaryQuote(c *gin.Context) {
	var req setSocietaryQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.SetSocietaryQuote(c.Request.Context(), memberdomain.SetSocietaryQuoteRequest{
		MemberID: strings.TrimSpace(c.Param("id")),
		QuoteID:  strings.TrimSpace(req.QuoteID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMemberDues(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.ListMemberDues(c.Request.Context(), paymentdomain.ListMemberDuesRequest{
		MemberID:  strings.TrimSpace(c.Param("id")),
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isMemberValidationError(err error) bool {
	switch err {
	case memberdomain.ErrInvalidName,
		memberdomain.ErrInvalidDNI,
		memberdomain.ErrInvalidID,
		memberdomain.ErrInvalidSportID,
		memberdomain.ErrInvalidQuoteID,
		memberdomain.ErrQuoteSportMismatch,
		memberdomain.ErrSocietaryQuoteShape:
		return true
	default:
		return false
	}
}
