package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jalsetu.io/jalsetu/internal/api/middleware"
	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

type upsertAssessmentRequest struct {
	RatePerUnit float64 `json:"ratePerUnit" binding:"required,gt=0"`
}

type supplyDateRequest struct {
	SupplyDate time.Time `json:"supplyDate" binding:"required"`
}

// UpsertAssessment handles PUT /assessments/water-request/:waterRequestID.
// Creates the Form-12 for the water request, or recomputes it in place.
func (s *Server) UpsertAssessment(c *gin.Context) {
	var req upsertAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	assessment, created, err := s.assessments.Upsert(
		c.Request.Context(), c.Param("waterRequestID"), req.RatePerUnit)
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, assessment)
}

// ListAssessments handles GET /assessments for reviewers.
func (s *Server) ListAssessments(c *gin.Context) {
	assessments, err := s.assessments.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assessments)
}

// ListMyAssessments handles GET /assessments/mine.
func (s *Server) ListMyAssessments(c *gin.Context) {
	assessments, err := s.assessments.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assessments)
}

// ApproveAssessment handles POST /assessments/:id/approve.
func (s *Server) ApproveAssessment(c *gin.Context) {
	s.decideAssessment(c, true)
}

// DenyAssessment handles POST /assessments/:id/deny.
func (s *Server) DenyAssessment(c *gin.Context) {
	s.decideAssessment(c, false)
}

func (s *Server) decideAssessment(c *gin.Context, approve bool) {
	reviewer := middleware.GetUserName(c.Request.Context())
	if reviewer == "" {
		reviewer = currentUserID(c)
	}

	var (
		assessment *domain.RateAssessment
		err        error
	)
	if approve {
		assessment, err = s.assessments.Approve(c.Request.Context(), c.Param("id"), reviewer)
	} else {
		assessment, err = s.assessments.Deny(c.Request.Context(), c.Param("id"), reviewer)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// UpdateSupplyDate handles PUT /assessments/:id/supply-date.
func (s *Server) UpdateSupplyDate(c *gin.Context) {
	var req supplyDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	assessment, err := s.assessments.UpdateSupplyDate(c.Request.Context(), c.Param("id"), req.SupplyDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// GetMyRateSummary handles GET /assessments/summary.
func (s *Server) GetMyRateSummary(c *gin.Context) {
	s.renderRateSummary(c, currentUserID(c))
}

// GetRateSummaryByUser handles GET /assessments/summary/:userID for
// officials.
func (s *Server) GetRateSummaryByUser(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		fail(c, apperrors.ErrMissingFields("userID"))
		return
	}
	s.renderRateSummary(c, userID)
}

func (s *Server) renderRateSummary(c *gin.Context, userID string) {
	summary, err := s.summaries.UserRateSummary(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
