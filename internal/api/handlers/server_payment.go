package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/usecase"
)

type verifyPaymentRequest struct {
	OrderRef   string `json:"orderRef" binding:"required"`
	PaymentRef string `json:"paymentRef" binding:"required"`
	Signature  string `json:"signature" binding:"required"`
}

// RecordPayment handles POST /payments. A provider signature, when
// present, is verified before the attempt is recorded.
func (s *Server) RecordPayment(c *gin.Context) {
	var in usecase.RecordPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		failBinding(c, err)
		return
	}
	in.UserID = currentUserID(c)

	if in.Signature != "" && !s.payments.VerifySignature(in.OrderRef, in.PaymentRef, in.Signature) {
		fail(c, apperrors.BadRequest(apperrors.CodeValidationFailed, "payment signature verification failed"))
		return
	}

	payment, err := s.payments.Record(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// VerifyPayment handles POST /payments/verify. Stateless signature check;
// nothing is written.
func (s *Server) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": s.payments.VerifySignature(req.OrderRef, req.PaymentRef, req.Signature),
	})
}

// ListMyPayments handles GET /payments/mine.
func (s *Server) ListMyPayments(c *gin.Context) {
	payments, err := s.payments.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListPaymentsByAssessment handles GET /payments/assessment/:number for
// officials.
func (s *Server) ListPaymentsByAssessment(c *gin.Context) {
	payments, err := s.payments.ListByAssessment(c.Request.Context(), c.Param("number"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
