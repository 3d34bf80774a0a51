package usecase

import (
	"context"

	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

// RateSummaryRow is one approved assessment joined with its effective
// payment outcome.
type RateSummaryRow struct {
	Assessment    domain.RateAssessment `json:"assessment"`
	PaymentStatus string                `json:"paymentStatus"`
	PaidAmount    float64               `json:"paidAmount"`
}

// RateSummary is the farmer-facing dues view: every approved assessment
// with payment state, plus the grand total owed.
type RateSummary struct {
	Rows        []RateSummaryRow `json:"rows"`
	TotalAmount float64          `json:"totalAmount"`
}

// SummaryUseCase builds the per-user rate summary.
type SummaryUseCase struct {
	db *gorm.DB
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(db *gorm.DB) *SummaryUseCase {
	return &SummaryUseCase{db: db}
}

// UserRateSummary returns the user's approved assessments with payment
// state resolved from the ledger. An assessment with a success row in the
// ledger reports that row's status and amount; one with no successful
// attempt, including one with no attempts at all, reports "failed". If the
// user has no approved assessments the result is a not-found error, not an
// empty list.
func (uc *SummaryUseCase) UserRateSummary(ctx context.Context, userID string) (*RateSummary, error) {
	var assessments []domain.RateAssessment
	err := uc.db.WithContext(ctx).
		Where("user_id = ? AND approved = ?", userID, true).
		Order("created_at ASC").
		Find(&assessments).Error
	if err != nil {
		return nil, internalErr(err)
	}
	if len(assessments) == 0 {
		return nil, apperrors.NotFound(apperrors.CodeForm12NoneApproved, "no approved rate assessments yet")
	}

	numbers := make([]string, 0, len(assessments))
	for _, a := range assessments {
		numbers = append(numbers, a.Number)
	}

	// One batch fetch for all ledgers, grouped in memory.
	var payments []domain.Payment
	err = uc.db.WithContext(ctx).
		Where("assessment_no IN ?", numbers).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, internalErr(err)
	}

	latestSuccess := make(map[string]domain.Payment, len(assessments))
	for _, p := range payments {
		if p.Status != domain.PaymentSuccess {
			continue
		}
		// Ascending order means the last write wins, i.e. the most recent
		// success row.
		latestSuccess[p.AssessmentNo] = p
	}

	summary := &RateSummary{Rows: make([]RateSummaryRow, 0, len(assessments))}
	for _, a := range assessments {
		row := RateSummaryRow{Assessment: a, PaymentStatus: domain.PaymentFailed}
		if p, ok := latestSuccess[a.Number]; ok {
			row.PaymentStatus = p.Status
			row.PaidAmount = p.Amount
		}
		summary.TotalAmount += a.TotalRate
		summary.Rows = append(summary.Rows, row)
	}
	return summary, nil
}
