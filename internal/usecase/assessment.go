package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/service"
)

// AssessmentUseCase maintains Form-12 rate assessments against water
// requests.
type AssessmentUseCase struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAssessmentUseCase creates a new AssessmentUseCase.
func NewAssessmentUseCase(db *gorm.DB) *AssessmentUseCase {
	return &AssessmentUseCase{db: db, now: time.Now}
}

// WithClock overrides the use case clock. Test hook.
func (uc *AssessmentUseCase) WithClock(now func() time.Time) *AssessmentUseCase {
	uc.now = now
	return uc
}

// Upsert creates or refreshes the single assessment for a water request.
// The requested area is re-derived from the water request's farm entries
// and the total is recomputed on every call; a repeated submission with a
// new rate overwrites the old one in place. Returns the assessment and
// whether it was newly created.
func (uc *AssessmentUseCase) Upsert(ctx context.Context, waterRequestID string, ratePerUnit float64) (*domain.RateAssessment, bool, error) {
	var request domain.Application
	err := uc.db.WithContext(ctx).
		Preload("Farms").
		Where("type = ?", domain.DocTypeWaterRequest).
		First(&request, "id = ? OR number = ?", waterRequestID, waterRequestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.NotFound(apperrors.CodeApplicationNotFound, "water request not found")
		}
		return nil, false, internalErr(err)
	}

	area := request.RequestedArea()

	var existing domain.RateAssessment
	err = uc.db.WithContext(ctx).First(&existing, "water_request_id = ?", request.ID).Error
	switch {
	case err == nil:
		existing.RatePerUnit = ratePerUnit
		existing.RequestedArea = area
		existing.ComputeTotalRate()
		if err := uc.db.WithContext(ctx).Model(&domain.RateAssessment{}).
			Where("id = ?", existing.ID).
			Select("rate_per_unit", "requested_area", "total_rate").
			Updates(&existing).Error; err != nil {
			return nil, false, internalErr(err)
		}
		return &existing, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Fall through to create.
	default:
		return nil, false, internalErr(err)
	}

	assessment := &domain.RateAssessment{
		ID:             uuid.NewString(),
		WaterRequestID: request.ID,
		ProfileID:      request.ProfileID,
		UserID:         request.UserID,
		RatePerUnit:    ratePerUnit,
		RequestedArea:  area,
		ReviewState:    domain.NewReviewState(),
	}
	assessment.ComputeTotalRate()

	txErr := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := service.NextSequenceNumber(tx, service.CounterForm12, service.PrefixForm12)
		if err != nil {
			return err
		}
		assessment.Number = number
		return tx.Create(assessment).Error
	})
	if txErr != nil {
		if isUniqueViolation(txErr) {
			// Lost a race against a concurrent create for the same request;
			// re-run as an update.
			return uc.Upsert(ctx, waterRequestID, ratePerUnit)
		}
		return nil, false, internalErr(txErr)
	}
	return assessment, true, nil
}

// Approve marks the assessment approved.
func (uc *AssessmentUseCase) Approve(ctx context.Context, id, reviewer string) (*domain.RateAssessment, error) {
	return uc.decide(ctx, id, reviewer, true)
}

// Deny marks the assessment denied.
func (uc *AssessmentUseCase) Deny(ctx context.Context, id, reviewer string) (*domain.RateAssessment, error) {
	return uc.decide(ctx, id, reviewer, false)
}

func (uc *AssessmentUseCase) decide(ctx context.Context, id, reviewer string, approve bool) (*domain.RateAssessment, error) {
	assessment, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if approve {
		assessment.ReviewState.Approve(now, reviewer)
	} else {
		assessment.ReviewState.Deny(now, reviewer)
	}

	if err := uc.db.WithContext(ctx).Model(&domain.RateAssessment{}).
		Where("id = ?", assessment.ID).
		Select("pending", "approved", "approved_at", "approved_by", "denied", "denied_at", "denied_by").
		Updates(assessment.ReviewState).Error; err != nil {
		return nil, internalErr(err)
	}
	return assessment, nil
}

// UpdateSupplyDate sets the scheduled water supply date.
func (uc *AssessmentUseCase) UpdateSupplyDate(ctx context.Context, id string, supplyDate time.Time) (*domain.RateAssessment, error) {
	assessment, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	assessment.SupplyDate = &supplyDate
	if err := uc.db.WithContext(ctx).Model(&domain.RateAssessment{}).
		Where("id = ?", assessment.ID).
		Update("supply_date", supplyDate).Error; err != nil {
		return nil, internalErr(err)
	}
	return assessment, nil
}

// Get loads one assessment by internal id or business number.
func (uc *AssessmentUseCase) Get(ctx context.Context, id string) (*domain.RateAssessment, error) {
	return uc.get(ctx, id)
}

// ListAll returns every assessment for reviewer listings, newest first.
func (uc *AssessmentUseCase) ListAll(ctx context.Context) ([]domain.RateAssessment, error) {
	var assessments []domain.RateAssessment
	if err := uc.db.WithContext(ctx).Order("created_at DESC").Find(&assessments).Error; err != nil {
		return nil, internalErr(err)
	}
	return assessments, nil
}

// ListByOwner returns the user's own assessments, newest first.
func (uc *AssessmentUseCase) ListByOwner(ctx context.Context, userID string) ([]domain.RateAssessment, error) {
	var assessments []domain.RateAssessment
	err := uc.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, internalErr(err)
	}
	return assessments, nil
}

func (uc *AssessmentUseCase) get(ctx context.Context, id string) (*domain.RateAssessment, error) {
	var assessment domain.RateAssessment
	err := uc.db.WithContext(ctx).First(&assessment, "id = ? OR number = ?", id, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeForm12NotFound, "rate assessment not found")
		}
		return nil, internalErr(err)
	}
	return &assessment, nil
}
