// Package usecase implements the workflow operations of the platform:
// application document lifecycle, Form-12 rate assessment, payment
// recording and the read-side aggregations.
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/service"
)

// Notifier receives workflow events for best-effort delivery. Failures
// inside the notifier must never surface into the workflow operation.
type Notifier interface {
	OnApplicationDecided(ctx context.Context, app *domain.Application)
	OnPaymentRecorded(ctx context.Context, payment *domain.Payment, assessment *domain.RateAssessment)
}

// FarmEntryInput is one farm line on a submission.
type FarmEntryInput struct {
	FarmID        string  `json:"farmId" binding:"required"`
	RequestedArea float64 `json:"requestedArea"`
	Crop          string  `json:"crop"`
	Year          int     `json:"year"`
}

// SubmitApplicationInput carries the fields of a new application document.
type SubmitApplicationInput struct {
	Type        string           `json:"-"`
	ProfileID   string           `json:"profileId" binding:"required"`
	Purpose     string           `json:"purpose"`
	WaterSource string           `json:"waterSource"`
	Farms       []FarmEntryInput `json:"farms"`
}

// ApplicationUseCase implements the shared lifecycle of NOC, WaterRequest
// and Exemption documents.
type ApplicationUseCase struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

// NewApplicationUseCase creates a new ApplicationUseCase. notifier may be
// nil (e.g. in tests); decisions are then silent.
func NewApplicationUseCase(db *gorm.DB, notifier Notifier) *ApplicationUseCase {
	return &ApplicationUseCase{db: db, notifier: notifier, now: time.Now}
}

// WithClock overrides the use case clock. Test hook.
func (uc *ApplicationUseCase) WithClock(now func() time.Time) *ApplicationUseCase {
	uc.now = now
	return uc
}

// Submit validates and creates a new application document in pending state.
// The resubmission cooldown is evaluated against the same profile's most
// recent prior submission of the same type, regardless of its outcome.
func (uc *ApplicationUseCase) Submit(ctx context.Context, in SubmitApplicationInput) (*domain.Application, error) {
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	var profile domain.Profile
	if err := uc.db.WithContext(ctx).First(&profile, "id = ?", in.ProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeProfileNotFound, "profile not found")
		}
		return nil, internalErr(err)
	}

	farmIDs := make([]string, 0, len(in.Farms))
	for _, f := range in.Farms {
		farmIDs = append(farmIDs, f.FarmID)
	}
	var farmCount int64
	if err := uc.db.WithContext(ctx).Model(&domain.Farm{}).Where("id IN ?", farmIDs).Count(&farmCount).Error; err != nil {
		return nil, internalErr(err)
	}
	if int(farmCount) != len(farmIDs) {
		return nil, apperrors.NotFound(apperrors.CodeFarmNotFound, "one or more referenced farms do not exist")
	}

	now := uc.now()

	// Read-then-write: the cooldown check and the insert are not atomic.
	// Concurrent submissions can both pass the check; observable behaviour
	// is last-write-wins, matching the rest of the pipeline.
	var last domain.Application
	err := uc.db.WithContext(ctx).
		Where("type = ? AND profile_id = ?", in.Type, in.ProfileID).
		Order("submitted_at DESC").
		First(&last).Error
	switch {
	case err == nil:
		if remaining, blocked := service.CooldownRemaining(in.Type, last.SubmittedAt, now); blocked {
			return nil, apperrors.ErrSubmissionCooldown(in.Type, remaining)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First submission for this profile and type.
	default:
		return nil, internalErr(err)
	}

	app := &domain.Application{
		ID:          uuid.NewString(),
		Type:        in.Type,
		ProfileID:   profile.ID,
		UserID:      profile.UserID,
		Purpose:     strings.TrimSpace(in.Purpose),
		WaterSource: strings.TrimSpace(in.WaterSource),
		SubmittedAt: now,
		ReviewState: domain.NewReviewState(),
	}
	for _, f := range in.Farms {
		app.Farms = append(app.Farms, domain.ApplicationFarm{
			ID:            uuid.NewString(),
			ApplicationID: app.ID,
			FarmID:        f.FarmID,
			RequestedArea: f.RequestedArea,
			Crop:          strings.TrimSpace(f.Crop),
			Year:          f.Year,
		})
	}

	txErr := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := documentNumber(tx, in.Type, now)
		if err != nil {
			return err
		}
		app.Number = number
		return tx.Create(app).Error
	})
	if txErr != nil {
		if isUniqueViolation(txErr) {
			return nil, apperrors.Conflict(apperrors.CodeDuplicateNumber, "document number collision, please retry")
		}
		return nil, internalErr(txErr)
	}

	return app, nil
}

// Approve marks the document approved. Re-approving refreshes the
// timestamp; approving a denied document clears the denial. The owner is
// notified best-effort after the write commits.
func (uc *ApplicationUseCase) Approve(ctx context.Context, docType, id, reviewer string) (*domain.Application, error) {
	return uc.decide(ctx, docType, id, reviewer, true)
}

// Deny marks the document denied, clearing any prior approval.
func (uc *ApplicationUseCase) Deny(ctx context.Context, docType, id, reviewer string) (*domain.Application, error) {
	return uc.decide(ctx, docType, id, reviewer, false)
}

func (uc *ApplicationUseCase) decide(ctx context.Context, docType, id, reviewer string, approve bool) (*domain.Application, error) {
	var app domain.Application
	err := uc.db.WithContext(ctx).
		Preload("Farms").
		Where("type = ?", docType).
		First(&app, "id = ? OR number = ?", id, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeApplicationNotFound, "application not found")
		}
		return nil, internalErr(err)
	}

	now := uc.now()
	if approve {
		app.ReviewState.Approve(now, reviewer)
	} else {
		app.ReviewState.Deny(now, reviewer)
	}

	if err := uc.db.WithContext(ctx).Model(&domain.Application{}).
		Where("id = ?", app.ID).
		Select("pending", "approved", "approved_at", "approved_by", "denied", "denied_at", "denied_by").
		Updates(app.ReviewState).Error; err != nil {
		return nil, internalErr(err)
	}

	// The transition has committed; notification failure must not undo it.
	if uc.notifier != nil {
		uc.notifier.OnApplicationDecided(ctx, &app)
	}
	return &app, nil
}

// ListByOwner returns the user's own documents of the given type, newest
// first.
func (uc *ApplicationUseCase) ListByOwner(ctx context.Context, docType, userID string) ([]domain.Application, error) {
	var apps []domain.Application
	err := uc.db.WithContext(ctx).
		Preload("Farms").
		Where("type = ? AND user_id = ?", docType, userID).
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, internalErr(err)
	}
	return apps, nil
}

// ListAll returns every document of the given type for reviewer listings,
// with the nested profile/user/farm details display needs.
func (uc *ApplicationUseCase) ListAll(ctx context.Context, docType string) ([]domain.Application, error) {
	var apps []domain.Application
	err := uc.db.WithContext(ctx).
		Preload("Farms.Farm").
		Preload("Profile.User").
		Where("type = ?", docType).
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, internalErr(err)
	}
	return apps, nil
}

// GetByNumber looks a document up by its business identifier.
func (uc *ApplicationUseCase) GetByNumber(ctx context.Context, docType, number string) (*domain.Application, error) {
	var app domain.Application
	err := uc.db.WithContext(ctx).
		Preload("Farms.Farm").
		Preload("Profile.User").
		Where("type = ? AND number = ?", docType, number).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeApplicationNotFound, "application not found")
		}
		return nil, internalErr(err)
	}
	return &app, nil
}

func validateSubmission(in SubmitApplicationInput) error {
	var missing []string

	if in.ProfileID == "" {
		missing = append(missing, "profileId")
	}
	if len(in.Farms) == 0 {
		missing = append(missing, "farms")
	}

	switch in.Type {
	case domain.DocTypeNOC:
		if strings.TrimSpace(in.Purpose) == "" {
			missing = append(missing, "purpose")
		}
	case domain.DocTypeExemption:
		if strings.TrimSpace(in.WaterSource) == "" {
			missing = append(missing, "waterSource")
		}
	case domain.DocTypeWaterRequest:
		for _, f := range in.Farms {
			if strings.TrimSpace(f.Crop) == "" {
				missing = append(missing, "farms.crop")
				break
			}
		}
		for _, f := range in.Farms {
			if f.Year == 0 {
				missing = append(missing, "farms.year")
				break
			}
		}
	default:
		return apperrors.BadRequest(apperrors.CodeValidationFailed, "unknown application type")
	}

	if len(missing) > 0 {
		return apperrors.ErrMissingFields(missing...)
	}
	return nil
}

func documentNumber(tx *gorm.DB, docType string, now time.Time) (string, error) {
	switch docType {
	case domain.DocTypeWaterRequest:
		return service.NextSequenceNumber(tx, service.CounterWaterRequest, service.PrefixWaterRequest)
	case domain.DocTypeExemption:
		return service.TimeBasedNumber(service.PrefixExemption, now), nil
	default:
		return service.TimeBasedNumber(service.PrefixNOC, now), nil
	}
}
