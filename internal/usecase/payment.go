package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
	"jalsetu.io/jalsetu/internal/pkg/logger"
	"jalsetu.io/jalsetu/internal/service"
)

// RecordPaymentInput carries the fields of a payment attempt reported by
// the payment provider callback.
type RecordPaymentInput struct {
	UserID       string         `json:"-"`
	AssessmentNo string         `json:"assessmentNo" binding:"required"`
	OrderRef     string         `json:"orderRef"`
	PaymentRef   string         `json:"paymentRef"`
	Signature    string         `json:"signature"`
	Amount       float64        `json:"amount"`
	Status       string         `json:"status" binding:"required"`
	ProviderData map[string]any `json:"providerData"`
}

// PaymentUseCase records payment attempts against rate assessments. The
// payment ledger is append-only and authoritative; the status snapshot on
// the assessment is a best-effort cache.
type PaymentUseCase struct {
	db             *gorm.DB
	notifier       Notifier
	providerSecret string
	now            func() time.Time
}

// NewPaymentUseCase creates a new PaymentUseCase. notifier may be nil.
func NewPaymentUseCase(db *gorm.DB, notifier Notifier, providerSecret string) *PaymentUseCase {
	return &PaymentUseCase{db: db, notifier: notifier, providerSecret: providerSecret, now: time.Now}
}

// WithClock overrides the use case clock. Test hook.
func (uc *PaymentUseCase) WithClock(now func() time.Time) *PaymentUseCase {
	uc.now = now
	return uc
}

// Record appends a payment attempt to the ledger. On success the
// assessment snapshot is refreshed; a snapshot failure is logged and
// swallowed so it never fails the recording itself.
func (uc *PaymentUseCase) Record(ctx context.Context, in RecordPaymentInput) (*domain.Payment, error) {
	if err := validatePayment(in); err != nil {
		return nil, err
	}

	var assessment domain.RateAssessment
	err := uc.db.WithContext(ctx).First(&assessment, "number = ?", in.AssessmentNo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeForm12NotFound, "rate assessment not found")
		}
		return nil, internalErr(err)
	}

	payment := &domain.Payment{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		AssessmentNo: assessment.Number,
		OrderRef:     in.OrderRef,
		PaymentRef:   in.PaymentRef,
		Signature:    in.Signature,
		Amount:       in.Amount,
		Status:       in.Status,
		CreatedAt:    uc.now(),
	}
	if len(in.ProviderData) > 0 {
		if raw, err := json.Marshal(in.ProviderData); err == nil {
			payment.ProviderData = datatypes.JSON(raw)
		}
	}

	if err := uc.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, internalErr(err)
	}

	if payment.Status == domain.PaymentSuccess {
		uc.refreshSnapshot(ctx, &assessment, payment)
		if uc.notifier != nil {
			uc.notifier.OnPaymentRecorded(ctx, payment, &assessment)
		}
	}

	return payment, nil
}

// VerifySignature checks the provider's HMAC over the order and payment
// references. Used by handlers when a signature is present on the callback.
func (uc *PaymentUseCase) VerifySignature(orderRef, paymentRef, signature string) bool {
	return service.VerifyPaymentSignature(orderRef, paymentRef, signature, uc.providerSecret)
}

// ListByAssessment returns every attempt against an assessment, newest
// first.
func (uc *PaymentUseCase) ListByAssessment(ctx context.Context, assessmentNo string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := uc.db.WithContext(ctx).
		Where("assessment_no = ?", assessmentNo).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, internalErr(err)
	}
	return payments, nil
}

// ListByUser returns the user's payment history, newest first.
func (uc *PaymentUseCase) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := uc.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, internalErr(err)
	}
	return payments, nil
}

func (uc *PaymentUseCase) refreshSnapshot(ctx context.Context, assessment *domain.RateAssessment, payment *domain.Payment) {
	err := uc.db.WithContext(ctx).Model(&domain.RateAssessment{}).
		Where("id = ?", assessment.ID).
		Updates(map[string]any{
			"payment_status": payment.Status,
			"paid_amount":    payment.Amount,
		}).Error
	if err != nil {
		logger.L().Warn("payment snapshot refresh failed; ledger remains authoritative",
			zap.String("assessment_no", assessment.Number),
			zap.String("payment_id", payment.ID),
			zap.Error(err))
		return
	}
	assessment.PaymentStatus = payment.Status
	assessment.PaidAmount = payment.Amount
}

func validatePayment(in RecordPaymentInput) error {
	var missing []string
	if in.AssessmentNo == "" {
		missing = append(missing, "assessmentNo")
	}
	if in.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return apperrors.ErrMissingFields(missing...)
	}

	switch in.Status {
	case domain.PaymentPending, domain.PaymentSuccess, domain.PaymentFailed:
		return nil
	default:
		return apperrors.BadRequest(apperrors.CodeValidationFailed, "unknown payment status")
	}
}
