package notification

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/domain"
	"jalsetu.io/jalsetu/internal/jobs"
	"jalsetu.io/jalsetu/internal/pkg/logger"
	"jalsetu.io/jalsetu/internal/pkg/worker"
)

// Triggers fires workflow notifications. Two trigger points:
//  1. application decided — the owner learns the outcome
//  2. payment recorded — the owner gets a receipt
//
// Messages are rendered at trigger time and handed to the River queue for
// retried delivery. Without a queue (river disabled, tests) the send runs
// on the detached mail pool instead — one attempt, logged on failure.
type Triggers struct {
	db          *gorm.DB
	sender      Sender
	pools       *worker.Pools
	riverClient *river.Client[pgx.Tx]
}

// NewTriggers creates the notification trigger service. riverClient may be
// nil; delivery then skips the queue.
func NewTriggers(db *gorm.DB, sender Sender, pools *worker.Pools, riverClient *river.Client[pgx.Tx]) *Triggers {
	return &Triggers{db: db, sender: sender, pools: pools, riverClient: riverClient}
}

// OnApplicationDecided notifies the document owner of an approval or
// denial.
func (t *Triggers) OnApplicationDecided(ctx context.Context, app *domain.Application) {
	owner, ok := t.lookupOwner(ctx, app.UserID, "application", app.Number)
	if !ok {
		return
	}

	subject, body, err := RenderDecision(owner.Name, app)
	if err != nil {
		logger.Error("decision notification render failed",
			zap.String("number", app.Number),
			zap.Error(err),
		)
		return
	}
	t.dispatch(ctx, owner.Email, subject, body)
}

// OnPaymentRecorded sends the payment receipt.
func (t *Triggers) OnPaymentRecorded(ctx context.Context, payment *domain.Payment, _ *domain.RateAssessment) {
	owner, ok := t.lookupOwner(ctx, payment.UserID, "payment", payment.ID)
	if !ok {
		return
	}

	subject, body, err := RenderReceipt(owner.Name, payment)
	if err != nil {
		logger.Error("receipt notification render failed",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		return
	}
	t.dispatch(ctx, owner.Email, subject, body)
}

func (t *Triggers) lookupOwner(ctx context.Context, userID, resourceType, resourceID string) (domain.User, bool) {
	var owner domain.User
	if err := t.db.WithContext(ctx).First(&owner, "id = ?", userID).Error; err != nil {
		logger.Error("notification recipient lookup failed",
			zap.String("user_id", userID),
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		return domain.User{}, false
	}
	return owner, true
}

// dispatch hands the rendered message off without blocking the request.
// The queue insert itself runs on the general pool so a slow database
// never stalls the caller.
func (t *Triggers) dispatch(_ context.Context, to, subject, body string) {
	if t.riverClient != nil {
		err := t.pools.SubmitDetached("general", func(ctx context.Context) {
			_, err := t.riverClient.Insert(ctx, jobs.EmailSendArgs{
				To:       to,
				Subject:  subject,
				HTMLBody: body,
			}, nil)
			if err != nil {
				logger.Error("mail job enqueue failed",
					zap.String("to", to),
					zap.String("subject", subject),
					zap.Error(err),
				)
			}
		})
		if err != nil {
			logger.Error("mail enqueue task rejected", zap.Error(err))
		}
		return
	}

	err := t.pools.SubmitDetached("mail", func(ctx context.Context) {
		if err := t.sender.Send(ctx, to, subject, body); err != nil {
			logger.Error("direct mail send failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		logger.Error("mail send task rejected", zap.Error(err))
	}
}
