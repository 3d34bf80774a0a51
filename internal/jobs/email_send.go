// Package jobs defines River Queue job arguments and workers. The queue
// carries outbound mail only; everything else in the request path is either
// synchronous or a detached worker-pool task.
package jobs

import (
	"context"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"jalsetu.io/jalsetu/internal/pkg/logger"
)

// MailSender delivers one rendered email. Satisfied by the notification
// package's senders; declared locally to keep this package queue-only.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailSendArgs carries one fully rendered message. Rendering happens at
// enqueue time so a retry never re-reads workflow state that may have
// moved on since the triggering event.
type EmailSendArgs struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// Kind returns the job kind identifier for mail delivery.
func (EmailSendArgs) Kind() string { return "email_send" }

// InsertOpts returns default insert options for mail jobs. After the
// attempts are exhausted River discards the job; a dropped notification is
// acceptable, a blocked queue is not.
func (EmailSendArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       "mail",
		MaxAttempts: 5,
	}
}

// EmailSendWorker delivers queued mail through the configured sender.
type EmailSendWorker struct {
	river.WorkerDefaults[EmailSendArgs]
	sender MailSender
}

// NewEmailSendWorker creates a new EmailSendWorker.
func NewEmailSendWorker(sender MailSender) *EmailSendWorker {
	return &EmailSendWorker{sender: sender}
}

// Work delivers the message. A returned error schedules a retry with
// backoff; success on any attempt completes the job.
func (w *EmailSendWorker) Work(ctx context.Context, job *river.Job[EmailSendArgs]) error {
	if err := w.sender.Send(ctx, job.Args.To, job.Args.Subject, job.Args.HTMLBody); err != nil {
		logger.L().Warn("mail delivery attempt failed",
			zap.String("to", job.Args.To),
			zap.String("subject", job.Args.Subject),
			zap.Int("attempt", job.Attempt),
			zap.Error(err),
		)
		return err
	}
	return nil
}
