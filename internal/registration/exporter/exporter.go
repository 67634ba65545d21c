// Package exporter mails the full roster spreadsheet to the admin recipient.
// Jobs arrive on a channel so the admission flow can trigger an export
// without awaiting it; the worker has its own error boundary and its own
// store acquisition since a job outlives the request that enqueued it.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"registrar/internal/export"
	"registrar/internal/notify"
	"registrar/internal/platform/metrics"
	"registrar/internal/registration/store"
)

// Job reasons.
const (
	ReasonCapacityReached = "capacity_reached"
)

// Job asks the worker to build and mail one roster snapshot. The snapshot is
// read by the worker, not carried in the job: records are immutable and
// append-only, so the roster read moments after the trigger matches the
// roster at the trigger.
type Job struct {
	Reason      string
	RequestedAt time.Time
}

// Worker consumes export jobs from a channel. Every failure inside a job is
// logged and swallowed; nothing here may crash or delay the admission path.
type Worker struct {
	store   store.ParticipantStore
	sender  notify.Sender
	admin   notify.Recipient
	inbox   <-chan Job
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewWorker(
	participants store.ParticipantStore,
	sender notify.Sender,
	admin notify.Recipient,
	inbox <-chan Job,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Worker {
	return &Worker{
		store:   participants,
		sender:  sender,
		admin:   admin,
		inbox:   inbox,
		logger:  logger,
		metrics: m,
	}
}

// Run processes jobs until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-w.inbox:
			w.process(ctx, job)
		}
	}
}

func (w *Worker) process(ctx context.Context, job Job) {
	participants, err := w.store.ListAll(ctx)
	if err != nil {
		w.logger.Error("roster export failed to read participants",
			"reason", job.Reason, "error", err)
		return
	}

	data, err := export.Build(participants)
	if err != nil {
		w.logger.Error("roster export failed to build workbook",
			"reason", job.Reason, "error", err)
		return
	}

	msg := notify.Message{
		To:      w.admin,
		Subject: fmt.Sprintf("Workshop roster export - %d participants", len(participants)),
		HTMLBody: fmt.Sprintf(
			"<p>The workshop roster is attached (%d participants, trigger: %s).</p>",
			len(participants), job.Reason),
		Attachment: &notify.Attachment{
			Filename: export.Filename,
			Content:  data,
		},
	}
	if err := w.sender.Send(ctx, msg); err != nil {
		w.logger.Error("roster export failed to send",
			"reason", job.Reason, "to", w.admin.Email, "error", err)
		return
	}

	w.metrics.IncRosterExports()
	w.logger.Info("roster export sent",
		"reason", job.Reason, "participants", len(participants), "to", w.admin.Email)
}
