// Package service implements the registration admission flow: the gate
// sequence that decides whether a signup is accepted, persists it, and fires
// the notification side effects.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"registrar/internal/department"
	"registrar/internal/export"
	"registrar/internal/notify"
	"registrar/internal/platform/metrics"
	"registrar/internal/registration/exporter"
	"registrar/internal/registration/models"
	"registrar/internal/registration/store"
	dErrors "registrar/pkg/domainerrors"
	"registrar/pkg/sentinel"
)

// Service orchestrates the admission gates against the participant store and
// the notification gateway.
type Service struct {
	store    store.ParticipantStore
	sender   notify.Sender
	exports  chan<- exporter.Job
	capacity int
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// thresholdFired makes the capacity trigger one-shot within this
	// process: a race around the exact count cannot mail the roster twice.
	thresholdFired atomic.Bool
}

func New(
	participants store.ParticipantStore,
	sender notify.Sender,
	exports chan<- exporter.Job,
	capacity int,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	if participants == nil {
		return nil, fmt.Errorf("participant store is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("notification sender is required")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	return &Service{
		store:    participants,
		sender:   sender,
		exports:  exports,
		capacity: capacity,
		logger:   logger,
		metrics:  m,
	}, nil
}

// Register runs the admission gates in strict order. Only the insert can turn
// the operation into a hard failure; notification failures are logged and
// swallowed because the registration has already persisted.
//
// The gates are not transactional: two requests racing between the count and
// the insert can both pass, so slight overbooking or a duplicate slipping
// through under contention is accepted rather than serialized away.
func (s *Service) Register(ctx context.Context, req *models.RegistrationRequest) (models.Participant, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.IncRejected(metrics.ReasonInvalid)
		return models.Participant{}, err
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		return models.Participant{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check availability")
	}
	if count >= int64(s.capacity) {
		s.metrics.IncRejected(metrics.ReasonFull)
		s.logger.Info("registration rejected, workshop full", "usn", req.USN)
		return models.Participant{}, dErrors.New(dErrors.CodeCapacityExceeded, "workshop is full")
	}

	_, err = s.store.FindByEmailOrUSN(ctx, req.Email, req.USN)
	switch {
	case err == nil:
		s.metrics.IncRejected(metrics.ReasonDuplicate)
		s.logger.Info("registration rejected, already registered", "usn", req.USN)
		return models.Participant{}, dErrors.New(dErrors.CodeDuplicateRegistrant,
			"you are already registered, check your email for details")
	case !errors.Is(err, sentinel.ErrNotFound):
		return models.Participant{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registrations")
	}

	created, err := s.store.Insert(ctx, req.Participant())
	if err != nil {
		// A unique-index conflict means a concurrent duplicate beat us to
		// the insert; report it as the duplicate it is.
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncRejected(metrics.ReasonDuplicate)
			return models.Participant{}, dErrors.New(dErrors.CodeDuplicateRegistrant,
				"you are already registered, check your email for details")
		}
		return models.Participant{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration")
	}

	s.metrics.IncAccepted()
	s.logger.Info("registration accepted", "id", created.ID, "usn", created.USN)

	if count+1 == int64(s.capacity) {
		s.triggerRosterExport()
	}

	if err := s.sender.Send(ctx, notify.WelcomeMessage(created.Name, created.USN, created.Email)); err != nil {
		// Soft failure: the seat is taken either way.
		s.logger.Error("welcome email failed", "email", created.Email, "error", err)
	}

	return created, nil
}

// triggerRosterExport enqueues the one-time capacity-reached export. The
// enqueue never blocks: if the worker queue is full the trigger is lost and
// logged, the same soft-failure contract as every other notification.
func (s *Service) triggerRosterExport() {
	if !s.thresholdFired.CompareAndSwap(false, true) {
		return
	}
	if s.exports == nil {
		s.logger.Warn("capacity reached but no export worker is configured")
		return
	}

	job := exporter.Job{Reason: exporter.ReasonCapacityReached, RequestedAt: time.Now()}
	select {
	case s.exports <- job:
		s.logger.Info("capacity reached, roster export enqueued", "capacity", s.capacity)
	default:
		s.logger.Error("capacity reached but export queue is full, dropping trigger")
	}
}

// RemainingSeats reports how many registrations the ceiling still allows.
// Never negative, even if the store holds more records than the configured
// capacity.
func (s *Service) RemainingSeats(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count registrations")
	}
	remaining := s.capacity - int(count)
	if remaining < 0 {
		remaining = 0
	}
	s.metrics.SetRemainingSeats(remaining)
	return remaining, nil
}

// Roster returns every participant with their derived department, for the
// admin listing.
func (s *Service) Roster(ctx context.Context) ([]models.RosterEntry, error) {
	participants, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	entries := make([]models.RosterEntry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, models.RosterEntry{
			Participant: p,
			Department:  string(department.Classify(p.USN)),
		})
	}
	return entries, nil
}

// Export serializes the current roster to a spreadsheet for the admin
// download endpoint.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	participants, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list participants")
	}
	data, err := export.Build(participants)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build export")
	}
	return data, nil
}
