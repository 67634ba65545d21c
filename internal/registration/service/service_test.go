package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"registrar/internal/notify"
	"registrar/internal/registration/exporter"
	"registrar/internal/registration/models"
	"registrar/internal/registration/store"
	dErrors "registrar/pkg/domainerrors"
	"registrar/pkg/sentinel"
)

// recordingSender captures every message so tests can assert on welcome
// emails. Setting err makes sends fail.
type recordingSender struct {
	sent []notify.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// failingStore wraps the in-memory store and fails selected operations.
type failingStore struct {
	*store.InMemory
	insertErr error
	countErr  error
}

func (f *failingStore) Insert(ctx context.Context, p models.Participant) (models.Participant, error) {
	if f.insertErr != nil {
		return models.Participant{}, f.insertErr
	}
	return f.InMemory.Insert(ctx, p)
}

func (f *failingStore) Count(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.InMemory.Count(ctx)
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemory
	sender  *recordingSender
	exports chan exporter.Job
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.sender = &recordingSender{}
	s.exports = make(chan exporter.Job, 4)
	s.service = s.newService(s.store, 70)
}

func (s *ServiceSuite) newService(st store.ParticipantStore, capacity int) *Service {
	svc, err := New(st, s.sender, s.exports,
		capacity, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) request(usn, email string) *models.RegistrationRequest {
	return &models.RegistrationRequest{
		Name:  "Asha Rao",
		USN:   usn,
		Email: email,
		Year:  "3",
		Phone: "9876543210",
	}
}

func (s *ServiceSuite) count() int64 {
	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	return count
}

func (s *ServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, s.sender, s.exports, 70, slog.Default(), nil)
		s.Error(err)
	})

	s.Run("nil sender returns error", func() {
		_, err := New(s.store, nil, s.exports, 70, slog.Default(), nil)
		s.Error(err)
	})

	s.Run("non-positive capacity returns error", func() {
		_, err := New(s.store, s.sender, s.exports, 0, slog.Default(), nil)
		s.Error(err)
	})
}

func (s *ServiceSuite) TestRegisterAccepts() {
	created, err := s.service.Register(s.ctx, s.request("4MW21AD043", "asha@sode-edu.in"))
	s.Require().NoError(err)

	s.NotEmpty(created.ID)
	s.EqualValues(1, s.count())

	s.Require().Len(s.sender.sent, 1)
	msg := s.sender.sent[0]
	s.Equal("asha@sode-edu.in", msg.To.Email)
	s.Equal(notify.WelcomeSubject, msg.Subject)
	s.Contains(msg.HTMLBody, "4MW21AD043")
	s.Nil(msg.Attachment)
}

func (s *ServiceSuite) TestRegisterNormalizesKeys() {
	req := s.request("4mw21ad043", "Asha@Sode-Edu.in")
	created, err := s.service.Register(s.ctx, req)
	s.Require().NoError(err)

	s.Equal("4MW21AD043", created.USN)
	s.Equal("asha@sode-edu.in", created.Email)

	// The lowercase resubmission now collides with what was stored.
	_, err = s.service.Register(s.ctx, s.request("4mw21ad043", "other@sode-edu.in"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRegistrant))
}

func (s *ServiceSuite) TestRegisterRejectsInvalidInput() {
	req := s.request("not-a-usn", "asha@sode-edu.in")
	_, err := s.service.Register(s.ctx, req)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.EqualValues(0, s.count())
	s.Empty(s.sender.sent)
}

func (s *ServiceSuite) TestRegisterRejectsWhenFull() {
	svc := s.newService(s.store, 1)

	_, err := svc.Register(s.ctx, s.request("4MW21AD001", "a@sode-edu.in"))
	s.Require().NoError(err)

	_, err = svc.Register(s.ctx, s.request("4MW21AD002", "b@sode-edu.in"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))
	s.EqualValues(1, s.count())
}

func (s *ServiceSuite) TestRegisterRejectsDuplicates() {
	_, err := s.service.Register(s.ctx, s.request("4MW21AD043", "asha@sode-edu.in"))
	s.Require().NoError(err)
	s.sender.sent = nil

	s.Run("same usn, different email", func() {
		_, err := s.service.Register(s.ctx, s.request("4MW21AD043", "other@sode-edu.in"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRegistrant))
	})

	s.Run("same email, different usn", func() {
		_, err := s.service.Register(s.ctx, s.request("4MW21CS099", "asha@sode-edu.in"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRegistrant))
	})

	s.EqualValues(1, s.count(), "rejections must not insert")
	s.Empty(s.sender.sent, "rejections must not email")
}

func (s *ServiceSuite) TestRegisterInsertFailure() {
	fs := &failingStore{InMemory: s.store, insertErr: errors.New("connection reset")}
	svc := s.newService(fs, 70)

	_, err := svc.Register(s.ctx, s.request("4MW21AD043", "asha@sode-edu.in"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.sender.sent, "no welcome email without a persisted record")
}

func (s *ServiceSuite) TestRegisterInsertConflictReadsAsDuplicate() {
	fs := &failingStore{InMemory: s.store, insertErr: sentinel.ErrConflict}
	svc := s.newService(fs, 70)

	_, err := svc.Register(s.ctx, s.request("4MW21AD043", "asha@sode-edu.in"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRegistrant))
}

func (s *ServiceSuite) TestWelcomeEmailFailureDoesNotFailRegistration() {
	s.sender.err = errors.New("provider down")

	created, err := s.service.Register(s.ctx, s.request("4MW21AD043", "asha@sode-edu.in"))
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.EqualValues(1, s.count())
}

func (s *ServiceSuite) TestThresholdTriggersExactlyOneExport() {
	svc := s.newService(s.store, 2)

	_, err := svc.Register(s.ctx, s.request("4MW21AD001", "a@sode-edu.in"))
	s.Require().NoError(err)
	s.Empty(s.exports, "no export below capacity")

	_, err = svc.Register(s.ctx, s.request("4MW21AD002", "b@sode-edu.in"))
	s.Require().NoError(err)

	s.Require().Len(s.exports, 1)
	job := <-s.exports
	s.Equal(exporter.ReasonCapacityReached, job.Reason)
}

func (s *ServiceSuite) TestFullLifecycleScenario() {
	// capacity=2, empty store: A accepted, A again duplicate, B accepted and
	// triggers the export, C rejected full.
	svc := s.newService(s.store, 2)

	_, err := svc.Register(s.ctx, s.request("4MW21AD001", "a@sode-edu.in"))
	s.Require().NoError(err)
	s.EqualValues(1, s.count())

	_, err = svc.Register(s.ctx, s.request("4MW21AD001", "a2@sode-edu.in"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDuplicateRegistrant))

	_, err = svc.Register(s.ctx, s.request("4MW21CS002", "b@sode-edu.in"))
	s.Require().NoError(err)
	s.EqualValues(2, s.count())
	s.Len(s.exports, 1, "filling the roster fires the export once")

	_, err = svc.Register(s.ctx, s.request("4MW21EC003", "c@sode-edu.in"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCapacityExceeded))
	s.EqualValues(2, s.count())
	s.Len(s.exports, 1, "no further export after the roster is full")
}

func (s *ServiceSuite) TestRemainingSeats() {
	svc := s.newService(s.store, 3)

	remaining, err := svc.RemainingSeats(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, remaining)

	_, err = svc.Register(s.ctx, s.request("4MW21AD001", "a@sode-edu.in"))
	s.Require().NoError(err)

	remaining, err = svc.RemainingSeats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, remaining)
}

func (s *ServiceSuite) TestRemainingSeatsNeverNegative() {
	// Seed more records than the ceiling, as a capacity reduction after the
	// fact would.
	for _, usn := range []string{"4MW21AD001", "4MW21AD002", "4MW21AD003"} {
		_, err := s.store.Insert(s.ctx, models.Participant{USN: usn, Email: usn + "@sode-edu.in"})
		s.Require().NoError(err)
	}
	svc := s.newService(s.store, 2)

	remaining, err := svc.RemainingSeats(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, remaining)
}

func (s *ServiceSuite) TestRemainingSeatsCountFailure() {
	fs := &failingStore{InMemory: s.store, countErr: errors.New("timeout")}
	svc := s.newService(fs, 70)

	_, err := svc.RemainingSeats(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestRosterClassifiesDepartments() {
	for _, r := range []struct{ usn, email string }{
		{"4MW21AD043", "ad@sode-edu.in"},
		{"4MW21CS099", "cs@sode-edu.in"},
		{"4MW21AI001", "ai@sode-edu.in"},
	} {
		_, err := s.service.Register(s.ctx, s.request(r.usn, r.email))
		s.Require().NoError(err)
	}

	roster, err := s.service.Roster(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 3)
	s.Equal("AI&DS", roster[0].Department)
	s.Equal("CSE", roster[1].Department)
	s.Equal("AI&ML", roster[2].Department)
}

func (s *ServiceSuite) TestExportBuildsWorkbook() {
	_, err := s.service.Register(s.ctx, s.request("4MW21AD043", "asha@sode-edu.in"))
	s.Require().NoError(err)

	data, err := s.service.Export(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(data)
}
