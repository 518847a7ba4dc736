package gateway

import (
	"context"
	"fmt"
	"time"

	appsession "github.com/commerceqb/gateway/internal/application/session"
	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/session"
	"github.com/commerceqb/gateway/internal/infrastructure/qbxml"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthResultInvalidUser is the sentinel the web connector understands as
// "not valid user"; the protocol has no other failure channel.
const AuthResultInvalidUser = "nvu"

// ProgressSessionInvalid is the receiveResponseXML return value that tells
// the client to stop and re-authenticate.
const ProgressSessionInvalid = -1

// Service dispatches the seven web-connector calls against the export queue.
// Every call is a single synchronous unit of work; failures degrade to
// empty or sentinel payloads because the wire format has no fault channel.
type Service struct {
	jobs      export.JobRepository
	users     commerce.UserRepository
	sessions  *appsession.Manager
	validator *ValidatorRegistry
	populator *Populator
	attacher  *Attacher
	builder   *qbxml.Builder

	serverVersion string
	priority      export.PriorityOrder
	logger        *zap.Logger
}

// NewService creates a new gateway Service
func NewService(
	jobs export.JobRepository,
	users commerce.UserRepository,
	sessions *appsession.Manager,
	validator *ValidatorRegistry,
	populator *Populator,
	attacher *Attacher,
	builder *qbxml.Builder,
	serverVersion string,
	priority export.PriorityOrder,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobs:          jobs,
		users:         users,
		sessions:      sessions,
		validator:     validator,
		populator:     populator,
		attacher:      attacher,
		builder:       builder,
		serverVersion: serverVersion,
		priority:      priority,
		logger:        logger,
	}
}

// ServerVersion reports the gateway's version string
func (s *Service) ServerVersion(ctx context.Context) string {
	return s.serverVersion
}

// ClientVersion accepts any client version; an empty reply means proceed
func (s *Service) ClientVersion(ctx context.Context, version string) string {
	s.logger.Debug("client version reported", zap.String("version", version))
	return ""
}

// Authenticate verifies the credentials and opens a session. On success the
// reply is (ticket, ""); on any failure it is ("", "nvu") with no hint of
// which credential was wrong.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, string) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("authentication failed", zap.String("username", username))
		return "", AuthResultInvalidUser
	}

	if !user.CanConnect() || !user.VerifyPassword(password) {
		s.logger.Warn("authentication failed", zap.String("username", username))
		return "", AuthResultInvalidUser
	}

	ticket := uuid.NewString()
	if _, err := s.sessions.Start(ctx, ticket, user.ID); err != nil {
		s.logger.Error("session start failed", zap.Error(err))
		return "", AuthResultInvalidUser
	}

	s.logger.Info("web connector authenticated", zap.String("username", username))
	return ticket, ""
}

// SendRequest claims the next exportable job and returns its request
// document. Invalid jobs are deleted and the claim repeats; jobs whose
// document cannot be built are marked FAILED and the claim repeats. An
// empty reply means the queue is drained or the session was rejected.
func (s *Service) SendRequest(ctx context.Context, ticket string) string {
	if _, err := s.sessions.Validate(ctx, ticket, session.CallSendRequest); err != nil {
		return ""
	}

	for {
		job, err := s.jobs.NextByPriority(ctx, s.priority)
		if err != nil {
			s.logger.Error("queue claim failed", zap.Error(err))
			return ""
		}
		if job == nil {
			s.logger.Info("export queue drained")
			return ""
		}

		valid, err := s.validator.Validate(ctx, job)
		if err != nil {
			s.logger.Error("job validation failed",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.Type)),
				zap.Error(err),
			)
			return ""
		}
		if !valid {
			s.logger.Warn("dropping invalid job",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.Type)),
			)
			if err := s.jobs.Delete(ctx, job); err != nil {
				s.logger.Error("job delete failed", zap.Error(err))
				return ""
			}
			continue
		}

		// The export attempt is stamped before the outcome is known so
		// receiveResponseXML can correlate the reply back to this job.
		if err := s.jobs.MarkExported(ctx, job, time.Now()); err != nil {
			s.logger.Error("export stamp failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
			return ""
		}

		doc, err := s.buildDocument(ctx, job)
		if err != nil {
			s.logger.Error("request build failed",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.Type)),
				zap.Error(err),
			)
			if err := s.failJob(ctx, job); err != nil {
				return ""
			}
			continue
		}

		s.logger.Info("job dispatched",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return doc
	}
}

func (s *Service) buildDocument(ctx context.Context, job *export.Job) (string, error) {
	props, err := s.populator.Populate(ctx, job)
	if err != nil {
		return "", err
	}
	return s.builder.Build(job.Type, props)
}

func (s *Service) failJob(ctx context.Context, job *export.Job) error {
	if err := s.jobs.UpdateStatus(ctx, job, export.StatusFailed); err != nil {
		s.logger.Error("status update failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ReceiveResponse resolves the in-flight job from the client's reply and
// reports queue completion as a percentage. A rejected session returns -1;
// an empty queue reports full completion.
func (s *Service) ReceiveResponse(ctx context.Context, ticket, payload, hresult, message string) int {
	if _, err := s.sessions.Validate(ctx, ticket, session.CallReceiveResponse); err != nil {
		return ProgressSessionInvalid
	}

	job, err := s.jobs.MostRecentExport(ctx)
	if err != nil {
		s.logger.Error("export correlation failed", zap.Error(err))
		return ProgressSessionInvalid
	}
	if job == nil {
		return 100
	}

	remoteErrors := s.collectErrors(payload, hresult, message)

	resolved := export.StatusDone
	sawFatal := false
	sawDuplicate := false
	for _, remoteErr := range remoteErrors {
		if remoteErr.IsRetryable() {
			// Transient failure: leave the job queued for the next pass.
			s.logger.Warn("transient remote error, job stays queued",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.Type)),
				zap.String("code", remoteErr.Code),
			)
			return s.progress(ctx)
		}
		if remoteErr.IsDuplicate() {
			s.logger.Info("duplicate record reported, ignoring",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", string(job.Type)),
			)
			sawDuplicate = true
			continue
		}
		s.logger.Error("remote export error",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.String("code", remoteErr.Code),
			zap.String("message", remoteErr.Message),
		)
		sawFatal = true
		resolved = export.StatusFailed
	}

	// A reply carrying nothing but duplicate errors changes nothing: the
	// record exists remotely but this job is neither confirmed nor denied.
	if sawDuplicate && !sawFatal {
		return s.progress(ctx)
	}

	if job.IsPending() {
		if err := job.Resolve(resolved); err != nil {
			s.logger.Error("job resolution failed", zap.Error(err))
			return s.progress(ctx)
		}
		if err := s.jobs.UpdateStatus(ctx, job, resolved); err != nil {
			s.logger.Error("status update failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
			return s.progress(ctx)
		}

		if resolved == export.StatusDone {
			refs := qbxml.ExtractReferenceIDs(payload)
			if err := s.attacher.Attach(ctx, job, refs); err != nil {
				s.logger.Error("identifier attachment failed",
					zap.String("job_id", job.ID.String()),
					zap.String("job_type", string(job.Type)),
					zap.Error(err),
				)
			}
		}
	}

	return s.progress(ctx)
}

// collectErrors turns a transport-level failure into a synthetic single
// error, or parses the document body when one is present
func (s *Service) collectErrors(payload, hresult, message string) []qbxml.RemoteError {
	if hresult != "" || message != "" {
		return []qbxml.RemoteError{{Code: hresult, Message: message}}
	}
	if payload == "" {
		return nil
	}
	return qbxml.ParseErrors(payload)
}

// progress is floor(100 * done / (done + pending)); an empty queue is
// defined as complete
func (s *Service) progress(ctx context.Context) int {
	done, err := s.jobs.CountByStatus(ctx, export.StatusDone)
	if err != nil {
		s.logger.Error("progress count failed", zap.Error(err))
		return 100
	}
	pending, err := s.jobs.CountByStatus(ctx, export.StatusPending)
	if err != nil {
		s.logger.Error("progress count failed", zap.Error(err))
		return 100
	}

	total := done + pending
	if total == 0 {
		return 100
	}
	return int(100 * done / total)
}

// LastError reports whether pending work remains; the web connector shows
// this string to the operator
func (s *Service) LastError(ctx context.Context, ticket string) string {
	if _, err := s.sessions.Validate(ctx, ticket, session.CallGetLastError); err != nil {
		return ""
	}

	pending, err := s.jobs.CountByStatus(ctx, export.StatusPending)
	if err != nil {
		s.logger.Error("pending count failed", zap.Error(err))
		return ""
	}

	if pending == 0 {
		return "No jobs remaining"
	}
	return fmt.Sprintf("%d jobs remain in the export queue", pending)
}

// CloseConnection ends the session and acknowledges the client
func (s *Service) CloseConnection(ctx context.Context, ticket string) string {
	if _, err := s.sessions.Validate(ctx, ticket, session.CallCloseConnection); err != nil {
		return ""
	}

	if err := s.sessions.Close(ctx, ticket); err != nil {
		s.logger.Error("session close failed", zap.Error(err))
	}
	return "OK"
}
