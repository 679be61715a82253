// Package service provides the activity directory service used by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	repository "github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/seed"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

// Client-facing messages.
const (
	MsgActivityNotFound = "Activity not found"
	MsgAlreadySignedUp  = "Student already signed up for this activity"
	MsgNotRegistered    = "Student is not registered for this activity"
)

// Service implements the API dependencies for the activity directory.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	seed   types.Directory
	tracer trace.Tracer
	logger logger.Logger

	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a directory store. The seed is ignored when a store is set.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSeed sets the directory the store is built from on Start.
func WithSeed(d types.Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.seed = d
		}
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New constructs a Service. Without WithSeed the built-in seed is used.
func New(opts ...Option) *Service {
	s := &Service{
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store if none was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.ensureStoreLocked(ctx)
	s.started = true

	s.logger.Info(ctx, "activity service started", logger.Int("activities", s.store.Count(ctx)))
	s.refreshGauges(ctx, s.store.List(ctx))
	return nil
}

// Stop marks the service stopped. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "activity service stopped")
}

func (s *Service) ensureStoreLocked(ctx context.Context) {
	if s.store != nil {
		return
	}
	d := s.seed
	if d == nil {
		d = seed.Default()
	}
	s.store = repository.NewMemoryStore(ctx, d)
}

// directory returns the store, building it lazily for a service that was
// never started.
func (s *Service) directory(ctx context.Context) repository.Store {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store != nil {
		return store
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureStoreLocked(ctx)
	return s.store
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

// ListActivities returns a snapshot of the whole directory.
func (s *Service) ListActivities(ctx context.Context) types.Directory {
	ctx, span := s.tracer.Start(ctx, "activities.list")
	defer span.End()

	d := s.directory(ctx).List(ctx)
	span.SetAttributes(attribute.Int("activities.count", len(d)))
	return d
}

// Signup adds email to the roster of activity.
func (s *Service) Signup(ctx context.Context, activity, email string) (types.Result, error) {
	const op = "app.signup"
	ctx, span := s.tracer.Start(ctx, "activities.signup", trace.WithAttributes(
		attribute.String("activity.name", activity),
	))
	defer span.End()

	size, err := s.directory(ctx).Signup(ctx, activity, email)
	if err != nil {
		terr := s.reject(ctx, op, "signup", activity, err)
		span.RecordError(terr)
		span.SetStatus(codes.Error, terr.Message)
		return types.Result{}, terr
	}

	metrics.RecordSignup()
	metrics.UpdateRosterSize(activity, size)
	span.SetAttributes(attribute.Int("activity.roster_size", size))
	if l := s.log(); l != nil {
		l.Debug(ctx, "participant signed up", logger.String("activity", activity), logger.Int("roster", size))
	}
	return types.Result{Message: fmt.Sprintf("Signed up %s for %s", email, activity)}, nil
}

// Unregister removes email from the roster of activity.
func (s *Service) Unregister(ctx context.Context, activity, email string) (types.Result, error) {
	const op = "app.unregister"
	ctx, span := s.tracer.Start(ctx, "activities.unregister", trace.WithAttributes(
		attribute.String("activity.name", activity),
	))
	defer span.End()

	size, err := s.directory(ctx).Unregister(ctx, activity, email)
	if err != nil {
		terr := s.reject(ctx, op, "unregister", activity, err)
		span.RecordError(terr)
		span.SetStatus(codes.Error, terr.Message)
		return types.Result{}, terr
	}

	metrics.RecordUnregister()
	metrics.UpdateRosterSize(activity, size)
	span.SetAttributes(attribute.Int("activity.roster_size", size))
	if l := s.log(); l != nil {
		l.Debug(ctx, "participant unregistered", logger.String("activity", activity), logger.Int("roster", size))
	}
	return types.Result{Message: fmt.Sprintf("Unregistered %s from %s", email, activity)}, nil
}

// reject maps a store error to a tagged error and records it.
func (s *Service) reject(ctx context.Context, op, operation, activity string, err error) *types.Error {
	var terr *types.Error
	switch {
	case errors.Is(err, repository.ErrNotFound):
		terr = types.NewError(types.KindNotFound, op, MsgActivityNotFound, err)
	case errors.Is(err, repository.ErrAlreadySignedUp):
		terr = types.NewError(types.KindConflict, op, MsgAlreadySignedUp, err)
	case errors.Is(err, repository.ErrNotRegistered):
		terr = types.NewError(types.KindBadRequest, op, MsgNotRegistered, err)
	default:
		terr = types.NewError(0, op, "internal error", err)
	}

	metrics.RecordRejection(operation, terr.Kind.String())
	if l := s.log(); l != nil {
		l.Info(ctx, "roster change rejected",
			logger.String("operation", operation),
			logger.String("activity", activity),
			logger.String("reason", terr.Kind.String()),
		)
	}
	return terr
}

// GetStats returns service statistics and refreshes the roster gauges.
func (s *Service) GetStats() map[string]any {
	ctx := context.Background()
	d := s.directory(ctx).List(ctx)

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	rosters := make(map[string]int, len(d))
	total := 0
	for name, a := range d {
		rosters[name] = len(a.Participants)
		total += len(a.Participants)
	}
	s.refreshGauges(ctx, d)

	return map[string]any{
		"started":           started,
		"totalActivities":   len(d),
		"totalParticipants": total,
		"rosterSizes":       rosters,
	}
}

func (s *Service) refreshGauges(_ context.Context, d types.Directory) {
	total := 0
	for name, a := range d {
		metrics.UpdateRosterSize(name, len(a.Participants))
		total += len(a.Participants)
	}
	metrics.UpdateActivityCount(len(d))
	metrics.UpdateParticipantCount(total)
}
