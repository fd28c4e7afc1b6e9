package server

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/events"
	"github.com/devghori1264/aerophoenix/robot-service/internal/metrics"
	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
	"github.com/devghori1264/aerophoenix/robot-service/internal/storage"
)

// Server implements the robot service on top of a Store. It owns the side
// effects of each operation: metrics, events and diagnostics.
type Server struct {
	store     storage.Store
	metrics   *metrics.Metrics
	publisher events.Publisher
	logger    *zap.Logger
}

// New creates a new server instance. A nil publisher disables events.
func New(store storage.Store, m *metrics.Metrics, p events.Publisher, logger *zap.Logger) *Server {
	if p == nil {
		p = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:     store,
		metrics:   m,
		publisher: p,
		logger:    logger,
	}
}

// Metrics exposes the collectors, e.g. for the /metrics route.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// ListRobots returns every robot in insertion order.
func (s *Server) ListRobots(ctx context.Context) ([]models.Robot, error) {
	s.logger.Info("Fetching all robots")
	return s.store.ListRobots(ctx)
}

// GetRobot fetches a robot by ID.
func (s *Server) GetRobot(ctx context.Context, id string) (models.Robot, error) {
	r, err := s.store.GetRobot(ctx, id)
	if err != nil {
		s.logLookupError(err, id)
		return models.Robot{}, err
	}
	return r, nil
}

// CreateRobot stores a new robot and counts it.
func (s *Server) CreateRobot(ctx context.Context, in models.RobotCreate) (models.Robot, error) {
	s.logger.Info("Adding new robot", zap.String("name", in.Name))

	r, err := s.store.CreateRobot(ctx, in)
	if err != nil {
		s.logger.Error("failed to store robot", zap.Error(err))
		return models.Robot{}, err
	}
	s.metrics.RobotsAdded.Inc()

	s.publish(ctx, events.NewEvent(events.RobotCreated, r))
	return r, nil
}

// PatchRobot overwrites only the fields set in p.
func (s *Server) PatchRobot(ctx context.Context, id string, p models.RobotPatch) (models.Robot, error) {
	r, err := s.store.PatchRobot(ctx, id, p)
	if err != nil {
		s.logLookupError(err, id)
		return models.Robot{}, err
	}
	s.logger.Info("Updated robot", zap.String("robot_id", id))

	s.publish(ctx, events.NewEvent(events.RobotUpdated, r))
	return r, nil
}

func (s *Server) logLookupError(err error, id string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("Robot not found", zap.String("robot_id", id))
		return
	}
	s.logger.Error("store lookup failed", zap.String("robot_id", id), zap.Error(err))
}

// publish never fails the caller; broker trouble is only logged.
func (s *Server) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish failed", zap.String("event", ev.Type), zap.String("robot_id", ev.Robot.ID), zap.Error(err))
	}
}
