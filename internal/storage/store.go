package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Store interface (kept minimal, allows swapping implementations).
// Every implementation is safe for concurrent use.
type Store interface {
	ListRobots(ctx context.Context) ([]models.Robot, error)
	CreateRobot(ctx context.Context, in models.RobotCreate) (models.Robot, error)
	GetRobot(ctx context.Context, id string) (models.Robot, error)
	PatchRobot(ctx context.Context, id string, p models.RobotPatch) (models.Robot, error)
	Close() error
}

// newID allocates robot identifiers for every backend.
var newID = uuid.NewString

// Config selects and parameterises a backend.
type Config struct {
	Backend string

	// BadgerDir is the on-disk directory; empty runs badger in memory.
	BadgerDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	PostgresDSN string
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBadger:
		return NewBadgerStore(cfg.BadgerDir, logger)
	case BackendRedis:
		return OpenRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case BackendPostgres:
		return OpenPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
