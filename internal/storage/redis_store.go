package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

// maxPatchRetries bounds optimistic-lock retries when a watched key changes.
const maxPatchRetries = 50

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps each robot as a JSON string under <prefix>robot:<id> and the
// insertion order as a list of ids under <prefix>robots.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// OpenRedisStore connects and pings the server.
func OpenRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisStore(client, prefix), nil
}

func (s *RedisStore) robotKey(id string) string {
	return s.prefix + robotPrefix + id
}

func (s *RedisStore) orderKey() string {
	return s.prefix + "robots"
}

func (s *RedisStore) ListRobots(ctx context.Context) ([]models.Robot, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.Robot, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.robotKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("robot %s listed but missing", ids[i])
		}
		var r models.Robot
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisStore) CreateRobot(ctx context.Context, in models.RobotCreate) (models.Robot, error) {
	r := in.Robot(newID())
	data, err := json.Marshal(r)
	if err != nil {
		return models.Robot{}, err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.robotKey(r.ID), data, 0)
		pipe.RPush(ctx, s.orderKey(), r.ID)
		return nil
	})
	if err != nil {
		return models.Robot{}, err
	}
	return r, nil
}

func (s *RedisStore) GetRobot(ctx context.Context, id string) (models.Robot, error) {
	return s.get(ctx, s.client, id)
}

func (s *RedisStore) PatchRobot(ctx context.Context, id string, p models.RobotPatch) (models.Robot, error) {
	key := s.robotKey(id)
	var out models.Robot

	txf := func(tx *redis.Tx) error {
		r, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		p.Apply(&r)
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			out = r
		}
		return err
	}

	for i := 0; i < maxPatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return models.Robot{}, fmt.Errorf("patch robot %s: too many concurrent updates", id)
}

func (s *RedisStore) get(ctx context.Context, c getter, id string) (models.Robot, error) {
	var out models.Robot
	data, err := c.Get(ctx, s.robotKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return out, ErrNotFound
		}
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
