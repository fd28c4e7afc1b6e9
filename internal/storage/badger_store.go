package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

const (
	robotPrefix = "robot:"
	orderPrefix = "order:"
)

// BadgerStore implements Store with Badger DB. Records live under robot:<id>;
// order:<seq> keys map a zero-padded sequence to an id so that iteration
// follows insertion order.
type BadgerStore struct {
	db *badger.DB
	// serialises writers; badger transactions alone would surface ErrConflict
	mu  sync.Mutex
	seq uint64
}

// NewBadgerStore opens a store at path, or a purely in-memory one when path
// is empty.
func NewBadgerStore(path string, logger *zap.Logger) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(filepath.Clean(path))
		opts = opts.WithValueLogFileSize(1 << 20) // smaller value log for local dev
	}
	if logger != nil {
		opts.Logger = badgerLogger{logger.Named("badger").Sugar()}
	} else {
		opts.Logger = nil
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s := &BadgerStore{db: db}
	if err := s.loadSeq(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func robotKey(id string) []byte {
	return []byte(robotPrefix + id)
}

func orderKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", orderPrefix, seq))
}

// loadSeq resumes the sequence after the last order key of an existing database.
func (s *BadgerStore) loadSeq() error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(orderPrefix)
		it.Seek(append([]byte(orderPrefix), 0xFF))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		key := it.Item().Key()
		seq, err := strconv.ParseUint(string(key[len(prefix):]), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt order key %q: %w", key, err)
		}
		s.seq = seq
		return nil
	})
}

func (s *BadgerStore) ListRobots(ctx context.Context) ([]models.Robot, error) {
	out := []models.Robot{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(orderPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			r, err := getRobot(txn, string(id))
			if err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BadgerStore) CreateRobot(ctx context.Context, in models.RobotCreate) (models.Robot, error) {
	r := in.Robot(newID())
	data, err := json.Marshal(r)
	if err != nil {
		return models.Robot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq + 1
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(robotKey(r.ID), data); err != nil {
			return err
		}
		return txn.Set(orderKey(seq), []byte(r.ID))
	})
	if err != nil {
		return models.Robot{}, err
	}
	s.seq = seq
	return r, nil
}

func (s *BadgerStore) GetRobot(ctx context.Context, id string) (models.Robot, error) {
	var out models.Robot
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = getRobot(txn, id)
		return err
	})
	return out, err
}

func (s *BadgerStore) PatchRobot(ctx context.Context, id string, p models.RobotPatch) (models.Robot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out models.Robot
	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := getRobot(txn, id)
		if err != nil {
			return err
		}
		p.Apply(&r)
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		out = r
		return txn.Set(robotKey(id), data)
	})
	return out, err
}

func getRobot(txn *badger.Txn, id string) (models.Robot, error) {
	var out models.Robot
	item, err := txn.Get(robotKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return out, ErrNotFound
		}
		return out, err
	}
	err = item.Value(func(v []byte) error {
		return json.Unmarshal(v, &out)
	})
	return out, err
}

// badgerLogger routes badger's printf-style logging into zap.
type badgerLogger struct {
	l *zap.SugaredLogger
}

func (b badgerLogger) Errorf(f string, v ...interface{})   { b.l.Errorf(f, v...) }
func (b badgerLogger) Warningf(f string, v ...interface{}) { b.l.Warnf(f, v...) }
func (b badgerLogger) Infof(f string, v ...interface{})    { b.l.Debugf(f, v...) }
func (b badgerLogger) Debugf(f string, v ...interface{})   { b.l.Debugf(f, v...) }
