package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS robots (
	seq    BIGSERIAL,
	id     TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	type   TEXT NOT NULL,
	status TEXT NOT NULL
)`

// PostgresStore persists robots in a single table ordered by a serial column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgresStore connects to dsn and ensures the schema exists.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := NewPostgresStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create robots table: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRobots(ctx context.Context) ([]models.Robot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, status FROM robots ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Robot{}
	for rows.Next() {
		var r models.Robot
		if err := rows.Scan(&r.ID, &r.Name, &r.Type, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateRobot(ctx context.Context, in models.RobotCreate) (models.Robot, error) {
	r := in.Robot(newID())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO robots (id, name, type, status) VALUES ($1, $2, $3, $4)`,
		r.ID, r.Name, r.Type, r.Status)
	if err != nil {
		return models.Robot{}, fmt.Errorf("insert robot: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) GetRobot(ctx context.Context, id string) (models.Robot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, type, status FROM robots WHERE id = $1`, id)
	return scanRobot(row)
}

// PatchRobot applies the patch in one statement; COALESCE keeps columns whose
// parameter is NULL.
func (s *PostgresStore) PatchRobot(ctx context.Context, id string, p models.RobotPatch) (models.Robot, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE robots SET name = COALESCE($2, name), type = COALESCE($3, type), status = COALESCE($4, status)
		WHERE id = $1 RETURNING id, name, type, status`,
		id, nullString(p.Name), nullString(p.Type), nullString(p.Status))
	return scanRobot(row)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanRobot(row *sql.Row) (models.Robot, error) {
	var r models.Robot
	if err := row.Scan(&r.ID, &r.Name, &r.Type, &r.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Robot{}, ErrNotFound
		}
		return models.Robot{}, err
	}
	return r, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
