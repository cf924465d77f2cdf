package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	"plant-logbook/internal/config"
	"plant-logbook/internal/storage"
)

var tableName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Storage keeps the logbook documents in a single key/value table.
type Storage struct {
	db    *sql.DB
	table string
}

func New(ctx context.Context, cfg config.MySQL) (*Storage, error) {
	const op = "storage.mysql.New"

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := NewWithDB(ctx, db, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// NewWithDB wraps an already opened connection and makes sure the table exists.
func NewWithDB(ctx context.Context, db *sql.DB, table string) (*Storage, error) {
	const op = "storage.mysql.NewWithDB"

	if table == "" {
		table = "logbook_kv"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%s: invalid table name %q", op, table)
	}

	s := &Storage{db: db, table: table}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) initSchema(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		k VARCHAR(191) NOT NULL PRIMARY KEY,
		v LONGTEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.mysql.Get"

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM `+s.table+` WHERE k = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrKeyNotFound
		}
		return "", fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.mysql.Set"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+s.table+` (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)
	`, key, value)
	if err != nil {
		return fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	const op = "storage.mysql.Remove"

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE k = ?`, key)
	if err != nil {
		return fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
