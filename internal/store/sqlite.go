package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seantiz/catsapi/internal/model"

	_ "modernc.org/sqlite"
)

// MemoryPath is the DSN of a private in-memory database that is discarded
// when the store is closed.
const MemoryPath = ":memory:"

const createCatsTable = `
CREATE TABLE IF NOT EXISTS cats (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    age        INTEGER NOT NULL,
    breed      TEXT NOT NULL,
    created_at DATETIME NOT NULL
)`

// ErrNotFound is returned when a cat is not found.
var ErrNotFound = errors.New("cat not found")

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: gets its own empty database.
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec(createCatsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cats table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateCat inserts a new cat and sets its ID.
func (s *SQLiteStore) CreateCat(ctx context.Context, c *model.Cat) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cats (name, age, breed, created_at) VALUES (?, ?, ?, ?)`,
		c.Name, c.Age, c.Breed, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read cat id: %w", err)
	}
	c.ID = id
	return nil
}

// GetCat retrieves a cat by ID.
func (s *SQLiteStore) GetCat(ctx context.Context, id int64) (*model.Cat, error) {
	c := &model.Cat{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, age, breed, created_at FROM cats WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Age, &c.Breed, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cat: %w", err)
	}
	return c, nil
}

// ListCats returns a page of cats in insertion order along with the total
// count of all cats.
func (s *SQLiteStore) ListCats(ctx context.Context, limit, offset int) ([]*model.Cat, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM cats").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cats: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, age, breed, created_at
		FROM cats ORDER BY id ASC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list cats: %w", err)
	}
	defer rows.Close()

	var cats []*model.Cat
	for rows.Next() {
		c := &model.Cat{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Age, &c.Breed, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan cat: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate cats: %w", err)
	}

	return cats, total, nil
}
