// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// Every store opens its own private in-memory database. Nothing is written to
// disk and all splits are gone once the store is closed.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using an in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore backed by a fresh in-memory database and runs migrations.
func New(ctx context.Context) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The in-memory database lives as long as a connection to it does.
	// A single connection also avoids shared-cache table locks.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection, discarding all data.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSplit persists a new split together with its people and expenses.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}
	if len(split.People) > models.MaxParticipants {
		return fmt.Errorf("split %s: %w", split.ID, models.ErrTooManyParticipants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO splits (id, created_at) VALUES (?, ?)",
		split.ID, split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i := range split.People {
		if err := insertParticipant(ctx, tx, split.ID, &split.People[i], i); err != nil {
			return err
		}
	}
	for i := range split.Expenses {
		e := &split.Expenses[i]
		if err := requireParticipants(ctx, tx, split.ID, append([]string{e.PaidBy}, e.SharedBy...)...); err != nil {
			return err
		}
		if err := insertExpense(ctx, tx, split.ID, e, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSplit retrieves a split by ID, including all people, expenses and beneficiaries.
// Everything is read in one transaction.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	split := &models.Split{}
	err = tx.QueryRowContext(ctx,
		"SELECT id, created_at FROM splits WHERE id = ?",
		splitID,
	).Scan(&split.ID, &split.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	split.People, err = listParticipants(ctx, tx, splitID)
	if err != nil {
		return nil, err
	}

	split.Expenses, err = listExpenses(ctx, tx, splitID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return split, nil
}

// DeleteSplit removes a split and everything it holds.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearSplit(ctx, tx, splitID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResetSplit removes every participant and expense of a split.
func (s *SQLiteStore) ResetSplit(ctx context.Context, splitID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireSplit(ctx, tx, splitID); err != nil {
		return err
	}
	if err := clearSplit(ctx, tx, splitID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// requireSplit returns storage.ErrNotFound if the split does not exist.
func requireSplit(ctx context.Context, q querier, splitID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM splits WHERE id = ?", splitID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check split existence: %w", err)
	}
	return nil
}

// clearSplit deletes the people and expenses of a split.
func clearSplit(ctx context.Context, q querier, splitID string) error {
	statements := []string{
		"DELETE FROM expense_shares WHERE expense_id IN (SELECT id FROM expenses WHERE split_id = ?)",
		"DELETE FROM expenses WHERE split_id = ?",
		"DELETE FROM participants WHERE split_id = ?",
	}
	for _, stmt := range statements {
		if _, err := q.ExecContext(ctx, stmt, splitID); err != nil {
			return fmt.Errorf("failed to clear split: %w", err)
		}
	}
	return nil
}

// nextPosition returns the position after the last row of table in the split.
func nextPosition(ctx context.Context, q querier, table, splitID string) (int, error) {
	var next int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM "+table+" WHERE split_id = ?",
		splitID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s position: %w", table, err)
	}
	return next, nil
}
