package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/storage"
)

// AddExpense appends an expense and its beneficiaries to the split.
func (s *SQLiteStore) AddExpense(ctx context.Context, splitID string, e *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireSplit(ctx, tx, splitID); err != nil {
		return err
	}
	if err := requireParticipants(ctx, tx, splitID, append([]string{e.PaidBy}, e.SharedBy...)...); err != nil {
		return err
	}

	position, err := nextPosition(ctx, tx, "expenses", splitID)
	if err != nil {
		return err
	}
	if err := insertExpense(ctx, tx, splitID, e, position); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveExpense deletes an expense and its beneficiaries.
func (s *SQLiteStore) RemoveExpense(ctx context.Context, splitID, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND split_id = ?",
		expenseID, splitID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense shares: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertExpense(ctx context.Context, q querier, splitID string, e *models.Expense, position int) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO expenses (id, split_id, name, amount, paid_by, position) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, splitID, e.Name, e.Amount, e.PaidBy, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, participantID := range e.SharedBy {
		_, err = q.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_shares (expense_id, participant_id, position) VALUES (?, ?, ?)",
			e.ID, participantID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	return nil
}

func listExpenses(ctx context.Context, q querier, splitID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, amount, paid_by FROM expenses WHERE split_id = ? ORDER BY position",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Name, &e.Amount, &e.PaidBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// Single connection: expense rows must be closed before reading shares.
	shareRows, err := q.QueryContext(ctx,
		`SELECT s.expense_id, s.participant_id FROM expense_shares s
		 JOIN expenses e ON e.id = s.expense_id
		 WHERE e.split_id = ?
		 ORDER BY e.position, s.position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID, participantID string
		if err := shareRows.Scan(&expenseID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].SharedBy = append(expenses[i].SharedBy, participantID)
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return expenses, nil
}
