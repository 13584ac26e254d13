package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/storage"
)

// AddParticipant appends a participant to the split.
func (s *SQLiteStore) AddParticipant(ctx context.Context, splitID string, p *models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireSplit(ctx, tx, splitID); err != nil {
		return err
	}

	var count int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM participants WHERE split_id = ?", splitID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= models.MaxParticipants {
		return fmt.Errorf("split %s: %w", splitID, models.ErrTooManyParticipants)
	}

	position, err := nextPosition(ctx, tx, "participants", splitID)
	if err != nil {
		return err
	}
	if err := insertParticipant(ctx, tx, splitID, p, position); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a participant no expense references.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, splitID, participantID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var inUse int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses e
		 WHERE e.split_id = ? AND (e.paid_by = ? OR EXISTS (
		     SELECT 1 FROM expense_shares s WHERE s.expense_id = e.id AND s.participant_id = ?))`,
		splitID, participantID, participantID,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check participant references: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrParticipantInUse)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND split_id = ?",
		participantID, splitID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertParticipant(ctx context.Context, q querier, splitID string, p *models.Participant, position int) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := q.ExecContext(ctx,
		"INSERT INTO participants (id, split_id, name, position) VALUES (?, ?, ?, ?)",
		p.ID, splitID, p.Name, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func listParticipants(ctx context.Context, q querier, splitID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name FROM participants WHERE split_id = ? ORDER BY position",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var people []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return people, nil
}

// requireParticipants returns models.ErrUnknownParticipant unless every id
// belongs to the split.
func requireParticipants(ctx context.Context, q querier, splitID string, ids ...string) error {
	for _, id := range ids {
		var exists int
		err := q.QueryRowContext(ctx,
			"SELECT 1 FROM participants WHERE id = ? AND split_id = ?",
			id, splitID,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("participant %q: %w", id, models.ErrUnknownParticipant)
		}
		if err != nil {
			return fmt.Errorf("failed to check participant: %w", err)
		}
	}
	return nil
}
