// Package storage provides abstractions for split session storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/quicksplit/internal/models"
)

var (
	// ErrNotFound is returned when a split, participant or expense does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParticipantInUse is returned when removing a participant that an
	// expense still references as payer or beneficiary.
	ErrParticipantInUse = errors.New("participant is referenced by an expense")
)

// Store defines the interface for split storage operations.
// Implementations keep state for the lifetime of the process only.
type Store interface {
	// CreateSplit persists a new split with any people and expenses it already holds.
	// Missing IDs and CreatedAt are populated by the store. Expenses must
	// reference people of the same split.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a split with people, expenses and beneficiaries in insertion order.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// DeleteSplit removes a split and everything it holds.
	DeleteSplit(ctx context.Context, splitID string) error

	// ResetSplit removes every participant and expense but keeps the split.
	ResetSplit(ctx context.Context, splitID string) error

	// AddParticipant appends a participant. p.ID is populated if empty.
	// Returns models.ErrTooManyParticipants if the split is already full.
	AddParticipant(ctx context.Context, splitID string, p *models.Participant) error

	// RemoveParticipant deletes a participant.
	// Returns ErrParticipantInUse if an expense references it.
	RemoveParticipant(ctx context.Context, splitID, participantID string) error

	// AddExpense appends an expense. e.ID is populated if empty.
	// Returns models.ErrUnknownParticipant if the payer or a beneficiary is
	// not a participant of the split at commit time.
	AddExpense(ctx context.Context, splitID string, e *models.Expense) error

	// RemoveExpense deletes an expense.
	RemoveExpense(ctx context.Context, splitID, expenseID string) error

	// Close releases any resources held by the store.
	Close() error
}
