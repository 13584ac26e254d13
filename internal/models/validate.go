package models

import (
	"errors"
	"fmt"
)

// Validation errors raised before anything reaches the calculator.
var (
	ErrEmptyName            = errors.New("name must not be empty")
	ErrInvalidExpenseAmount = errors.New("expense amount must be greater than zero")
	ErrMissingPayer         = errors.New("select who paid for this expense")
	ErrEmptyBeneficiarySet  = errors.New("select who shares this expense")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrTooManyParticipants  = fmt.Errorf("a split holds at most %d people", MaxParticipants)
	ErrNeedMorePeople       = fmt.Errorf("add at least %d people to split expenses", MinParticipants)
	ErrNoExpenses           = errors.New("add at least one expense")
)

// ValidateParticipant checks that a participant named name can join the split
// and returns the trimmed name.
func (s *Split) ValidateParticipant(name string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if len(s.People) >= MaxParticipants {
		return "", ErrTooManyParticipants
	}
	return name, nil
}

// ValidateExpense checks e against the split and returns a normalized copy:
// trimmed name and duplicate beneficiaries collapsed in first-seen order.
func (s *Split) ValidateExpense(e Expense) (Expense, error) {
	e.Name = NormalizeName(e.Name)
	if e.Name == "" {
		return Expense{}, ErrEmptyName
	}
	if !(e.Amount > 0) {
		return Expense{}, fmt.Errorf("%w: %v", ErrInvalidExpenseAmount, e.Amount)
	}
	if e.PaidBy == "" {
		return Expense{}, ErrMissingPayer
	}
	if !s.HasParticipant(e.PaidBy) {
		return Expense{}, fmt.Errorf("%w: payer %q", ErrUnknownParticipant, e.PaidBy)
	}
	if len(e.SharedBy) == 0 {
		return Expense{}, ErrEmptyBeneficiarySet
	}

	seen := make(map[string]bool, len(e.SharedBy))
	sharedBy := make([]string, 0, len(e.SharedBy))
	for _, id := range e.SharedBy {
		if !s.HasParticipant(id) {
			return Expense{}, fmt.Errorf("%w: beneficiary %q", ErrUnknownParticipant, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		sharedBy = append(sharedBy, id)
	}
	e.SharedBy = sharedBy

	return e, nil
}

// ReadyForResults reports whether the split has enough data to share results.
func (s *Split) ReadyForResults() error {
	if len(s.People) < MinParticipants {
		return ErrNeedMorePeople
	}
	if len(s.Expenses) == 0 {
		return ErrNoExpenses
	}
	return nil
}
