package models

import "strings"

const (
	// MinParticipants is the smallest group that can be settled.
	MinParticipants = 2

	// MaxParticipants is the largest group a split accepts.
	MaxParticipants = 10
)

// Participant is a person in the split group.
type Participant struct {
	// ID is the opaque unique identifier of the participant.
	ID string `json:"id" yaml:"id" toml:"id"`

	// Name is the display name, trimmed of surrounding whitespace.
	Name string `json:"name" yaml:"name" toml:"name"`
}

// Expense is a recorded cost with one payer, shared equally among SharedBy.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format when created by the store).
	ID string `json:"id" yaml:"id" toml:"id"`

	// Name is the human-readable description (e.g., "Dinner", "Taxi").
	Name string `json:"name" yaml:"name" toml:"name"`

	// Amount is the positive, currency-agnostic value of the expense.
	Amount float64 `json:"amount" yaml:"amount" toml:"amount"`

	// PaidBy is the participant ID of the payer.
	PaidBy string `json:"paid_by" yaml:"paid_by" toml:"paid_by"`

	// SharedBy is the list of participant IDs who owe an equal share of Amount.
	// The payer owes a share too when listed here.
	SharedBy []string `json:"shared_by" yaml:"shared_by" toml:"shared_by"`
}

// Split is the caller-owned state passed to the calculator on every recomputation.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string `json:"id"`

	// People are the participants in the order they were added.
	People []Participant `json:"people"`

	// Expenses are the recorded expenses in the order they were added.
	Expenses []Expense `json:"expenses"`

	// CreatedAt is the Unix timestamp when the split was created.
	CreatedAt int64 `json:"created_at"`
}

// PersonName returns the display name for id, or "" if id is not a participant.
func (s *Split) PersonName(id string) string {
	for _, p := range s.People {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// HasParticipant reports whether id belongs to one of the split's participants.
func (s *Split) HasParticipant(id string) bool {
	for _, p := range s.People {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Names returns participant display names in insertion order.
func (s *Split) Names() []string {
	names := make([]string, len(s.People))
	for i, p := range s.People {
		names[i] = p.Name
	}
	return names
}

// References reports whether any expense names id as payer or beneficiary.
func (s *Split) References(id string) bool {
	for _, e := range s.Expenses {
		if e.PaidBy == id {
			return true
		}
		for _, b := range e.SharedBy {
			if b == id {
				return true
			}
		}
	}
	return false
}

// NormalizeName trims surrounding whitespace from a participant or expense name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
