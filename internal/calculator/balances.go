// Package calculator is the settlement engine: it reduces expenses to signed
// per-participant balances and matches debtors with creditors.
//
// Both entry points are pure functions of their arguments and are safe to call
// concurrently on independent inputs. Callers recompute from scratch on every
// change instead of updating a previous result.
package calculator

import (
	"log/slog"
	"math"

	"github.com/mmynk/quicksplit/internal/models"
)

// Epsilon is the tolerance (one cent) below which a balance or settlement
// amount is treated as zero.
const Epsilon = 0.01

// Balances maps participant IDs to signed net balances, preserving the order
// in which IDs were first inserted. Positive = is owed money, Negative = owes money.
//
// The zero value is an empty mapping ready to use.
type Balances struct {
	ids     []string
	amounts map[string]float64
}

// Set assigns amount to id. A new id is appended after all existing ones.
func (b *Balances) Set(id string, amount float64) {
	if b.amounts == nil {
		b.amounts = make(map[string]float64)
	}
	if _, exists := b.amounts[id]; !exists {
		b.ids = append(b.ids, id)
	}
	b.amounts[id] = amount
}

// Add shifts id's balance by delta, inserting id at 0 first if needed.
func (b *Balances) Add(id string, delta float64) {
	b.Set(id, b.amounts[id]+delta)
}

// Get returns the balance for id, or 0 if id is unknown.
func (b Balances) Get(id string) float64 {
	return b.amounts[id]
}

// Has reports whether id is a key of the mapping.
func (b Balances) Has(id string) bool {
	_, ok := b.amounts[id]
	return ok
}

// IDs returns the keys in insertion order.
func (b Balances) IDs() []string {
	ids := make([]string, len(b.ids))
	copy(ids, b.ids)
	return ids
}

// Len returns the number of participants in the mapping.
func (b Balances) Len() int {
	return len(b.ids)
}

// Sum adds every balance. For balances produced by ComputeBalances it is zero
// up to floating-point rounding.
func (b Balances) Sum() float64 {
	var sum float64
	for _, id := range b.ids {
		sum += b.amounts[id]
	}
	return sum
}

// Settled reports whether every balance is within Epsilon of zero.
func (b Balances) Settled() bool {
	for _, id := range b.ids {
		if math.Abs(b.amounts[id]) > Epsilon {
			return false
		}
	}
	return true
}

// Apply returns a copy of b with every settlement paid: the amount is added
// to the debtor's balance and subtracted from the creditor's.
func (b Balances) Apply(settlements []models.Settlement) Balances {
	var out Balances
	for _, id := range b.ids {
		out.Set(id, b.amounts[id])
	}
	for _, s := range settlements {
		out.Add(s.From, s.Amount)
		out.Add(s.To, -s.Amount)
	}
	return out
}

// ComputeBalances reduces expenses to one net balance per participant.
//
// Algorithm:
// - Every participant starts at 0, in participant order
// - The payer's balance increases by the full amount
// - Each beneficiary's balance decreases by amount / len(SharedBy)
//
// No rounding is applied. IDs missing from participants are treated as extra
// keys, appended when first seen. An expense with no beneficiaries still
// credits its payer but its subtraction step is skipped.
//
// Results can differ in the least significant digits depending on expense order.
func ComputeBalances(participants []models.Participant, expenses []models.Expense) Balances {
	var balances Balances
	for _, p := range participants {
		balances.Set(p.ID, 0)
	}

	for _, e := range expenses {
		balances.Add(e.PaidBy, e.Amount)

		share, ok := Share(e)
		if !ok {
			slog.Warn("Expense has no beneficiaries, skipping shares",
				"expense_id", e.ID,
				"paid_by", e.PaidBy,
				"amount", e.Amount,
			)
			continue
		}
		for _, id := range e.SharedBy {
			balances.Add(id, -share)
		}
	}

	return balances
}
