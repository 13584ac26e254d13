package calculator

import (
	"math"

	"github.com/mmynk/quicksplit/internal/models"
)

// position tracks what is left to pay or receive for one participant.
type position struct {
	id        string
	remaining float64 // always positive
}

// ComputeSettlements matches debtors with creditors and returns the transfers
// that bring every balance within Epsilon of zero.
//
// Algorithm (greedy, not guaranteed globally minimal):
// - Creditors are balances > Epsilon, debtors are balances < -Epsilon,
// both kept in the mapping's insertion order
// - Creditors outer, debtors inner: each pair with both remainders above
// Epsilon settles min(credit, debt), and both remainders shrink in place so
// later pairs see what is left
// - Transfers at or below Epsilon are dropped
//
// The output is fully determined by the mapping and its key order.
func ComputeSettlements(balances Balances) []models.Settlement {
	var creditors, debtors []position
	for _, id := range balances.ids {
		amount := balances.amounts[id]
		switch {
		case amount > Epsilon:
			creditors = append(creditors, position{id: id, remaining: amount})
		case amount < -Epsilon:
			debtors = append(debtors, position{id: id, remaining: -amount})
		}
	}

	var settlements []models.Settlement
	for i := range creditors {
		creditor := &creditors[i]
		for j := range debtors {
			debtor := &debtors[j]
			if creditor.remaining <= Epsilon || debtor.remaining <= Epsilon {
				continue
			}

			amount := math.Min(creditor.remaining, debtor.remaining)
			settlements = append(settlements, models.Settlement{
				From:   debtor.id,
				To:     creditor.id,
				Amount: amount,
			})

			creditor.remaining -= amount
			debtor.remaining -= amount
		}
	}

	return dropTrivial(settlements)
}

// dropTrivial removes floating-point noise transfers.
func dropTrivial(settlements []models.Settlement) []models.Settlement {
	out := make([]models.Settlement, 0, len(settlements))
	for _, s := range settlements {
		if s.Amount > Epsilon {
			out = append(out, s)
		}
	}
	return out
}
