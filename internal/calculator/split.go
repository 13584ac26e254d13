package calculator

import (
	"github.com/mmynk/quicksplit/internal/models"
)

// Share returns the equal amount each beneficiary of e owes.
// ok is false when the expense has no beneficiaries, in which case there is
// nothing to divide and callers must skip the subtraction step.
func Share(e models.Expense) (share float64, ok bool) {
	if len(e.SharedBy) == 0 {
		return 0, false
	}
	return e.Amount / float64(len(e.SharedBy)), true
}

// TotalExpenses sums the amounts of all expenses.
func TotalExpenses(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// PersonSummary is the per-participant breakdown behind a net balance.
type PersonSummary struct {
	ParticipantID string
	Paid          float64 // Total amount paid across all expenses
	Owed          float64 // Total of this person's equal shares
	Net           float64 // Positive = is owed money, Negative = owes money
}

// Summarize computes paid, owed and net totals for every participant.
// Rows follow participant order; ids referenced by expenses but missing from
// participants are appended in the order they are first seen.
func Summarize(participants []models.Participant, expenses []models.Expense) []PersonSummary {
	index := make(map[string]int, len(participants))
	var rows []PersonSummary

	row := func(id string) *PersonSummary {
		i, ok := index[id]
		if !ok {
			i = len(rows)
			index[id] = i
			rows = append(rows, PersonSummary{ParticipantID: id})
		}
		return &rows[i]
	}

	for _, p := range participants {
		row(p.ID)
	}

	for _, e := range expenses {
		row(e.PaidBy).Paid += e.Amount

		share, ok := Share(e)
		if !ok {
			continue
		}
		for _, id := range e.SharedBy {
			row(id).Owed += share
		}
	}

	for i := range rows {
		rows[i].Net = rows[i].Paid - rows[i].Owed
	}

	return rows
}
