// Package export writes settlement results as JSON or PDF documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmynk/quicksplit/internal/calculator"
	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/money"
)

// PersonLine is one participant's row in a report.
type PersonLine struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Paid float64 `json:"paid"`
	Owed float64 `json:"owed"`
	Net  float64 `json:"net"`
}

// ExpenseLine is one expense with names resolved.
type ExpenseLine struct {
	Name     string   `json:"name"`
	Amount   float64  `json:"amount"`
	PaidBy   string   `json:"paid_by"`
	SharedBy []string `json:"shared_by"`
}

// TransferLine is one settlement with names resolved.
type TransferLine struct {
	FromID string  `json:"from_id"`
	From   string  `json:"from"`
	ToID   string  `json:"to_id"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Report is the complete, presentation-ready result of a split.
type Report struct {
	Title       string         `json:"title"`
	Currency    string         `json:"currency"`
	Total       float64        `json:"total"`
	People      []PersonLine   `json:"people"`
	Expenses    []ExpenseLine  `json:"expenses"`
	Settlements []TransferLine `json:"settlements"`
}

// NewReport runs the engine over split and resolves every ID to a display name.
// Amounts are rounded to cents; the engine output itself is not.
func NewReport(split *models.Split, title, currency string) Report {
	balances := calculator.ComputeBalances(split.People, split.Expenses)
	settlements := calculator.ComputeSettlements(balances)

	r := Report{
		Title:       title,
		Currency:    currency,
		Total:       money.Round(calculator.TotalExpenses(split.Expenses)),
		People:      make([]PersonLine, 0, len(split.People)),
		Expenses:    make([]ExpenseLine, 0, len(split.Expenses)),
		Settlements: make([]TransferLine, 0, len(settlements)),
	}

	for _, row := range calculator.Summarize(split.People, split.Expenses) {
		r.People = append(r.People, PersonLine{
			ID:   row.ParticipantID,
			Name: split.PersonName(row.ParticipantID),
			Paid: money.Round(row.Paid),
			Owed: money.Round(row.Owed),
			Net:  money.Round(row.Net),
		})
	}

	for _, e := range split.Expenses {
		line := ExpenseLine{
			Name:   e.Name,
			Amount: e.Amount,
			PaidBy: split.PersonName(e.PaidBy),
		}
		for _, id := range e.SharedBy {
			line.SharedBy = append(line.SharedBy, split.PersonName(id))
		}
		r.Expenses = append(r.Expenses, line)
	}

	for _, s := range settlements {
		r.Settlements = append(r.Settlements, TransferLine{
			FromID: s.From,
			From:   split.PersonName(s.From),
			ToID:   s.To,
			To:     split.PersonName(s.To),
			Amount: money.Round(s.Amount),
		})
	}

	return r
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
