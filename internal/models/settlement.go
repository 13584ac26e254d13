package models

// Settlement is a single proposed transfer from a debtor to a creditor.
// Settlements are value results: they are recomputed on every query and never stored.
type Settlement struct {
	// From is the participant ID of the debtor who pays.
	From string `json:"from"`

	// To is the participant ID of the creditor who receives.
	To string `json:"to"`

	// Amount is the transfer amount, always greater than calculator.Epsilon.
	Amount float64 `json:"amount"`
}
