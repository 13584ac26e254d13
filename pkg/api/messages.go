// Package api defines the request and response messages of the
// quicksplit.v1.SplitService Connect API.
package api

// Participant is a person in a split.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Expense is a cost paid by one participant and shared equally by others.
type Expense struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Amount   float64  `json:"amount"`
	PaidBy   string   `json:"paid_by"`
	SharedBy []string `json:"shared_by"`
}

// Split is a group of participants and their expenses.
type Split struct {
	ID        string        `json:"id"`
	People    []Participant `json:"people"`
	Expenses  []Expense     `json:"expenses"`
	CreatedAt int64         `json:"created_at"`
}

// Balance is one participant's net position.
type Balance struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	Paid          float64 `json:"paid"`
	Owed          float64 `json:"owed"`
	Net           float64 `json:"net"` // Positive = is owed money, Negative = owes money
}

// Settlement is a proposed transfer from a debtor to a creditor.
type Settlement struct {
	From     string  `json:"from"`
	FromName string  `json:"from_name"`
	To       string  `json:"to"`
	ToName   string  `json:"to_name"`
	Amount   float64 `json:"amount"`
}

type CreateSplitRequest struct {
	// People are participant names to add right away, in order.
	People []string `json:"people,omitempty"`
}

type CreateSplitResponse struct {
	Split Split `json:"split"`
}

type GetSplitRequest struct {
	SplitID string `json:"split_id"`
}

type GetSplitResponse struct {
	Split Split `json:"split"`
}

type DeleteSplitRequest struct {
	SplitID string `json:"split_id"`
}

type DeleteSplitResponse struct{}

type ResetSplitRequest struct {
	SplitID string `json:"split_id"`
}

type ResetSplitResponse struct {
	Split Split `json:"split"`
}

type AddParticipantRequest struct {
	SplitID string `json:"split_id"`
	Name    string `json:"name"`
}

type AddParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	SplitID       string `json:"split_id"`
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipantResponse struct{}

type AddExpenseRequest struct {
	SplitID string `json:"split_id"`
	Name    string `json:"name"`
	// Amount is the user's input, e.g. "12.50" or "12,50".
	Amount   string   `json:"amount"`
	PaidBy   string   `json:"paid_by"`
	SharedBy []string `json:"shared_by"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	SplitID   string `json:"split_id"`
	ExpenseID string `json:"expense_id"`
}

type RemoveExpenseResponse struct{}

type GetResultsRequest struct {
	SplitID string `json:"split_id"`
}

type GetResultsResponse struct {
	Total       float64      `json:"total"`
	Balances    []Balance    `json:"balances"`
	Settlements []Settlement `json:"settlements"`
}

type ShareResultsRequest struct {
	SplitID string `json:"split_id"`
	// Platform is "ios", "android" or empty; it selects the sms: link flavor.
	Platform string `json:"platform,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

type ShareResultsResponse struct {
	Text      string `json:"text"`
	SMSURL    string `json:"sms_url"`
	MailtoURL string `json:"mailto_url"`
}
