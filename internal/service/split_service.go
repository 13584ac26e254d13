package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/quicksplit/internal/calculator"
	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/money"
	"github.com/mmynk/quicksplit/internal/share"
	"github.com/mmynk/quicksplit/internal/storage"
	"github.com/mmynk/quicksplit/pkg/api"
	"github.com/mmynk/quicksplit/pkg/api/apiconnect"
)

// Ensure SplitService implements the Connect handler interface.
var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// ResultsRecorder receives one observation per settlement computation.
type ResultsRecorder interface {
	ObserveSettlements(count int, volume float64)
}

// SplitService implements the Connect SplitService
type SplitService struct {
	store    storage.Store
	recorder ResultsRecorder
	share    share.Options
}

// Option configures a SplitService.
type Option func(*SplitService)

// WithRecorder reports every results computation to rec.
func WithRecorder(rec ResultsRecorder) Option {
	return func(s *SplitService) { s.recorder = rec }
}

// WithShareOptions sets the title and currency used in share messages.
func WithShareOptions(opts share.Options) Option {
	return func(s *SplitService) { s.share = opts }
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store, opts ...Option) *SplitService {
	s := &SplitService{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSplit starts a new split, optionally with an initial list of people.
func (s *SplitService) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	slog.Info("CreateSplit request received", "people_count", len(req.Msg.People))

	split := &models.Split{}
	for _, name := range req.Msg.People {
		name, err := split.ValidateParticipant(name)
		if err != nil {
			return nil, toConnectError(err)
		}
		split.People = append(split.People, models.Participant{Name: name})
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Split created", "split_id", split.ID)

	return connect.NewResponse(&api.CreateSplitResponse{Split: toAPISplit(split)}), nil
}

// GetSplit retrieves a split by ID.
func (s *SplitService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	slog.Info("GetSplit request received", "split_id", req.Msg.SplitID)

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		slog.Error("GetSplit failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetSplitResponse{Split: toAPISplit(split)}), nil
}

// DeleteSplit discards a split.
func (s *SplitService) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	slog.Info("DeleteSplit request received", "split_id", req.Msg.SplitID)

	if err := s.store.DeleteSplit(ctx, req.Msg.SplitID); err != nil {
		slog.Error("DeleteSplit failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Split deleted", "split_id", req.Msg.SplitID)
	return connect.NewResponse(&api.DeleteSplitResponse{}), nil
}

// ResetSplit removes all people and expenses, keeping the split itself.
func (s *SplitService) ResetSplit(ctx context.Context, req *connect.Request[api.ResetSplitRequest]) (*connect.Response[api.ResetSplitResponse], error) {
	slog.Info("ResetSplit request received", "split_id", req.Msg.SplitID)

	if err := s.store.ResetSplit(ctx, req.Msg.SplitID); err != nil {
		slog.Error("ResetSplit failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ResetSplitResponse{Split: toAPISplit(split)}), nil
}

// AddParticipant adds a person to the split.
func (s *SplitService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "split_id", req.Msg.SplitID, "name", req.Msg.Name)

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, toConnectError(err)
	}

	name, err := split.ValidateParticipant(req.Msg.Name)
	if err != nil {
		slog.Warn("AddParticipant rejected", "split_id", split.ID, "error", err)
		return nil, toConnectError(err)
	}

	p := &models.Participant{Name: name}
	if err := s.store.AddParticipant(ctx, split.ID, p); err != nil {
		slog.Error("AddParticipant failed", "split_id", split.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "split_id", split.ID, "participant_id", p.ID)
	return connect.NewResponse(&api.AddParticipantResponse{Participant: toAPIParticipant(*p)}), nil
}

// RemoveParticipant removes a person no expense refers to.
func (s *SplitService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received",
		"split_id", req.Msg.SplitID,
		"participant_id", req.Msg.ParticipantID,
	)

	if err := s.store.RemoveParticipant(ctx, req.Msg.SplitID, req.Msg.ParticipantID); err != nil {
		slog.Warn("RemoveParticipant failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// AddExpense records an expense after validating it against the split.
func (s *SplitService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"split_id", req.Msg.SplitID,
		"name", req.Msg.Name,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"shared_by_count", len(req.Msg.SharedBy),
	)

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, toConnectError(err)
	}

	amount, err := money.ParseAmount(req.Msg.Amount)
	if err != nil {
		slog.Warn("AddExpense rejected", "split_id", split.ID, "error", err)
		return nil, toConnectError(fmt.Errorf("%w: %v", models.ErrInvalidExpenseAmount, err))
	}

	expense, err := split.ValidateExpense(models.Expense{
		Name:     req.Msg.Name,
		Amount:   amount,
		PaidBy:   req.Msg.PaidBy,
		SharedBy: req.Msg.SharedBy,
	})
	if err != nil {
		slog.Warn("AddExpense rejected", "split_id", split.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.AddExpense(ctx, split.ID, &expense); err != nil {
		slog.Error("AddExpense failed", "split_id", split.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "split_id", split.ID, "expense_id", expense.ID)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// RemoveExpense deletes an expense.
func (s *SplitService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "split_id", req.Msg.SplitID, "expense_id", req.Msg.ExpenseID)

	if err := s.store.RemoveExpense(ctx, req.Msg.SplitID, req.Msg.ExpenseID); err != nil {
		slog.Warn("RemoveExpense failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// GetResults recomputes balances and settlements from scratch.
func (s *SplitService) GetResults(ctx context.Context, req *connect.Request[api.GetResultsRequest]) (*connect.Response[api.GetResultsResponse], error) {
	slog.Info("GetResults request received", "split_id", req.Msg.SplitID)

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		slog.Error("GetResults failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, toConnectError(err)
	}

	settlements := s.settle(split)

	resp := &api.GetResultsResponse{
		Total:       calculator.TotalExpenses(split.Expenses),
		Balances:    make([]api.Balance, 0, len(split.People)),
		Settlements: make([]api.Settlement, 0, len(settlements)),
	}
	for _, row := range calculator.Summarize(split.People, split.Expenses) {
		resp.Balances = append(resp.Balances, api.Balance{
			ParticipantID: row.ParticipantID,
			Name:          split.PersonName(row.ParticipantID),
			Paid:          row.Paid,
			Owed:          row.Owed,
			Net:           row.Net,
		})
	}
	for _, st := range settlements {
		resp.Settlements = append(resp.Settlements, toAPISettlement(split, st))
	}

	slog.Info("GetResults successful",
		"split_id", split.ID,
		"total", resp.Total,
		"settlements_count", len(resp.Settlements),
	)

	return connect.NewResponse(resp), nil
}

// ShareResults renders the results message and the links to send it.
func (s *SplitService) ShareResults(ctx context.Context, req *connect.Request[api.ShareResultsRequest]) (*connect.Response[api.ShareResultsResponse], error) {
	slog.Info("ShareResults request received", "split_id", req.Msg.SplitID, "platform", req.Msg.Platform)

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := split.ReadyForResults(); err != nil {
		return nil, toConnectError(err)
	}

	text := share.Text(split, s.settle(split), s.share)

	return connect.NewResponse(&api.ShareResultsResponse{
		Text:      text,
		SMSURL:    share.SMSURL(share.Platform(req.Msg.Platform), text),
		MailtoURL: share.MailtoURL(req.Msg.Subject, text),
	}), nil
}

// settle runs the engine over split and records the outcome.
func (s *SplitService) settle(split *models.Split) []models.Settlement {
	balances := calculator.ComputeBalances(split.People, split.Expenses)
	settlements := calculator.ComputeSettlements(balances)

	if s.recorder != nil {
		var volume float64
		for _, st := range settlements {
			volume += st.Amount
		}
		s.recorder.ObserveSettlements(len(settlements), volume)
	}

	slog.Debug("Settlements computed",
		"split_id", split.ID,
		"participants", balances.Len(),
		"settlements", len(settlements),
	)
	return settlements
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrParticipantInUse),
		errors.Is(err, models.ErrTooManyParticipants),
		errors.Is(err, models.ErrNeedMorePeople),
		errors.Is(err, models.ErrNoExpenses):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrInvalidExpenseAmount),
		errors.Is(err, models.ErrMissingPayer),
		errors.Is(err, models.ErrEmptyBeneficiarySet),
		errors.Is(err, models.ErrUnknownParticipant):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
