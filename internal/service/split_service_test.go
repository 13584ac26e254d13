package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/share"
	"github.com/mmynk/quicksplit/internal/storage"
	"github.com/mmynk/quicksplit/internal/storage/sqlite"
	"github.com/mmynk/quicksplit/pkg/api"
	"github.com/mmynk/quicksplit/pkg/api/apiconnect"
)

type recordedResult struct {
	count  int
	volume float64
}

type fakeRecorder struct {
	results []recordedResult
}

func (f *fakeRecorder) ObserveSettlements(count int, volume float64) {
	f.results = append(f.results, recordedResult{count, volume})
}

// setupTestServer creates a test server with an in-memory SQLite database
func setupTestServer(t *testing.T, opts ...Option) apiconnect.SplitServiceClient {
	t.Helper()
	return serveStore(t, newTestStore(t), opts...)
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(context.Background())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// serveStore exposes a SplitService over store through an httptest server.
func serveStore(t *testing.T, store storage.Store, opts ...Option) apiconnect.SplitServiceClient {
	t.Helper()

	path, handler := apiconnect.NewSplitServiceHandler(NewSplitService(store, opts...))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewSplitServiceClient(http.DefaultClient, server.URL)
}

// slowStore delays every GetSplit so concurrent requests validate against
// the same stale snapshot.
type slowStore struct {
	storage.Store
}

func (s slowStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split, err := s.Store.GetSplit(ctx, splitID)
	time.Sleep(5 * time.Millisecond)
	return split, err
}

// newSplit creates a split with the given people and returns it.
func newSplit(t *testing.T, client apiconnect.SplitServiceClient, people ...string) api.Split {
	t.Helper()
	resp, err := client.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{People: people}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	return resp.Msg.Split
}

func addExpense(t *testing.T, client apiconnect.SplitServiceClient, req *api.AddExpenseRequest) api.Expense {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected code %v, got %v (%v)", code, got, err)
	}
}

func TestCreateSplit(t *testing.T) {
	client := setupTestServer(t)

	split := newSplit(t, client, " Alice ", "Bob")

	if split.ID == "" {
		t.Error("expected split ID to be generated")
	}
	if split.CreatedAt == 0 {
		t.Error("expected created_at to be set")
	}
	if len(split.People) != 2 {
		t.Fatalf("expected 2 people, got %d", len(split.People))
	}
	if split.People[0].Name != "Alice" || split.People[1].Name != "Bob" {
		t.Errorf("unexpected names: %+v", split.People)
	}
	if split.People[0].ID == "" || split.People[0].ID == split.People[1].ID {
		t.Errorf("expected distinct participant IDs: %+v", split.People)
	}

	got, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}
	if len(got.Msg.Split.People) != 2 {
		t.Errorf("expected 2 people after reload, got %d", len(got.Msg.Split.People))
	}
}

func TestCreateSplit_Validation(t *testing.T) {
	client := setupTestServer(t)

	_, err := client.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		People: []string{"Alice", "   "},
	}))
	wantCode(t, err, connect.CodeInvalidArgument)

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = string(rune('A' + i))
	}
	_, err = client.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{People: eleven}))
	wantCode(t, err, connect.CodeFailedPrecondition)
}

func TestGetSplit_NotFound(t *testing.T) {
	client := setupTestServer(t)

	_, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: "missing"}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestAddParticipant(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client)

	resp, err := client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{
		SplitID: split.ID,
		Name:    "  Carol  ",
	}))
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if resp.Msg.Participant.Name != "Carol" {
		t.Errorf("expected trimmed name Carol, got %q", resp.Msg.Participant.Name)
	}

	_, err = client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{
		SplitID: split.ID,
		Name:    "",
	}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{
		SplitID: "missing",
		Name:    "Dan",
	}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestAddParticipant_Limit(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")

	_, err := client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{
		SplitID: split.ID,
		Name:    "K",
	}))
	wantCode(t, err, connect.CodeFailedPrecondition)
}

func TestAddParticipant_ConcurrentLimit(t *testing.T) {
	client := serveStore(t, slowStore{newTestStore(t)})
	split := newSplit(t, client, "A", "B", "C", "D", "E", "F", "G", "H", "I")

	const callers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := client.AddParticipant(context.Background(), connect.NewRequest(&api.AddParticipantRequest{
				SplitID: split.ID,
				Name:    fmt.Sprintf("Late%d", i),
			}))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if code := connect.CodeOf(err); code != connect.CodeFailedPrecondition {
				t.Errorf("expected failed precondition, got %v (%v)", code, err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly 1 participant to be added, got %d", succeeded)
	}
	got, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}
	if n := len(got.Msg.Split.People); n != models.MaxParticipants {
		t.Errorf("expected %d people, got %d", models.MaxParticipants, n)
	}
}

func TestAddExpense_RacingRemoval(t *testing.T) {
	store := slowStore{newTestStore(t)}
	client := serveStore(t, store)
	split := newSplit(t, client, "Alice", "Bob")
	alice, bob := split.People[0].ID, split.People[1].ID

	var wg sync.WaitGroup
	var addErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, addErr = client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
			SplitID: split.ID, Name: "Cab", Amount: "10", PaidBy: alice, SharedBy: []string{alice, bob},
		}))
	}()
	// Remove Bob while AddExpense is still holding its snapshot.
	removeErr := store.RemoveParticipant(context.Background(), split.ID, bob)
	wg.Wait()

	got, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}

	// Whichever side commits first, no expense may reference a missing participant.
	for _, e := range got.Msg.Split.Expenses {
		for _, id := range append([]string{e.PaidBy}, e.SharedBy...) {
			found := false
			for _, p := range got.Msg.Split.People {
				found = found || p.ID == id
			}
			if !found {
				t.Errorf("expense %s references removed participant %s", e.ID, id)
			}
		}
	}
	if addErr == nil && removeErr == nil {
		t.Error("expected either the expense or the removal to be rejected")
	}
}

func TestRemoveParticipant(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob", "Carol")
	alice, bob, carol := split.People[0].ID, split.People[1].ID, split.People[2].ID

	addExpense(t, client, &api.AddExpenseRequest{
		SplitID:  split.ID,
		Name:     "Dinner",
		Amount:   "30",
		PaidBy:   alice,
		SharedBy: []string{alice, bob},
	})

	_, err := client.RemoveParticipant(context.Background(), connect.NewRequest(&api.RemoveParticipantRequest{
		SplitID:       split.ID,
		ParticipantID: bob,
	}))
	wantCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.RemoveParticipant(context.Background(), connect.NewRequest(&api.RemoveParticipantRequest{
		SplitID:       split.ID,
		ParticipantID: carol,
	}))
	if err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}

	got, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}
	if len(got.Msg.Split.People) != 2 {
		t.Errorf("expected 2 people, got %d", len(got.Msg.Split.People))
	}
}

func TestAddExpense(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")
	alice, bob := split.People[0].ID, split.People[1].ID

	e := addExpense(t, client, &api.AddExpenseRequest{
		SplitID:  split.ID,
		Name:     " Taxi ",
		Amount:   "12,50",
		PaidBy:   bob,
		SharedBy: []string{alice, bob, alice},
	})

	if e.ID == "" {
		t.Error("expected expense ID to be generated")
	}
	if e.Name != "Taxi" {
		t.Errorf("expected trimmed name, got %q", e.Name)
	}
	if e.Amount != 12.5 {
		t.Errorf("expected amount 12.5, got %f", e.Amount)
	}
	if len(e.SharedBy) != 2 {
		t.Errorf("expected duplicate beneficiary collapsed, got %v", e.SharedBy)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")
	alice, bob := split.People[0].ID, split.People[1].ID

	tests := []struct {
		name string
		req  api.AddExpenseRequest
		code connect.Code
	}{
		{
			name: "empty name",
			req:  api.AddExpenseRequest{Name: " ", Amount: "10", PaidBy: alice, SharedBy: []string{bob}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "zero amount",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "0", PaidBy: alice, SharedBy: []string{bob}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "garbage amount",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "ten", PaidBy: alice, SharedBy: []string{bob}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "overflowing amount",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "1e400", PaidBy: alice, SharedBy: []string{bob}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "negative amount",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "-5", PaidBy: alice, SharedBy: []string{bob}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing payer",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "5", SharedBy: []string{bob}},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "no beneficiaries",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "5", PaidBy: alice},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown beneficiary",
			req:  api.AddExpenseRequest{Name: "Tea", Amount: "5", PaidBy: alice, SharedBy: []string{"ghost"}},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.SplitID = split.ID
			_, err := client.AddExpense(context.Background(), connect.NewRequest(&req))
			wantCode(t, err, tt.code)
		})
	}
}

func TestAddExpense_OutOfRangeLeavesSplitUsable(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")
	alice, bob := split.People[0].ID, split.People[1].ID

	for _, amount := range []string{"1e400", "1e308", "1000000000.01"} {
		_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
			SplitID: split.ID, Name: "Yacht", Amount: amount, PaidBy: alice, SharedBy: []string{alice, bob},
		}))
		wantCode(t, err, connect.CodeInvalidArgument)
	}

	got, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}
	if len(got.Msg.Split.Expenses) != 0 {
		t.Fatalf("rejected expenses were stored: %+v", got.Msg.Split.Expenses)
	}

	addExpense(t, client, &api.AddExpenseRequest{
		SplitID: split.ID, Name: "Tea", Amount: "10", PaidBy: alice, SharedBy: []string{alice, bob},
	})

	if _, err := client.GetResults(context.Background(), connect.NewRequest(&api.GetResultsRequest{SplitID: split.ID})); err != nil {
		t.Errorf("GetResults failed: %v", err)
	}
	if _, err := client.ShareResults(context.Background(), connect.NewRequest(&api.ShareResultsRequest{SplitID: split.ID})); err != nil {
		t.Errorf("ShareResults failed: %v", err)
	}
}

func TestRemoveExpense(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")
	alice, bob := split.People[0].ID, split.People[1].ID

	e := addExpense(t, client, &api.AddExpenseRequest{
		SplitID: split.ID, Name: "Lunch", Amount: "20", PaidBy: alice, SharedBy: []string{alice, bob},
	})

	if _, err := client.RemoveExpense(context.Background(), connect.NewRequest(&api.RemoveExpenseRequest{
		SplitID: split.ID, ExpenseID: e.ID,
	})); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}

	_, err := client.RemoveExpense(context.Background(), connect.NewRequest(&api.RemoveExpenseRequest{
		SplitID: split.ID, ExpenseID: e.ID,
	}))
	wantCode(t, err, connect.CodeNotFound)

	// Bob no longer appears in any expense and can leave.
	if _, err := client.RemoveParticipant(context.Background(), connect.NewRequest(&api.RemoveParticipantRequest{
		SplitID: split.ID, ParticipantID: bob,
	})); err != nil {
		t.Errorf("RemoveParticipant after expense removal failed: %v", err)
	}
}

func TestGetResults(t *testing.T) {
	rec := &fakeRecorder{}
	client := setupTestServer(t, WithRecorder(rec))
	split := newSplit(t, client, "Alice", "Bob", "Carol")
	alice, bob, carol := split.People[0].ID, split.People[1].ID, split.People[2].ID

	addExpense(t, client, &api.AddExpenseRequest{
		SplitID: split.ID, Name: "Groceries", Amount: "90", PaidBy: alice,
		SharedBy: []string{alice, bob, carol},
	})
	addExpense(t, client, &api.AddExpenseRequest{
		SplitID: split.ID, Name: "Taxi", Amount: "30", PaidBy: bob,
		SharedBy: []string{bob, carol},
	})

	resp, err := client.GetResults(context.Background(), connect.NewRequest(&api.GetResultsRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}

	if resp.Msg.Total != 120 {
		t.Errorf("expected total 120, got %f", resp.Msg.Total)
	}

	// Alice +60, Bob -15, Carol -45
	wantNet := map[string]float64{alice: 60, bob: -15, carol: -45}
	if len(resp.Msg.Balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(resp.Msg.Balances))
	}
	for i, b := range resp.Msg.Balances {
		if b.ParticipantID != split.People[i].ID {
			t.Errorf("balance %d: expected %s, got %s", i, split.People[i].ID, b.ParticipantID)
		}
		if math.Abs(b.Net-wantNet[b.ParticipantID]) > 0.01 {
			t.Errorf("%s: expected net %f, got %f", b.Name, wantNet[b.ParticipantID], b.Net)
		}
	}

	want := []api.Settlement{
		{From: bob, FromName: "Bob", To: alice, ToName: "Alice", Amount: 15},
		{From: carol, FromName: "Carol", To: alice, ToName: "Alice", Amount: 45},
	}
	if len(resp.Msg.Settlements) != len(want) {
		t.Fatalf("expected %d settlements, got %+v", len(want), resp.Msg.Settlements)
	}
	for i, w := range want {
		got := resp.Msg.Settlements[i]
		if got.From != w.From || got.To != w.To || got.FromName != w.FromName || got.ToName != w.ToName {
			t.Errorf("settlement %d: expected %+v, got %+v", i, w, got)
		}
		if math.Abs(got.Amount-w.Amount) > 0.01 {
			t.Errorf("settlement %d: expected amount %f, got %f", i, w.Amount, got.Amount)
		}
	}

	if len(rec.results) != 1 {
		t.Fatalf("expected 1 recorded result, got %d", len(rec.results))
	}
	if rec.results[0].count != 2 || math.Abs(rec.results[0].volume-60) > 0.01 {
		t.Errorf("unexpected recorded result: %+v", rec.results[0])
	}
}

func TestGetResults_Empty(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")

	resp, err := client.GetResults(context.Background(), connect.NewRequest(&api.GetResultsRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}
	if resp.Msg.Total != 0 {
		t.Errorf("expected total 0, got %f", resp.Msg.Total)
	}
	if len(resp.Msg.Settlements) != 0 {
		t.Errorf("expected no settlements, got %+v", resp.Msg.Settlements)
	}
	if resp.Msg.Settlements == nil {
		t.Error("expected settlements to be an empty list, not null")
	}
}

func TestResetSplit(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")
	addExpense(t, client, &api.AddExpenseRequest{
		SplitID: split.ID, Name: "Lunch", Amount: "20",
		PaidBy: split.People[0].ID, SharedBy: []string{split.People[1].ID},
	})

	resp, err := client.ResetSplit(context.Background(), connect.NewRequest(&api.ResetSplitRequest{SplitID: split.ID}))
	if err != nil {
		t.Fatalf("ResetSplit failed: %v", err)
	}
	if resp.Msg.Split.ID != split.ID {
		t.Errorf("expected same split ID, got %s", resp.Msg.Split.ID)
	}
	if len(resp.Msg.Split.People) != 0 || len(resp.Msg.Split.Expenses) != 0 {
		t.Errorf("expected empty split after reset, got %+v", resp.Msg.Split)
	}
}

func TestDeleteSplit(t *testing.T) {
	client := setupTestServer(t)
	split := newSplit(t, client, "Alice", "Bob")

	if _, err := client.DeleteSplit(context.Background(), connect.NewRequest(&api.DeleteSplitRequest{SplitID: split.ID})); err != nil {
		t.Fatalf("DeleteSplit failed: %v", err)
	}

	_, err := client.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{SplitID: split.ID}))
	wantCode(t, err, connect.CodeNotFound)

	_, err = client.DeleteSplit(context.Background(), connect.NewRequest(&api.DeleteSplitRequest{SplitID: split.ID}))
	wantCode(t, err, connect.CodeNotFound)
}

func TestShareResults(t *testing.T) {
	client := setupTestServer(t, WithShareOptions(share.Options{Title: "Trip", Currency: "€"}))
	split := newSplit(t, client, "Alice", "Bob")

	_, err := client.ShareResults(context.Background(), connect.NewRequest(&api.ShareResultsRequest{SplitID: split.ID}))
	wantCode(t, err, connect.CodeFailedPrecondition)

	addExpense(t, client, &api.AddExpenseRequest{
		SplitID: split.ID, Name: "Dinner", Amount: "40",
		PaidBy: split.People[0].ID, SharedBy: []string{split.People[0].ID, split.People[1].ID},
	})

	resp, err := client.ShareResults(context.Background(), connect.NewRequest(&api.ShareResultsRequest{
		SplitID:  split.ID,
		Platform: "ios",
		Subject:  "Our trip",
	}))
	if err != nil {
		t.Fatalf("ShareResults failed: %v", err)
	}

	for _, want := range []string{"💰 Trip", "Total Expenses: €40.00", "Split between: Alice, Bob", "• Bob owes Alice €20.00"} {
		if !strings.Contains(resp.Msg.Text, want) {
			t.Errorf("share text missing %q:\n%s", want, resp.Msg.Text)
		}
	}
	if !strings.HasPrefix(resp.Msg.SMSURL, "sms:&body=") {
		t.Errorf("expected iOS sms link, got %q", resp.Msg.SMSURL)
	}
	if !strings.HasPrefix(resp.Msg.MailtoURL, "mailto:?subject=Our%20trip&body=") {
		t.Errorf("unexpected mailto link %q", resp.Msg.MailtoURL)
	}
}
