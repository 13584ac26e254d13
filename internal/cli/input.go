package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/money"
)

// ErrDuplicateParticipant is returned when two people in a file share an ID.
var ErrDuplicateParticipant = errors.New("duplicate participant id")

// PersonInput is a person as written in an input file. ID is optional.
type PersonInput struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

// ExpenseInput is an expense as written in an input file. PaidBy and SharedBy
// refer to people by ID or by name.
type ExpenseInput struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Amount   float64  `json:"amount" yaml:"amount" toml:"amount"`
	PaidBy   string   `json:"paid_by" yaml:"paid_by" toml:"paid_by"`
	SharedBy []string `json:"shared_by" yaml:"shared_by" toml:"shared_by"`
}

// Input is the document accepted by the settle and share commands.
type Input struct {
	Title    string         `json:"title" yaml:"title" toml:"title"`
	Currency string         `json:"currency" yaml:"currency" toml:"currency"`
	People   []PersonInput  `json:"people" yaml:"people" toml:"people"`
	Expenses []ExpenseInput `json:"expenses" yaml:"expenses" toml:"expenses"`
}

// LoadInput reads a TOML, YAML, or JSON input file, chosen by extension.
func LoadInput(path string) (*Input, error) {
	ext := strings.ToLower(filepath.Ext(path))

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing input file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading input file: %w", err)
	}

	var in Input
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported input file format: %q", ext)
	}

	return &in, nil
}

// Split validates the input and builds the split it describes. People
// without an ID get a fresh one; references are resolved by ID first and
// then by case-insensitive name.
func (in *Input) Split() (*models.Split, error) {
	split := &models.Split{}
	ids := make(map[string]bool, len(in.People))

	for i, p := range in.People {
		name, err := split.ValidateParticipant(p.Name)
		if err != nil {
			return nil, fmt.Errorf("person %d: %w", i+1, err)
		}

		id := strings.TrimSpace(p.ID)
		if id == "" {
			id = uuid.New().String()
		}
		if ids[id] {
			return nil, fmt.Errorf("person %q: %w: %s", name, ErrDuplicateParticipant, id)
		}
		ids[id] = true

		split.People = append(split.People, models.Participant{ID: id, Name: name})
	}

	for i, e := range in.Expenses {
		if math.IsInf(e.Amount, 0) || math.IsNaN(e.Amount) || e.Amount > money.MaxAmount {
			return nil, fmt.Errorf("expense %d (%s): %w: %v", i+1, strings.TrimSpace(e.Name), models.ErrInvalidExpenseAmount, e.Amount)
		}

		expense := models.Expense{
			ID:     fmt.Sprintf("e%d", i+1),
			Name:   e.Name,
			Amount: money.Round(e.Amount),
			PaidBy: resolve(split, e.PaidBy),
		}
		for _, ref := range e.SharedBy {
			expense.SharedBy = append(expense.SharedBy, resolve(split, ref))
		}

		expense, err := split.ValidateExpense(expense)
		if err != nil {
			return nil, fmt.Errorf("expense %d (%s): %w", i+1, strings.TrimSpace(e.Name), err)
		}
		split.Expenses = append(split.Expenses, expense)
	}

	if err := split.ReadyForResults(); err != nil {
		return nil, err
	}

	return split, nil
}

// resolve maps ref to a participant ID. Unresolvable references are returned
// unchanged so validation can report them.
func resolve(split *models.Split, ref string) string {
	ref = strings.TrimSpace(ref)
	if split.HasParticipant(ref) {
		return ref
	}
	for _, p := range split.People {
		if strings.EqualFold(p.Name, ref) {
			return p.ID
		}
	}
	return ref
}
