package money

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "12.34", want: 12.34},
		{input: "12,34", want: 12.34},
		{input: "  7 ", want: 7},
		{input: "12.345", want: 12.35},
		{input: "12.344", want: 12.34},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "+5", wantErr: true},
		{input: "0", wantErr: true},
		{input: "0.004", wantErr: true},
		{input: "1.2.3", wantErr: true},
		{input: "1e400", wantErr: true},
		{input: "1e308", wantErr: true},
		{input: "1e-99999999", wantErr: true},
		{input: "5e-3", want: 0.01},
		{input: "1000000000.01", wantErr: true},
		{input: "1000000000", want: 1e9},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error %v should wrap ErrInvalidAmount", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{amount: 50, want: "50.00"},
		{amount: 100.0 / 3, want: "33.33"},
		{amount: 200.0 / 3, want: "66.67"},
		{amount: 0.1 + 0.2, want: "0.30"},
		{amount: 0, want: "0.00"},
	}

	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}

	if got := FormatWith("$", 15); got != "$15.00" {
		t.Errorf("FormatWith() = %q, want $15.00", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(100.0 / 3); got != 33.33 {
		t.Errorf("Round(100/3) = %v, want 33.33", got)
	}
	if got := Round(12.345); got != 12.35 {
		t.Errorf("Round(12.345) = %v, want 12.35", got)
	}
}

func TestNonFinite(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{amount: math.Inf(1), want: "+Inf"},
		{amount: math.Inf(-1), want: "-Inf"},
		{amount: math.NaN(), want: "NaN"},
	}

	for _, tt := range tests {
		if got := Format(tt.amount); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.amount, got, tt.want)
		}
		if got := Round(tt.amount); !math.IsInf(got, 0) && !math.IsNaN(got) {
			t.Errorf("Round(%v) = %v, want it unchanged", tt.amount, got)
		}
	}
}
