package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/mmynk/quicksplit/internal/export"
	"github.com/mmynk/quicksplit/internal/money"
)

// Predefined colors for consistent use
var (
	bold        = color.New(color.Bold).SprintFunc()
	brightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	brightRed   = color.New(color.FgRed, color.Bold).SprintFunc()
	brightCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

func signed(currency string, v float64) string {
	switch {
	case v > 0:
		return brightGreen("+" + money.FormatWith(currency, v))
	case v < 0:
		return brightRed("-" + money.FormatWith(currency, -v))
	default:
		return money.FormatWith(currency, 0)
	}
}

// writeText prints the report as colored plain text.
func writeText(w io.Writer, r export.Report) {
	names := make([]string, len(r.People))
	for i, p := range r.People {
		names[i] = p.Name
	}

	fmt.Fprintln(w, brightCyan(r.Title))
	fmt.Fprintf(w, "Total: %s split between %s\n\n", bold(money.FormatWith(r.Currency, r.Total)), strings.Join(names, ", "))

	fmt.Fprintln(w, bold("Balances"))
	for _, p := range r.People {
		fmt.Fprintf(w, "  %-12s paid %s, share %s, net %s\n",
			p.Name,
			money.FormatWith(r.Currency, p.Paid),
			money.FormatWith(r.Currency, p.Owed),
			signed(r.Currency, p.Net),
		)
	}
	fmt.Fprintln(w)

	if len(r.Settlements) == 0 {
		fmt.Fprintln(w, brightGreen("Everyone is even! No money needs to change hands."))
		return
	}

	fmt.Fprintln(w, bold("Settlements"))
	for _, s := range r.Settlements {
		fmt.Fprintf(w, "  %s pays %s %s\n", s.From, s.To, bold(money.FormatWith(r.Currency, s.Amount)))
	}
}

// writeTables prints the balance and settlement tables with pterm.
func writeTables(w io.Writer, r export.Report) error {
	balances := pterm.TableData{{"Person", "Paid", "Share", "Net"}}
	for _, p := range r.People {
		balances = append(balances, []string{
			p.Name,
			money.FormatWith(r.Currency, p.Paid),
			money.FormatWith(r.Currency, p.Owed),
			signed(r.Currency, p.Net),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(balances).Srender()
	if err != nil {
		return fmt.Errorf("failed to render balances: %w", err)
	}
	fmt.Fprintf(w, "%s\n%s\n", r.Title, out)

	if len(r.Settlements) == 0 {
		fmt.Fprintln(w, brightGreen("Everyone is even! No money needs to change hands."))
		return nil
	}

	transfers := pterm.TableData{{"From", "To", "Amount"}}
	for _, s := range r.Settlements {
		transfers = append(transfers, []string{s.From, s.To, money.FormatWith(r.Currency, s.Amount)})
	}

	out, err = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(transfers).Srender()
	if err != nil {
		return fmt.Errorf("failed to render settlements: %w", err)
	}
	fmt.Fprintln(w, out)
	return nil
}
