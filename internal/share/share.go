// Package share renders settlement results as a plain-text message and builds
// the sms: and mailto: links used to send it.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmynk/quicksplit/internal/calculator"
	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/money"
)

// Platform selects the sms: link flavor.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformOther   Platform = ""
)

// Options customizes the share message.
type Options struct {
	Title    string // defaults to "QuickSplit Results"
	Currency string // defaults to "$"
	Footer   string // defaults to "Calculated with QuickSplit"
}

// DefaultSubject is the email subject used when none is given.
const DefaultSubject = "QuickSplit - Expense Split Results"

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "QuickSplit Results"
	}
	if o.Currency == "" {
		o.Currency = "$"
	}
	if o.Footer == "" {
		o.Footer = "Calculated with QuickSplit"
	}
	return o
}

// Text builds the results message for split and its settlements.
func Text(split *models.Split, settlements []models.Settlement, opts Options) string {
	opts = opts.withDefaults()
	total := calculator.TotalExpenses(split.Expenses)

	var b strings.Builder
	fmt.Fprintf(&b, "💰 %s\n\n", opts.Title)
	fmt.Fprintf(&b, "Total Expenses: %s\n", money.FormatWith(opts.Currency, total))
	fmt.Fprintf(&b, "Split between: %s\n\n", strings.Join(split.Names(), ", "))

	if len(settlements) == 0 {
		b.WriteString("🎉 Everyone is even! No money needs to change hands.\n")
	} else {
		b.WriteString("💸 Who owes who:\n")
		for _, s := range settlements {
			fmt.Fprintf(&b, "• %s owes %s %s\n",
				split.PersonName(s.From),
				split.PersonName(s.To),
				money.FormatWith(opts.Currency, s.Amount),
			)
		}
	}

	fmt.Fprintf(&b, "\n%s 📱", opts.Footer)
	return b.String()
}

// SMSURL returns an sms: link with body prefilled. iOS expects "&body=".
func SMSURL(platform Platform, body string) string {
	sep := "?"
	if platform == PlatformIOS {
		sep = "&"
	}
	return "sms:" + sep + "body=" + escape(body)
}

// MailtoURL returns a mailto: link with subject and body prefilled.
func MailtoURL(subject, body string) string {
	if subject == "" {
		subject = DefaultSubject
	}
	return "mailto:?subject=" + escape(subject) + "&body=" + escape(body)
}

// escape percent-encodes s for a URI component, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
