// Package cli implements the quicksplit command-line interface: it settles
// splits described in YAML, TOML, or JSON files.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/quicksplit/internal/calculator"
	"github.com/mmynk/quicksplit/internal/export"
	"github.com/mmynk/quicksplit/internal/models"
	"github.com/mmynk/quicksplit/internal/share"
	"github.com/mmynk/quicksplit/pkg/logging"
)

const (
	defaultTitle    = "QuickSplit Results"
	defaultCurrency = "$"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	version string
}

// NewCLIApp creates the CLI with all subcommands registered.
func NewCLIApp(version string) *CLIApp {
	app := &CLIApp{version: version}

	rootCmd := &cobra.Command{
		Use:           "quicksplit",
		Short:         "Split shared expenses and work out who pays whom",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logging.ParseLevel(level)))
			return nil
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "quicksplit version %s\n" .Version}}`)

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("title", "", "Title of the results (default: from file, then \""+defaultTitle+"\")")
	rootCmd.PersistentFlags().String("currency", "", "Currency symbol (default: from file, then \""+defaultCurrency+"\")")

	settleCmd := &cobra.Command{
		Use:   "settle FILE",
		Short: "Print balances and the transfers that settle them",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runSettle,
	}
	settleCmd.Flags().StringP("format", "f", "text", "Output format: text, table, json")
	settleCmd.Flags().String("pdf", "", "Also write a PDF report to this path")

	shareCmd := &cobra.Command{
		Use:   "share FILE",
		Short: "Print the shareable results message or a link to send it",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runShare,
	}
	shareCmd.Flags().String("via", "text", "Output: text, sms, email")
	shareCmd.Flags().String("platform", "", "SMS link flavor: ios, android")
	shareCmd.Flags().String("subject", share.DefaultSubject, "Email subject")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quicksplit version %s\n", app.version)
		},
	}

	rootCmd.AddCommand(settleCmd, shareCmd, versionCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// load reads the input file and resolves title and currency from flags,
// the file, and defaults in that order.
func load(cmd *cobra.Command, path string) (*models.Split, string, string, error) {
	in, err := LoadInput(path)
	if err != nil {
		return nil, "", "", err
	}

	split, err := in.Split()
	if err != nil {
		return nil, "", "", err
	}

	title, _ := cmd.Flags().GetString("title")
	currency, _ := cmd.Flags().GetString("currency")
	title = firstNonEmpty(title, in.Title, defaultTitle)
	currency = firstNonEmpty(currency, in.Currency, defaultCurrency)

	slog.Debug("Input loaded",
		"path", path,
		"people", len(split.People),
		"expenses", len(split.Expenses),
	)

	return split, title, currency, nil
}

func (app *CLIApp) runSettle(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	split, title, currency, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	report := export.NewReport(split, title, currency)
	out := cmd.OutOrStdout()

	switch format {
	case "text":
		writeText(out, report)
	case "table":
		if err := writeTables(out, report); err != nil {
			return err
		}
	case "json":
		if err := export.WriteJSON(out, report); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use text, table or json", format)
	}

	if pdfPath != "" {
		err := createFile(pdfPath, func(w io.Writer) error { return export.WritePDF(w, report) })
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), brightGreen("PDF report saved to "+pdfPath))
	}

	return nil
}

// createFile creates path and fills it with write. A partially written file is
// removed on failure.
func createFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (app *CLIApp) runShare(cmd *cobra.Command, args []string) error {
	via, _ := cmd.Flags().GetString("via")
	platform, _ := cmd.Flags().GetString("platform")
	subject, _ := cmd.Flags().GetString("subject")

	switch share.Platform(platform) {
	case share.PlatformIOS, share.PlatformAndroid, share.PlatformOther:
	default:
		return fmt.Errorf("unsupported platform %q: use ios or android", platform)
	}

	split, title, currency, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	settlements := calculator.ComputeSettlements(calculator.ComputeBalances(split.People, split.Expenses))
	text := share.Text(split, settlements, share.Options{Title: title, Currency: currency})

	out := cmd.OutOrStdout()
	switch via {
	case "text":
		fmt.Fprintln(out, text)
	case "sms":
		fmt.Fprintln(out, share.SMSURL(share.Platform(platform), text))
	case "email":
		fmt.Fprintln(out, share.MailtoURL(subject, text))
	default:
		return fmt.Errorf("unsupported share target %q: use text, sms or email", via)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
