// Command valuate runs the property valuation pipeline from the command line.
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/services"
	"onchain-re-lending/internal/transformers"
	"onchain-re-lending/pkg/config"
	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/opendata"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

type options struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	logLevel   string
	asJSON     bool
	withLoan   bool
}

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd(out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "valuate <address>",
		Short: "Estimate a New Taipei City property's unit price from open transaction data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, out, strings.Join(args, ""), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML); defaults apply when empty")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Override the open-data endpoint")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-request upstream timeout")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the API response body")
	cmd.Flags().BoolVar(&opts.withLoan, "loan", false, "Also print the default loan quote")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "valuate version %s\n", Version)
		},
	})

	return cmd
}

func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.baseURL != "" {
		cfg.OpenData.BaseURL = opts.baseURL
	}
	if opts.timeout > 0 {
		cfg.OpenData.Timeout = opts.timeout
	}
	return cfg, nil
}

func run(ctx context.Context, out io.Writer, address string, opts options) error {
	logger.InitLogger(os.Stderr, opts.logLevel)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	svc := services.NewValuationService(
		opendata.NewClient(cfg.OpenData.BaseURL, cfg.OpenData.UserAgent, cfg.OpenData.Timeout),
		transformers.NewAddressTransformer(),
		transformers.NewPropertyTransformer(),
	)

	result, propertyValue, err := svc.Appraise(ctx, address)
	if err != nil {
		return printError(out, err, opts.asJSON)
	}

	var loan *models.Loan
	if opts.withLoan {
		loans := services.NewLoanService(nil, nil, services.LoanTerms{
			MaxLTV:     cfg.Loan.MaxLTV,
			AnnualRate: cfg.Loan.AnnualRate,
			TermDays:   cfg.Loan.TermDays,
		})
		if amount := loans.DefaultAmount(propertyValue); amount > 0 {
			loan, err = loans.Quote(propertyValue, amount, loans.DefaultTerm())
			if err != nil {
				return printError(out, err, opts.asJSON)
			}
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if loan != nil {
			return enc.Encode(map[string]interface{}{"success": true, "data": result, "propertyValue": propertyValue, "loan": loan})
		}
		return enc.Encode(models.ValuationResponse{Success: true, Data: result})
	}

	printResult(out, result, propertyValue, loan)
	return nil
}

func printResult(out io.Writer, r *models.ValuationResult, propertyValue int64, loan *models.Loan) {
	fmt.Fprintf(out, "Address:          %s\n", r.SearchAddress)
	fmt.Fprintf(out, "Matched records:  %d\n", r.MatchCount)
	fmt.Fprintf(out, "Unit price (avg): %d\n", r.EstimatedValue)
	fmt.Fprintf(out, "Unit price range: %.0f - %.0f\n", r.PriceRange.Min, r.PriceRange.Max)
	if propertyValue > 0 {
		fmt.Fprintf(out, "Property value:   %d\n", propertyValue)
	}
	if len(r.RecentTransactions) > 0 {
		fmt.Fprintln(out, "Recent transactions:")
		for _, tx := range r.RecentTransactions {
			fmt.Fprintf(out, "  %s  %-30s  %10d/m2  %s\n", tx.TransactionDate, tx.Address, tx.PricePerSqm, tx.BuildingType)
		}
	}
	if loan != nil {
		fmt.Fprintf(out, "Default loan:     %d over %d days, interest %d, disbursed %d\n",
			loan.Amount, loan.TermDays, loan.Interest, loan.ActualAmount)
	}
}

// printError writes the same body the HTTP endpoint would send and returns a
// non-nil error so the process exits non-zero.
func printError(out io.Writer, err error, asJSON bool) error {
	appErr := errors.MapError(err)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(appErr.Body()); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprintf(out, "%s (%s, HTTP %d)\n", appErr.UserMessage, appErr.Code, appErr.HTTPStatus)
		if appErr.Suggestion != "" {
			fmt.Fprintln(out, appErr.Suggestion)
		}
	}
	return appErr
}
