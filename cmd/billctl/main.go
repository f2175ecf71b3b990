/*
main.go - billctl, the admin CLI for the rent billing engine

PURPOSE:
  Direct, scriptable access to the engine for operators: trigger a
  generation run for an explicit month (backfill), inspect the run audit
  trail, and compute forward estimates without touching the database.

COMMANDS:
  billctl generate --org org-1 [--month 2026-02] [--db lettings.db]
  billctl runs [--db lettings.db] [--limit 20]
  billctl estimate --pppw 100 --start 2026-01-10 [--end 2026-06-15] --month 2026-02

  generate defaults the month to the scheduler's look-ahead target (the
  month after the current one); passing --month backfills any month,
  safely, because generation is idempotent.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/lettings-engine/billing"
	"github.com/warp/lettings-engine/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "billctl",
		Short:        "Admin CLI for the rent billing engine",
		SilenceUsage: true,
	}

	root.AddCommand(generateCmd(), runsCmd(), estimateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(dbPath string) (*sqlite.Store, error) {
	if env := os.Getenv("DB_PATH"); dbPath == "lettings.db" && env != "" {
		dbPath = env
	}
	return sqlite.New(dbPath)
}

func generateCmd() *cobra.Command {
	var (
		dbPath string
		orgID  string
		month  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run rent generation for one organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgID == "" {
				return fmt.Errorf("--org is required")
			}

			target := billing.MonthOf(billing.Today()).Next()
			if month != "" {
				var err error
				if target, err = billing.ParseMonth(month); err != nil {
					return err
				}
			}

			store, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			generator := billing.NewGenerator(store)
			report := generator.Generate(context.Background(), billing.OrganizationID(orgID), target)

			fmt.Printf("target month:        %s\n", target)
			fmt.Printf("tenancies processed: %d\n", report.TenanciesProcessed)
			fmt.Printf("payments created:    %d\n", report.PaymentsCreated)
			fmt.Printf("payments skipped:    %d\n", report.PaymentsSkipped)
			fmt.Printf("failures:            %d\n", report.Failures)
			if !report.Success {
				return fmt.Errorf("run failed: %s", report.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "lettings.db", "SQLite database path")
	cmd.Flags().StringVar(&orgID, "org", "", "organization ID")
	cmd.Flags().StringVar(&month, "month", "", "target month YYYY-MM (default: next month)")
	return cmd
}

func runsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent generation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListGenerationRuns(context.Background(), limit)
			if err != nil {
				return err
			}

			for _, r := range runs {
				fmt.Printf("%s  %-10s %s  %-9s created=%d skipped=%d failures=%d",
					r.CreatedAt.Format(time.RFC3339), r.OrganizationID, r.TargetMonth,
					r.Status, r.PaymentsCreated, r.PaymentsSkipped, r.Failures)
				if r.Error != "" {
					fmt.Printf("  error=%s", r.Error)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "lettings.db", "SQLite database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to show")
	return cmd
}

func estimateCmd() *cobra.Command {
	var (
		pppw  string
		start string
		end   string
		month string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute the expected rent charge for one member and one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			rent, err := decimal.NewFromString(pppw)
			if err != nil {
				return fmt.Errorf("invalid --pppw: %w", err)
			}
			startDate, err := billing.ParseDate(start)
			if err != nil {
				return err
			}
			var endDate *billing.Date
			if end != "" {
				d, err := billing.ParseDate(end)
				if err != nil {
					return err
				}
				endDate = &d
			}
			target, err := billing.ParseMonth(month)
			if err != nil {
				return err
			}

			// Consolidation first: the charge for M0/M1 of a mid-month
			// start is the combined first payment, not a plain month.
			if billing.InConsolidationWindow(target, startDate) {
				if ob, ok := billing.ConsolidatedFirstPayment(startDate, endDate, rent); ok {
					fmt.Printf("%s due %s (covers %s to %s)\n",
						ob.Amount.StringFixed(2), ob.DueDate, ob.CoversFrom, ob.CoversTo)
					return nil
				}
				fmt.Println("no charge")
				return nil
			}

			ob, ok := billing.EstimateMonth(target, startDate, endDate, rent)
			if !ok {
				fmt.Println("no charge")
				return nil
			}
			fmt.Printf("%s due %s (covers %s to %s)\n",
				ob.Amount.StringFixed(2), ob.DueDate, ob.CoversFrom, ob.CoversTo)
			return nil
		},
	}

	cmd.Flags().StringVar(&pppw, "pppw", "", "rent per person per week (decimal)")
	cmd.Flags().StringVar(&start, "start", "", "tenancy start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "tenancy end date YYYY-MM-DD (optional)")
	cmd.Flags().StringVar(&month, "month", "", "target month YYYY-MM")

	for _, required := range []string{"pppw", "start", "month"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			log.Fatalf("marking flag required: %v", err)
		}
	}
	return cmd
}
