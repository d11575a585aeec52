package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// ledgerTail is how many trailing trades the backtest report prints.
const ledgerTail = 15

// Console implements ports.Notifier on stdout.
type Console struct {
	out     io.Writer
	verbose bool
}

// NewConsole creates a console notifier. verbose adds the ledger tail to
// backtest reports.
func NewConsole(verbose bool) *Console {
	return &Console{out: os.Stdout, verbose: verbose}
}

// NewConsoleWriter creates a notifier writing to w, for tests.
func NewConsoleWriter(w io.Writer, verbose bool) *Console {
	return &Console{out: w, verbose: verbose}
}

// ReportBacktest prints the performance summary for a finished run.
func (c *Console) ReportBacktest(_ context.Context, run domain.BacktestRun) error {
	r := run.Report

	fmt.Fprintf(c.out, "\n== BACKTEST %s ==\n", run.ID[:8])
	fmt.Fprintf(c.out, "   started %s | seed %d | windows %d\n",
		run.StartedAt.Format("2006-01-02 15:04:05"), run.Seed, run.Windows)

	if r.NoTrades {
		fmt.Fprintf(c.out, "   no trades were made, nothing to evaluate\n\n")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Trades", "Initial $", "Final $", "Return %", "MaxDD %", "Sharpe", "Win %")
	table.Append(
		fmt.Sprintf("%d", r.Trades),
		fmt.Sprintf("%.2f", float64(r.InitialCapitalCents)/100),
		fmt.Sprintf("%.2f", float64(r.FinalCapitalCents)/100),
		fmt.Sprintf("%+.2f", r.TotalReturnPct),
		fmt.Sprintf("%.2f", r.MaxDrawdownPct),
		fmt.Sprintf("%.2f", r.SharpeRatio),
		fmt.Sprintf("%.1f", r.WinRatePct),
	)
	table.Render()

	if c.verbose {
		c.printLedgerTail(run.Entries)
	}
	return nil
}

// printLedgerTail prints the last trades of the run.
func (c *Console) printLedgerTail(entries []domain.TradeLedgerEntry) {
	if len(entries) == 0 {
		return
	}
	tail := entries
	if len(tail) > ledgerTail {
		tail = entries[len(entries)-ledgerTail:]
	}

	fmt.Fprintf(c.out, "\n   last %d trades:\n", len(tail))
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Side", "Qty", "Price¢", "PnL¢", "Capital $")
	for _, e := range tail {
		table.Append(
			e.Timestamp.Format("2006-01-02"),
			string(e.Side),
			fmt.Sprintf("%d", e.ContractCount),
			fmt.Sprintf("%d", e.ExecutionPriceCents),
			fmt.Sprintf("%+d", e.RealizedPnLCents),
			fmt.Sprintf("%.2f", float64(e.CapitalAfterCents)/100),
		)
	}
	table.Render()
}

// ReportLiveCycle prints the compact one-line cycle summary.
func (c *Console) ReportLiveCycle(_ context.Context, cycle domain.LiveCycleResult) error {
	fmt.Fprintf(c.out, "[%s] iter %d: %d mkts → %d decisions, %d orders, %d skipped | $%.2f\n",
		time.Now().Format("15:04:05"),
		cycle.Iteration,
		cycle.Instruments,
		cycle.Decisions,
		cycle.OrdersPlaced,
		cycle.Skipped,
		float64(cycle.CapitalCents)/100,
	)
	return nil
}
