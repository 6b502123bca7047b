// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgodoy/arb-scout/business/arbitrage/domain"
)

// Console styles.
var (
	colorProfit  = lipgloss.Color("#10B981")
	colorLoss    = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorHeading = lipgloss.Color("#7C3AED")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorHeading)
	profitStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorProfit)
	lossStyle    = lipgloss.NewStyle().Foreground(colorLoss)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHeading).
			Padding(0, 1)
)

// ConsoleReporter renders each cycle's analysis to a terminal.
type ConsoleReporter struct {
	out     io.Writer
	verbose bool // also print no-opportunity cycles
}

// NewConsoleReporter creates a reporter writing to stdout. With verbose
// false, quiet cycles print a single muted line.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{
		out:     os.Stdout,
		verbose: verbose,
	}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, headingStyle.Render("arb-scout"))
	fmt.Fprintln(r.out, mutedStyle.Render("scanning configured sources for price divergence"))
	return nil
}

// Report renders one analysis.
func (r *ConsoleReporter) Report(analysis *domain.Analysis) {
	if !analysis.HasOpportunity {
		if r.verbose {
			fmt.Fprintln(r.out, mutedStyle.Render(
				fmt.Sprintf("[%s] %s", analysis.GeneratedAt.Format("15:04:05"), analysis.Summary())))
		}
		return
	}

	var body string
	body += headingStyle.Render("OPPORTUNITY "+analysis.Pair) + "\n"
	body += fmt.Sprintf("Time:       %s\n", analysis.GeneratedAt.Format(time.RFC3339))
	body += fmt.Sprintf("Direction:  %s\n", analysis.Direction)
	body += fmt.Sprintf("Spread:     %.4f%%\n", analysis.PriceDiffPercent)

	if analysis.Profit != nil {
		body += fmt.Sprintf("Gross:      %s\n", analysis.Profit.Gross.StringFixed(4))
		body += fmt.Sprintf("Cost (2x):  %s\n", analysis.Profit.TotalCost.StringFixed(4))

		netLine := fmt.Sprintf("Net:        %s", analysis.Profit.Net.StringFixed(4))
		if analysis.Profit.IsProfitableAfterCost {
			body += profitStyle.Render(netLine) + "\n"
		} else {
			body += lossStyle.Render(netLine) + "\n"
			body += mutedStyle.Render("unprofitable after slippage and cost") + "\n"
		}
	}

	body += mutedStyle.Render(fmt.Sprintf("sources: %d valid of %d", analysis.ValidSources, len(analysis.Outcomes)))

	fmt.Fprintln(r.out, boxStyle.Render(body))

	for _, o := range analysis.Outcomes {
		fmt.Fprintln(r.out, mutedStyle.Render("  "+o.String()))
	}
}

// Stop prints the shutdown line.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, mutedStyle.Render("arb-scout stopped"))
	return nil
}
