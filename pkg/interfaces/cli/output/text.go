package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vsinha/rateio/pkg/application/dto"
	"github.com/vsinha/rateio/pkg/domain/entities"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	carrierStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// brl formats amounts the way the dispatch emails write them ("1.342,87")
var brl = message.NewPrinter(language.BrazilianPortuguese)

func money(value float64) string {
	return brl.Sprintf("%.2f", value)
}

func volume(value float64) string {
	return brl.Sprintf("%.3f", value)
}

func generateTextOutput(result *dto.RateioResult, config Config) error {
	var b bytes.Buffer
	renderText(&b, result, config.Verbose)
	return emit(config, "rateio_results.txt", b.Bytes())
}

func renderText(b *bytes.Buffer, result *dto.RateioResult, verbose bool) {
	data := result.Data()

	b.WriteString(titleStyle.Render("Rateio de frete") + "\n")
	fmt.Fprintf(b, "Documents: %d  Carriers: %d  Loads: %d  Warnings: %d\n",
		result.Documents, len(result.Carriers), result.LoadCount(), len(result.Warnings))
	if verbose {
		fmt.Fprintf(b, "Run: %s  Duration: %v\n", result.RunID, result.Duration)
	}
	b.WriteString("\n")

	for _, name := range result.Carriers.Names() {
		carrier := data.Loads[name]
		b.WriteString(carrierStyle.Render(name) + "\n")
		fmt.Fprintf(b, "Sequence: %s\n", joinLoads(carrier.Sequence))

		for _, number := range result.Carriers[name].LoadNumbers() {
			load := carrier.Loads[number]
			fmt.Fprintf(b, "\n  Load %d  plate %s  freight R$ %s  cubicage %s m3\n",
				number, load.LicensePlate, money(load.TotalPrice), volume(load.TotalCubicage))
			fmt.Fprintf(b, "  %-30s %-20s %6s %12s %14s\n", "Client", "Invoices", "Qty", "Cubicage", "Price")
			fmt.Fprintf(b, "  %-30s %-20s %6s %12s %14s\n",
				strings.Repeat("-", 30), strings.Repeat("-", 20), "------", "------------", "--------------")
			for _, delivery := range load.Deliveries {
				fmt.Fprintf(b, "  %-30s %-20s %6d %12s %14s\n",
					truncate(delivery.To, 30),
					truncate(strings.Join(delivery.Danfe, ","), 20),
					delivery.Quantity,
					volume(delivery.Cubicage),
					money(delivery.Price))
			}
		}
		b.WriteString("\n")
	}

	if verbose && len(data.Allocations) > 0 {
		b.WriteString(titleStyle.Render("Allocations") + "\n")
		for _, allocation := range data.Allocations {
			status := fmt.Sprintf("rounded %s remainder %s", money(allocation.RoundedSum), money(allocation.Remainder))
			if allocation.Skipped {
				status = "skipped, no volume"
			}
			fmt.Fprintf(b, "  %s load %d: R$ %s %s\n",
				allocation.Carrier, allocation.LoadNumber, money(allocation.TotalPrice), mutedStyle.Render(status))
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString(warningStyle.Render(fmt.Sprintf("Warnings (%d)", len(result.Warnings))) + "\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(b, "  - %s\n", warning)
		}
	}
}

func joinLoads(numbers []entities.LoadNumber) string {
	if len(numbers) == 0 {
		return "-"
	}
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " > ")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "~"
}
