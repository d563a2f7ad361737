package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/vsinha/rateio/pkg/application/dto"
	"github.com/vsinha/rateio/pkg/domain/entities"
)

func generateCSVOutput(result *dto.RateioResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	files := []struct {
		name  string
		write func(*csv.Writer, *dto.RateioResult) error
	}{
		{"deliveries.csv", writeDeliveriesCSV},
		{"allocations.csv", writeAllocationsCSV},
		{"warnings.csv", writeWarningsCSV},
	}

	var written []string
	for _, f := range files {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := f.write(w, result); err != nil {
			return fmt.Errorf("failed to render %s: %w", f.name, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("failed to render %s: %w", f.name, err)
		}

		path, err := writeFile(config.OutputDir, f.name, buf.Bytes())
		if err != nil {
			return err
		}
		written = append(written, path)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "CSV results saved to:\n")
		for _, path := range written {
			fmt.Fprintf(config.writer(), "  %s\n", path)
		}
	}
	return nil
}

func writeDeliveriesCSV(w *csv.Writer, result *dto.RateioResult) error {
	header := []string{"carrier", "load_number", "sequence", "license_plate", "client", "invoices", "access_keys", "quantity", "cubicage", "price"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, name := range result.Carriers.Names() {
		group := result.Carriers[name]
		position := make(map[entities.LoadNumber]int, len(group.Sequence))
		for i, number := range group.Sequence {
			position[number] = i + 1
		}

		for _, number := range group.LoadNumbers() {
			load := group.Loads[number]
			sequence := ""
			if p, ok := position[number]; ok {
				sequence = strconv.Itoa(p)
			}
			for _, delivery := range load.Deliveries {
				row := []string{
					name,
					strconv.FormatUint(uint64(number), 10),
					sequence,
					load.LicensePlate,
					delivery.Client,
					strings.Join(delivery.Invoices, "|"),
					strings.Join(delivery.AccessKeys, "|"),
					strconv.FormatUint(uint64(delivery.Quantity), 10),
					delivery.Volume.String(),
					delivery.Price.StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeAllocationsCSV(w *csv.Writer, result *dto.RateioResult) error {
	if err := w.Write([]string{"carrier", "load_number", "total_price", "rounded_sum", "remainder", "skipped"}); err != nil {
		return err
	}
	for _, a := range result.Allocations {
		row := []string{
			a.Carrier,
			strconv.FormatUint(uint64(a.LoadNumber), 10),
			a.TotalPrice.StringFixed(2),
			a.RoundedSum.StringFixed(2),
			a.Remainder.StringFixed(2),
			strconv.FormatBool(a.Skipped),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeWarningsCSV(w *csv.Writer, result *dto.RateioResult) error {
	if err := w.Write([]string{"warning"}); err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		if err := w.Write([]string{warning}); err != nil {
			return err
		}
	}
	return nil
}
