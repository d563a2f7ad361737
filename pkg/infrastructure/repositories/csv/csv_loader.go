package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
	"github.com/vsinha/rateio/pkg/domain/services"
)

// FactsHeader is the expected header of a commercial facts file
var FactsHeader = []string{"load_number", "license_plate", "freight"}

// Loader handles loading commercial facts from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFacts loads commercial facts from a CSV file into repo
func (l *Loader) LoadFacts(filename string, repo repositories.CommercialFactRepository) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open facts file %s: %w", filename, err)
	}
	defer file.Close()

	return l.LoadFactsFrom(file, repo)
}

// LoadFactsFrom loads commercial facts from CSV content into repo. A load
// listed twice keeps its last row and produces a warning.
func (l *Loader) LoadFactsFrom(r io.Reader, repo repositories.CommercialFactRepository) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("facts CSV must have header and at least one data row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read facts CSV: %w", err)
	}
	if !validateHeader(header, FactsHeader) {
		return nil, fmt.Errorf("facts CSV header mismatch. Expected: %v, Got: %v", FactsHeader, header)
	}

	var warnings []string
	rows := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return warnings, fmt.Errorf("failed to read facts CSV: %w", err)
		}
		rows++

		fact, err := parseFact(record)
		if err != nil {
			return warnings, fmt.Errorf("facts CSV row %d: %w", line, err)
		}

		if previous, replaced := repo.SaveFact(fact); replaced {
			warnings = append(warnings, fmt.Sprintf(
				"load %d listed more than once: freight %s plate %s replaced by freight %s plate %s",
				fact.LoadNumber, previous.Price.StringFixed(services.PricePlaces), previous.LicensePlate,
				fact.Price.StringFixed(services.PricePlaces), fact.LicensePlate,
			))
		}
	}

	if rows == 0 {
		return nil, fmt.Errorf("facts CSV must have header and at least one data row")
	}
	return warnings, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseFact(record []string) (entities.CommercialFact, error) {
	loadNumber, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 32)
	if err != nil {
		return entities.CommercialFact{}, fmt.Errorf("invalid load_number: %w", err)
	}

	price, err := parsePrice(record[2])
	if err != nil {
		return entities.CommercialFact{}, err
	}

	plate := strings.ToLower(strings.TrimSpace(record[1]))
	fact, err := entities.NewCommercialFact(entities.LoadNumber(loadNumber), price, plate)
	if err != nil {
		return entities.CommercialFact{}, err
	}
	return *fact, nil
}

// parsePrice accepts both "1.342,87" and "1342.87"
func parsePrice(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ",") {
		price, err := services.ParseBRLAmount(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid freight: %w", err)
		}
		return price, nil
	}

	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid freight %q: %w", value, err)
	}
	return price, nil
}
