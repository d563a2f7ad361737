// Package commercial reads the per-load commercial facts (freight price and
// vehicle plate) announced in dispatch emails.
package commercial

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
	"github.com/vsinha/rateio/pkg/domain/services"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/memory"
)

// ErrInvalidPrice is returned when an announced freight price cannot be parsed
var ErrInvalidPrice = errors.New("invalid freight price")

// announcementPattern matches one load announcement of the lowercased email:
// "carga: 123456 placa: abc-1234 frete: 1.342,87"
const announcementPattern = `carga *:* *([0-9]{6}) *placa *:* *([0-9a-z]{3,4}-* *[0-9a-z]{3,4}) *frete *:* *([0-9]\.[0-9]{3},[0-9]{2})`

// Extractor finds load announcements in email text
type Extractor struct {
	pattern *regexp.Regexp
}

// NewExtractor creates a new commercial fact extractor
func NewExtractor() *Extractor {
	return &Extractor{
		pattern: regexp.MustCompile(announcementPattern),
	}
}

// Extract saves every announcement found in text into repo, in text order.
// A load announced twice keeps its last announcement and produces a warning.
func (e *Extractor) Extract(text string, repo repositories.CommercialFactRepository) ([]string, error) {
	var warnings []string

	matches := e.pattern.FindAllStringSubmatch(strings.ToLower(text), -1)
	if len(matches) == 0 {
		return []string{"no load announcement found in email text"}, nil
	}

	for _, match := range matches {
		loadText, plate, priceText := match[1], match[2], match[3]

		loadNumber, err := strconv.ParseUint(loadText, 10, 32)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to parse load number %q: %v", loadText, err))
			continue
		}

		price, err := services.ParseBRLAmount(priceText)
		if err != nil {
			return warnings, fmt.Errorf("load %s: %w: %v", loadText, ErrInvalidPrice, err)
		}

		fact, err := entities.NewCommercialFact(entities.LoadNumber(loadNumber), price, plate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping announcement of load %s: %v", loadText, err))
			continue
		}

		if previous, replaced := repo.SaveFact(*fact); replaced {
			warnings = append(warnings, fmt.Sprintf(
				"load %d announced more than once: freight %s plate %s replaced by freight %s plate %s",
				fact.LoadNumber, previous.Price.StringFixed(services.PricePlaces), previous.LicensePlate,
				fact.Price.StringFixed(services.PricePlaces), fact.LicensePlate,
			))
		}
	}

	return warnings, nil
}

// Parse extracts the commercial facts of text into a map keyed by load number
func Parse(text string) (map[entities.LoadNumber]entities.CommercialFact, []string, error) {
	repo := memory.NewCommercialFactRepository()
	warnings, err := NewExtractor().Extract(text, repo)
	if err != nil {
		return nil, warnings, err
	}

	facts := make(map[entities.LoadNumber]entities.CommercialFact)
	for _, fact := range repo.GetAllFacts() {
		facts[fact.LoadNumber] = *fact
	}
	return facts, warnings, nil
}
