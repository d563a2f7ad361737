package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/services"
)

// infoParser finds the load number and the cubicage inside the free-text
// complementary information of a document
type infoParser struct {
	loadPattern     *regexp.Regexp
	cubicagePattern *regexp.Regexp
}

func newInfoParser() *infoParser {
	return &infoParser{
		loadPattern:     regexp.MustCompile(`carga *:* *([0-9]+)`),
		cubicagePattern: regexp.MustCompile(`cubicagem *:* *([0-9]+,[0-9]+) *m3`),
	}
}

// parse returns the load number and cubicage found in info. Each missing or
// unparsable value leaves its zero value and adds a warning.
func (p *infoParser) parse(info string) (entities.LoadNumber, decimal.Decimal, []string) {
	var warnings []string
	var loadNumber entities.LoadNumber
	cubicage := decimal.Zero

	lowered := strings.ToLower(info)

	if match := p.loadPattern.FindStringSubmatch(lowered); match == nil {
		warnings = append(warnings, "no load number in complementary info")
	} else if parsed, err := strconv.ParseUint(match[1], 10, 32); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to parse load number %q: %v", match[1], err))
	} else {
		loadNumber = entities.LoadNumber(parsed)
	}

	if match := p.cubicagePattern.FindStringSubmatch(lowered); match == nil {
		warnings = append(warnings, "no cubicage in complementary info")
	} else if parsed, err := services.ParseCommaDecimal(match[1]); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to parse cubicage %q: %v", match[1], err))
	} else {
		cubicage = parsed
	}

	return loadNumber, cubicage, warnings
}
