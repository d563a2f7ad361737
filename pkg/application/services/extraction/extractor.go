package extraction

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
)

// FieldExtractor interprets the tag stream of a shipping document and
// assembles a DocumentRecord from it
type FieldExtractor struct {
	info *infoParser
}

// NewFieldExtractor creates a new field extractor
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{
		info: newInfoParser(),
	}
}

// Extract walks the stream to its end and returns the assembled record with
// the warnings raised along the way. Missing or malformed fields only produce
// warnings. A lexical error from the stream stops the walk early and the
// record is assembled from what was read so far. The returned error is
// non-nil only for text decoding failures, which must abort the run.
func (e *FieldExtractor) Extract(stream repositories.TagStream) (entities.DocumentRecord, []string, error) {
	var (
		fields    fieldFlags
		backtrack backtrackFlags
		warnings  []string
	)
	slots := make(fieldMap)

	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, repositories.ErrTextDecoding) {
				return entities.DocumentRecord{}, warnings, err
			}
			warnings = append(warnings, fmt.Sprintf("failed to read document: %v", err))
			break
		}

		switch event.Kind {
		case entities.EnterTag, entities.ExitTag:
			matchTag(event.Name, &fields, &backtrack)
		case entities.TextContent:
			if !utf8.Valid(event.Text) {
				return entities.DocumentRecord{}, warnings, fmt.Errorf("%w: text is not valid UTF-8", repositories.ErrTextDecoding)
			}
			matchText(fields, string(event.Text), slots)
		}
	}

	record, assemblyWarnings := e.assemble(slots)
	return record, append(warnings, assemblyWarnings...), nil
}

// assemble builds the record from the captured fields
func (e *FieldExtractor) assemble(slots fieldMap) (entities.DocumentRecord, []string) {
	record := entities.DocumentRecord{Volume: decimal.Zero}
	var warnings []string

	if info, ok := slots[fieldInfo]; ok {
		loadNumber, cubicage, infoWarnings := e.info.parse(info)
		record.LoadNumber = loadNumber
		record.Volume = cubicage
		warnings = append(warnings, infoWarnings...)
	} else {
		warnings = append(warnings, "no complementary info (infCpl) found")
	}

	if value, ok := slots[fieldQuantity]; ok {
		quantity, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to parse quantity %q: %v", value, err))
		} else {
			record.Quantity = entities.Quantity(quantity)
		}
	} else {
		warnings = append(warnings, "no quantity (qVol) found")
	}

	required := []struct {
		field   field
		target  *string
		missing string
	}{
		{fieldInvoice, &record.Invoice, "no invoice number (nFat) found"},
		{fieldClient, &record.Client, "no client name (dest/xNome) found"},
		{fieldCarrier, &record.Carrier, "no carrier name (transporta/xNome) found"},
		{fieldAccessKey, &record.AccessKey, "no access key (chNFe) found"},
	}
	for _, r := range required {
		value, ok := slots[r.field]
		if !ok {
			warnings = append(warnings, r.missing)
			continue
		}
		*r.target = value
	}

	return record, warnings
}
