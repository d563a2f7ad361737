package extraction_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rateio/pkg/application/services/extraction"
	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
	testhelpers "github.com/vsinha/rateio/pkg/infrastructure/testing"
)

func events(groups ...[]entities.TagEvent) []entities.TagEvent {
	var all []entities.TagEvent
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func wrap(name string, inner ...[]entities.TagEvent) []entities.TagEvent {
	out := []entities.TagEvent{entities.Enter(name)}
	out = append(out, events(inner...)...)
	return append(out, entities.Exit(name))
}

func completeDocument() []entities.TagEvent {
	return events(
		wrap("emit", testhelpers.Element("xNome", "EMITENTE LTDA")),
		wrap("dest", testhelpers.Element("xNome", "ACME")),
		wrap("transp",
			wrap("transporta", testhelpers.Element("xNome", "TRANSLOG")),
			wrap("vol", testhelpers.Element("qVol", "12")),
		),
		wrap("cobr", wrap("fat", testhelpers.Element("nFat", "000123"))),
		wrap("infAdic", testhelpers.Element("infCpl", "CARGA: 123456 CUBICAGEM: 0,36 M3")),
		wrap("protNFe", wrap("infProt", testhelpers.Element("chNFe", "35200114200166000187550010000001231000001230"))),
	)
}

func TestExtractCompleteDocument(t *testing.T) {
	stream := testhelpers.NewSliceStream(completeDocument()...)

	record, warnings, err := extraction.NewFieldExtractor().Extract(stream)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "000123", record.Invoice)
	assert.Equal(t, "35200114200166000187550010000001231000001230", record.AccessKey)
	assert.Equal(t, "ACME", record.Client)
	assert.Equal(t, "TRANSLOG", record.Carrier)
	assert.Equal(t, entities.Quantity(12), record.Quantity)
	assert.Equal(t, entities.LoadNumber(123456), record.LoadNumber)
	assert.Equal(t, "0.36", record.Volume.String())
}

func TestExtractIgnoresIssuerName(t *testing.T) {
	stream := testhelpers.NewSliceStream(wrap("emit", testhelpers.Element("xNome", "EMITENTE LTDA"))...)

	record, warnings, err := extraction.NewFieldExtractor().Extract(stream)
	require.NoError(t, err)
	assert.Empty(t, record.Client)
	assert.Empty(t, record.Carrier)
	assert.Contains(t, warnings, "no client name (dest/xNome) found")
	assert.Contains(t, warnings, "no carrier name (transporta/xNome) found")
}

func TestExtractLastTextWins(t *testing.T) {
	stream := testhelpers.NewSliceStream(events(
		testhelpers.Element("nFat", "1"),
		testhelpers.Element("nFat", "2"),
	)...)

	record, _, err := extraction.NewFieldExtractor().Extract(stream)
	require.NoError(t, err)
	assert.Equal(t, "2", record.Invoice)
}

func TestExtractEmptyDocument(t *testing.T) {
	record, warnings, err := extraction.NewFieldExtractor().Extract(testhelpers.NewSliceStream())
	require.NoError(t, err)
	assert.Len(t, warnings, 6)
	assert.Equal(t, entities.LoadNumber(0), record.LoadNumber)
	assert.True(t, record.Volume.IsZero())
}

func TestExtractMissingInfo(t *testing.T) {
	var filtered []entities.TagEvent
	skip := false
	for _, e := range completeDocument() {
		if e.Name == "infAdic" {
			skip = e.Kind == entities.EnterTag
			continue
		}
		if !skip {
			filtered = append(filtered, e)
		}
	}

	record, warnings, err := extraction.NewFieldExtractor().Extract(testhelpers.NewSliceStream(filtered...))
	require.NoError(t, err)
	assert.Equal(t, []string{"no complementary info (infCpl) found"}, warnings)
	assert.Equal(t, entities.LoadNumber(0), record.LoadNumber)
	assert.True(t, record.Volume.IsZero())
	assert.Equal(t, "ACME", record.Client)
}

func TestExtractBadQuantity(t *testing.T) {
	doc := completeDocument()
	for i, e := range doc {
		if e.Kind == entities.TextContent && string(e.Text) == "12" {
			doc[i] = entities.Text("doze")
		}
	}

	record, warnings, err := extraction.NewFieldExtractor().Extract(testhelpers.NewSliceStream(doc...))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `failed to parse quantity "doze"`)
	assert.Equal(t, entities.Quantity(0), record.Quantity)
}

func TestExtractStopsOnLexicalError(t *testing.T) {
	stream := testhelpers.NewSliceStream(events(
		wrap("dest", testhelpers.Element("xNome", "ACME")),
		testhelpers.Element("nFat", "77"),
	)...)
	stream.Err = errors.New("unexpected EOF")

	record, warnings, err := extraction.NewFieldExtractor().Extract(stream)
	require.NoError(t, err)
	assert.Equal(t, "ACME", record.Client)
	assert.Equal(t, "77", record.Invoice)
	require.NotEmpty(t, warnings)
	assert.Equal(t, "failed to read document: unexpected EOF", warnings[0])
}

func TestExtractDecodingErrorAborts(t *testing.T) {
	t.Run("from stream", func(t *testing.T) {
		stream := testhelpers.NewSliceStream(testhelpers.Element("nFat", "1")...)
		stream.Err = fmt.Errorf("%w: unsupported charset", repositories.ErrTextDecoding)

		_, _, err := extraction.NewFieldExtractor().Extract(stream)
		assert.ErrorIs(t, err, repositories.ErrTextDecoding)
	})

	t.Run("invalid text", func(t *testing.T) {
		stream := testhelpers.NewSliceStream(
			entities.Enter("xNome"),
			entities.TagEvent{Kind: entities.TextContent, Text: []byte{0xff, 0xfe}},
			entities.Exit("xNome"),
		)

		_, _, err := extraction.NewFieldExtractor().Extract(stream)
		assert.ErrorIs(t, err, repositories.ErrTextDecoding)
	})
}
