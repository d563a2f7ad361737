package rateio

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rateio/pkg/domain/entities"
	testhelpers "github.com/vsinha/rateio/pkg/infrastructure/testing"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// newLoad builds a load for carrier "TRANSLOG" with one delivery per volume
func newLoad(number entities.LoadNumber, total string, volumes ...string) *entities.Load {
	load := entities.NewLoad("TRANSLOG", entities.CommercialFact{
		LoadNumber:   number,
		Price:        dec(total),
		LicensePlate: "abc-1234",
	})
	for i, volume := range volumes {
		load.AddDelivery(&entities.Delivery{
			Invoices:   []string{fmt.Sprintf("%d", 1000+i)},
			AccessKeys: []string{fmt.Sprintf("KEY%d", i)},
			Client:     fmt.Sprintf("CLIENT %d", i),
			Quantity:   1,
			Volume:     dec(volume),
			Price:      decimal.Zero,
		})
	}
	return load
}

func record(source, invoice, client, carrier string, load entities.LoadNumber, volume string) entities.DocumentRecord {
	return entities.DocumentRecord{
		Source:     source,
		Invoice:    invoice,
		AccessKey:  "KEY-" + invoice,
		Client:     client,
		Carrier:    carrier,
		Quantity:   1,
		Volume:     dec(volume),
		LoadNumber: load,
	}
}

func writeDocuments(t *testing.T, docs map[string]testhelpers.NFeDocument) string {
	t.Helper()
	dir := t.TempDir()
	for name, doc := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), testhelpers.BuildNFeXML(doc), 0o644))
	}
	return dir
}
