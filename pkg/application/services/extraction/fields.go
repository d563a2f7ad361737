package extraction

// field names a slot of the temporary field map
type field string

const (
	fieldInvoice   field = "danfe"
	fieldClient    field = "to"
	fieldCarrier   field = "by"
	fieldInfo      field = "info"
	fieldQuantity  field = "quantity"
	fieldAccessKey field = "access_key"
)

var flagFields = []struct {
	flag  fieldFlags
	field field
}{
	{invoiceFlag, fieldInvoice},
	{clientFlag, fieldClient},
	{carrierFlag, fieldCarrier},
	{infoFlag, fieldInfo},
	{quantityFlag, fieldQuantity},
	{accessKeyFlag, fieldAccessKey},
}

// fieldMap holds the last text captured for each field
type fieldMap map[field]string

// matchText stores text into every field whose flag is active
func matchText(fields fieldFlags, text string, slots fieldMap) {
	for _, ff := range flagFields {
		if fields.has(ff.flag) {
			slots[ff.field] = text
		}
	}
}
