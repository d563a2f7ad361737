package rateio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/memory"
)

func factRepo(facts ...entities.CommercialFact) *memory.CommercialFactRepository {
	repo := memory.NewCommercialFactRepository()
	for _, fact := range facts {
		repo.SaveFact(fact)
	}
	return repo
}

func TestAggregateGroupsByCarrierAndLoad(t *testing.T) {
	facts := factRepo(
		entities.CommercialFact{LoadNumber: 100001, Price: dec("100.00"), LicensePlate: "abc-1234"},
		entities.CommercialFact{LoadNumber: 100002, Price: dec("50.00"), LicensePlate: "xyz-9876"},
	)
	records := []entities.DocumentRecord{
		record("a.xml", "1", "ACME", "TRANSLOG", 100001, "0.5"),
		record("b.xml", "2", "BETA", "TRANSLOG", 100001, "1.5"),
		record("c.xml", "3", "ACME", "RAPIDO", 100002, "1"),
	}

	carriers, stats, warnings := NewAggregator().Aggregate(records, facts)

	assert.Empty(t, warnings)
	assert.Equal(t, AggregationStats{Loads: 2, Skipped: 0}, stats)
	assert.Equal(t, []string{"RAPIDO", "TRANSLOG"}, carriers.Names())

	load := carriers["TRANSLOG"].Loads[100001]
	require.NotNil(t, load)
	assert.Equal(t, "abc-1234", load.LicensePlate)
	assert.True(t, load.TotalPrice.Equal(dec("100.00")))
	assert.True(t, load.TotalVolume.Equal(dec("2.0")))
	require.Len(t, load.Deliveries, 2)
	assert.Equal(t, "ACME", load.Deliveries[0].Client)
	assert.Equal(t, "BETA", load.Deliveries[1].Client)

	assert.Equal(t, "xyz-9876", carriers["RAPIDO"].Loads[100002].LicensePlate)
}

func TestAggregateSkipsRecordsWithoutFact(t *testing.T) {
	facts := factRepo(entities.CommercialFact{LoadNumber: 100001, Price: dec("10.00")})
	records := []entities.DocumentRecord{
		record("a.xml", "1", "ACME", "TRANSLOG", 100001, "1"),
		record("b.xml", "2", "BETA", "TRANSLOG", 999999, "1"),
		record("", "3", "GAMA", "TRANSLOG", 0, "0"),
	}

	carriers, stats, warnings := NewAggregator().Aggregate(records, facts)

	assert.Equal(t, 2, stats.Skipped)
	require.Len(t, warnings, 2)
	assert.Equal(t, "b.xml: no freight announced for load 999999, document skipped", warnings[0])
	assert.Equal(t, `invoice "3": no freight announced for load 0, document skipped`, warnings[1])
	assert.Len(t, carriers["TRANSLOG"].Loads, 1)
}

func TestAggregateSkipsNegativeVolume(t *testing.T) {
	facts := factRepo(entities.CommercialFact{LoadNumber: 1, Price: dec("10.00")})

	carriers, stats, warnings := NewAggregator().Aggregate([]entities.DocumentRecord{
		record("a.xml", "1", "ACME", "TRANSLOG", 1, "-1"),
	}, facts)

	assert.Empty(t, carriers)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "volume cannot be negative")
}

func TestAggregateWarnsWhenLoadSpansCarriers(t *testing.T) {
	facts := factRepo(entities.CommercialFact{LoadNumber: 1, Price: dec("10.00")})

	carriers, _, warnings := NewAggregator().Aggregate([]entities.DocumentRecord{
		record("a.xml", "1", "ACME", "TRANSLOG", 1, "1"),
		record("b.xml", "2", "BETA", "RAPIDO", 1, "1"),
	}, facts)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `load 1 is also handled by carrier "TRANSLOG"`)
	assert.Len(t, carriers, 2)
}
