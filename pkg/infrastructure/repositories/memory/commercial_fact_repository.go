package memory

import (
	"sort"
	"sync"

	"github.com/vsinha/rateio/pkg/domain/entities"
	"github.com/vsinha/rateio/pkg/domain/repositories"
)

// CommercialFactRepository provides in-memory commercial fact storage
type CommercialFactRepository struct {
	facts map[entities.LoadNumber]entities.CommercialFact
	mutex sync.RWMutex
}

// NewCommercialFactRepository creates a new in-memory commercial fact repository
func NewCommercialFactRepository() *CommercialFactRepository {
	return &CommercialFactRepository{
		facts: make(map[entities.LoadNumber]entities.CommercialFact),
	}
}

// Verify interface compliance
var _ repositories.CommercialFactRepository = (*CommercialFactRepository)(nil)

// SaveFact stores a fact, replacing any earlier fact for the same load
func (r *CommercialFactRepository) SaveFact(fact entities.CommercialFact) (*entities.CommercialFact, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, replaced := r.facts[fact.LoadNumber]
	r.facts[fact.LoadNumber] = fact
	if !replaced {
		return nil, false
	}
	return &previous, true
}

// GetFact returns the fact of a load
func (r *CommercialFactRepository) GetFact(loadNumber entities.LoadNumber) (*entities.CommercialFact, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	fact, exists := r.facts[loadNumber]
	if !exists {
		return nil, false
	}
	return &fact, true
}

// GetAllFacts returns every stored fact ordered by load number
func (r *CommercialFactRepository) GetAllFacts() []*entities.CommercialFact {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	facts := make([]*entities.CommercialFact, 0, len(r.facts))
	for _, fact := range r.facts {
		fact := fact
		facts = append(facts, &fact)
	}
	sort.Slice(facts, func(i, j int) bool {
		return facts[i].LoadNumber < facts[j].LoadNumber
	})
	return facts
}
