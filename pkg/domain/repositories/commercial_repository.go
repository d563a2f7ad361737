package repositories

import "github.com/vsinha/rateio/pkg/domain/entities"

// CommercialFactRepository provides access to per-load commercial facts
type CommercialFactRepository interface {
	// SaveFact stores a fact. A fact for an already known load replaces it
	// and the previous fact is reported back.
	SaveFact(fact entities.CommercialFact) (previous *entities.CommercialFact, replaced bool)
	GetFact(loadNumber entities.LoadNumber) (*entities.CommercialFact, bool)
	GetAllFacts() []*entities.CommercialFact
}
