package repository

import "merchandising-service/internal/models"

// Saver bundles the bulk create paths of the three importable entity kinds
// behind one value, for the import wizard's save step.
type Saver struct {
	Magasins   *MagasinRepository
	Categories *CategorieRepository
	Zones      *ZoneRepository
}

func (s *Saver) SaveMagasins(magasins []*models.Magasin) (*BulkResult, error) {
	return s.Magasins.BulkCreate(magasins)
}

func (s *Saver) SaveCategories(categories []*models.Categorie) (*BulkResult, error) {
	return s.Categories.BulkCreate(categories)
}

func (s *Saver) SaveZones(zones []*models.Zone) (*BulkResult, error) {
	return s.Zones.BulkCreate(zones)
}
