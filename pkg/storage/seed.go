package storage

import (
	"github.com/cuemby/nurseduty/pkg/events"
	"github.com/cuemby/nurseduty/pkg/types"
)

// seedDefaults are written at startup for documents that do not exist yet.
// Settings deliberately start as {} so GetSettings stays NotFound until a
// client saves real values. The roster has no default.
var seedDefaults = []struct {
	collection Collection
	value      func() any
}{
	{CollectionFormulas, func() any { return types.DefaultFormulaSchedules() }},
	{CollectionSettings, func() any { return map[string]any{} }},
}

// Seed creates the storage root and writes the startup defaults for any
// seeded collection that is absent. Existing documents, even empty ones, are
// left alone. It returns the collections it created.
func (s *DocumentStore) Seed() ([]Collection, error) {
	if err := s.EnsureStorageRoot(); err != nil {
		return nil, err
	}

	var seeded []Collection
	for _, d := range seedDefaults {
		created, err := s.seedOne(d.collection, d.value)
		if err != nil {
			return seeded, err
		}
		if created {
			seeded = append(seeded, d.collection)
		}
	}

	if _, found, err := s.exists(CollectionNurses); err == nil && !found {
		s.logger.Warn().Msg("nurse roster not found; import one with 'nurseduty roster import'")
	}
	return seeded, nil
}

func (s *DocumentStore) seedOne(c Collection, value func() any) (bool, error) {
	unlock := s.lock(string(c))
	defer unlock()

	_, found, err := s.read(string(c))
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	if err := s.write(string(c), value()); err != nil {
		return false, err
	}
	s.logger.Info().Str("collection", string(c)).Msg("document seeded")
	s.publisher.Publish(&events.Event{
		Type:       events.EventDocumentSeeded,
		Collection: string(c),
		Message:    "document seeded",
	})
	return true, nil
}

func (s *DocumentStore) exists(c Collection) ([]byte, bool, error) {
	unlock := s.lock(string(c))
	defer unlock()
	return s.read(string(c))
}
