package storage

import (
	"encoding/json"

	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/types"
)

// GetSettings returns the saved settings. The seeded document is {}, so
// emptiness rather than existence decides NotFound: a missing document and
// an empty one are both NotFound until the first SaveSettings.
func (s *DocumentStore) GetSettings() (settings *types.Settings, err error) {
	defer s.observe(CollectionSettings, "get_settings", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionSettings))
	defer unlock()

	data, found, err := s.read(string(CollectionSettings))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, documentNotFound(CollectionSettings)
	}

	empty, err := isEmptyValue(data)
	if err != nil {
		return nil, &IOError{Op: "decode", Key: string(CollectionSettings), Err: err}
	}
	if empty {
		return nil, documentNotFound(CollectionSettings)
	}

	settings = &types.Settings{}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, &IOError{Op: "decode", Key: string(CollectionSettings), Err: err}
	}
	return settings, nil
}

// SaveSettings overwrites the settings document
func (s *DocumentStore) SaveSettings(settings types.Settings) (err error) {
	defer s.observe(CollectionSettings, "save_settings", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionSettings))
	defer unlock()

	if err := s.write(string(CollectionSettings), settings); err != nil {
		return err
	}
	s.publishSaved(CollectionSettings, "save_settings")
	return nil
}
