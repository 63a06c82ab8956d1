package storage

import (
	"encoding/json"

	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/types"
)

// GetAllFormulas returns the stored formula schedules in stored order, or an
// empty list when the document does not exist.
func (s *DocumentStore) GetAllFormulas() (schedules []types.FormulaSchedule, err error) {
	defer s.observe(CollectionFormulas, "get_formulas", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionFormulas))
	defer unlock()

	data, found, err := s.read(string(CollectionFormulas))
	if err != nil {
		return nil, err
	}
	if !found {
		return []types.FormulaSchedule{}, nil
	}

	if err := json.Unmarshal(data, &schedules); err != nil {
		return nil, &IOError{Op: "decode", Key: string(CollectionFormulas), Err: err}
	}
	if schedules == nil {
		schedules = []types.FormulaSchedule{}
	}
	return schedules, nil
}

// ReplaceAllFormulas overwrites the document with exactly schedules. Types
// missing from schedules are dropped.
func (s *DocumentStore) ReplaceAllFormulas(schedules []types.FormulaSchedule) (err error) {
	defer s.observe(CollectionFormulas, "replace_formulas", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionFormulas))
	defer unlock()

	if schedules == nil {
		schedules = []types.FormulaSchedule{}
	}
	for i := range schedules {
		if schedules[i].FormulaData == nil {
			schedules[i].FormulaData = []types.FormulaEntry{}
		}
	}

	if err := s.write(string(CollectionFormulas), schedules); err != nil {
		return err
	}
	s.logger.Info().Int("schedules", len(schedules)).Msg("formula schedules replaced")
	s.publishSaved(CollectionFormulas, "replace_formulas")
	return nil
}
