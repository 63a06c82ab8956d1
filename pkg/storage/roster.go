package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/types"
)

// GetRoster returns the roster as stored. Unlike the other collections the
// roster is never created by the server, so an absent document is NotFound.
// Records are not checked: a nurse without an integer id is returned as is.
func (s *DocumentStore) GetRoster() (roster *types.Roster, err error) {
	defer s.observe(CollectionNurses, "get_roster", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionNurses))
	defer unlock()

	return s.loadRoster()
}

// UpdateNurse applies patch to the first nurse with the given id and saves
// the roster. Only the patched keys of that record change. Records whose id
// is missing or not an integer never match. When no nurse matches nothing
// is written.
func (s *DocumentStore) UpdateNurse(id int, patch types.NursePatch) (err error) {
	defer s.observe(CollectionNurses, "update_nurse", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionNurses))
	defer unlock()

	roster, err := s.loadRoster()
	if err != nil {
		return err
	}

	for _, nurse := range roster.Nurses {
		if nurseID, ok := nurse.ID(); !ok || nurseID != id {
			continue
		}
		patch.Apply(nurse)
		if err := s.saveRoster(roster, "update_nurse"); err != nil {
			return err
		}
		s.logger.Info().Int("nurse_id", id).Msg("nurse updated")
		return nil
	}

	return entryNotFound(CollectionNurses, strconv.Itoa(id))
}

// ResetAllGroups sets every nurse's group to 0 and saves the roster.
// Null entries in the list are left as they are.
func (s *DocumentStore) ResetAllGroups() (err error) {
	defer s.observe(CollectionNurses, "reset_groups", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionNurses))
	defer unlock()

	roster, err := s.loadRoster()
	if err != nil {
		return err
	}

	for _, nurse := range roster.Nurses {
		if nurse != nil {
			nurse.SetGroup(0)
		}
	}
	if err := s.saveRoster(roster, "reset_groups"); err != nil {
		return err
	}
	s.logger.Info().Int("nurses", len(roster.Nurses)).Msg("all nurse groups reset")
	return nil
}

// ImportRoster writes a whole roster. This is the out-of-band seeding path
// used by the CLI; it refuses to replace an existing roster unless overwrite
// is set.
func (s *DocumentStore) ImportRoster(roster *types.Roster, overwrite bool) (err error) {
	defer s.observe(CollectionNurses, "import_roster", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionNurses))
	defer unlock()

	if !overwrite {
		_, found, err := s.read(string(CollectionNurses))
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("nurse roster already exists")
		}
	}

	if roster.Nurses == nil {
		roster.Nurses = []types.Nurse{}
	}
	return s.saveRoster(roster, "import_roster")
}

// CountNurses reports active and inactive nurses for the metrics collector
func (s *DocumentStore) CountNurses() (active, inactive int, err error) {
	roster, err := s.GetRoster()
	if err != nil {
		return 0, 0, err
	}
	active, inactive = countNurses(roster)
	return active, inactive, nil
}

func (s *DocumentStore) loadRoster() (*types.Roster, error) {
	data, found, err := s.read(string(CollectionNurses))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, documentNotFound(CollectionNurses)
	}

	var roster types.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, &IOError{Op: "decode", Key: string(CollectionNurses), Err: err}
	}
	metrics.SetRosterCounts(countNurses(&roster))
	return &roster, nil
}

func (s *DocumentStore) saveRoster(roster *types.Roster, operation string) error {
	if err := s.write(string(CollectionNurses), roster); err != nil {
		return err
	}
	metrics.SetRosterCounts(countNurses(roster))
	s.publishSaved(CollectionNurses, operation)
	return nil
}

func countNurses(roster *types.Roster) (active, inactive int) {
	for _, n := range roster.Nurses {
		if n.Active() {
			active++
		} else {
			inactive++
		}
	}
	return active, inactive
}
