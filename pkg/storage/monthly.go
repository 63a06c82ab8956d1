package storage

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cuemby/nurseduty/pkg/metrics"
	"github.com/cuemby/nurseduty/pkg/types"
)

// archive is the monthly_schedule document: year -> month -> schedule.
// Entries are kept raw so schedules other than the one being written are
// saved back exactly as they were read.
type archive map[string]map[string]json.RawMessage

// UpsertMonthlySchedule stores schedule under its year and month, replacing
// any schedule already there. Other months and years are left untouched.
// The month is used as a key only and is not range checked.
func (s *DocumentStore) UpsertMonthlySchedule(schedule types.MonthlySchedule) (err error) {
	defer s.observe(CollectionMonthlySchedule, "upsert_monthly_schedule", metrics.NewTimer(), &err)

	schedule.Normalize()

	unlock := s.lock(string(CollectionMonthlySchedule))
	defer unlock()

	arch, _, err := s.loadArchive()
	if err != nil {
		return err
	}

	entry, err := encodeDocument(schedule)
	if err != nil {
		return &IOError{Op: "encode", Key: string(CollectionMonthlySchedule), Err: err}
	}

	yearKey := strconv.Itoa(schedule.Year)
	monthKey := strconv.Itoa(schedule.Month)
	if arch[yearKey] == nil {
		arch[yearKey] = make(map[string]json.RawMessage)
	}
	arch[yearKey][monthKey] = entry

	if err := s.write(string(CollectionMonthlySchedule), arch); err != nil {
		return err
	}
	s.logger.Info().
		Int("year", schedule.Year).
		Int("month", schedule.Month).
		Int("items", len(schedule.Schedule)).
		Msg("monthly schedule saved")
	s.publishSaved(CollectionMonthlySchedule, "upsert_monthly_schedule")
	return nil
}

// GetMonthlySchedule returns the schedule for year and month. A missing
// archive, year or month are all NotFound; NotFoundError.Scope tells the
// missing archive apart from a missing entry.
func (s *DocumentStore) GetMonthlySchedule(year, month int) (schedule *types.MonthlySchedule, err error) {
	defer s.observe(CollectionMonthlySchedule, "get_monthly_schedule", metrics.NewTimer(), &err)

	unlock := s.lock(string(CollectionMonthlySchedule))
	defer unlock()

	arch, found, err := s.loadArchive()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, documentNotFound(CollectionMonthlySchedule)
	}

	entryKey := fmt.Sprintf("%d/%d", year, month)
	months, ok := arch[strconv.Itoa(year)]
	if !ok {
		return nil, entryNotFound(CollectionMonthlySchedule, entryKey)
	}
	raw, ok := months[strconv.Itoa(month)]
	if !ok {
		return nil, entryNotFound(CollectionMonthlySchedule, entryKey)
	}

	schedule = &types.MonthlySchedule{}
	if err := json.Unmarshal(raw, schedule); err != nil {
		return nil, &IOError{Op: "decode", Key: string(CollectionMonthlySchedule), Err: err}
	}
	return schedule, nil
}

// loadArchive reads the archive, starting from an empty one when the
// document is absent or holds an empty value.
func (s *DocumentStore) loadArchive() (archive, bool, error) {
	data, found, err := s.read(string(CollectionMonthlySchedule))
	if err != nil {
		return nil, false, err
	}
	if !found {
		return archive{}, false, nil
	}

	empty, err := isEmptyValue(data)
	if err != nil {
		return nil, true, &IOError{Op: "decode", Key: string(CollectionMonthlySchedule), Err: err}
	}
	if empty {
		return archive{}, true, nil
	}

	arch := archive{}
	if err := json.Unmarshal(data, &arch); err != nil {
		return nil, true, &IOError{Op: "decode", Key: string(CollectionMonthlySchedule), Err: err}
	}
	return arch, true, nil
}
