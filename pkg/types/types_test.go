package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNurseAccessors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantID     int
		wantIDOK   bool
		wantGroup  int
		wantActive bool
	}{
		{name: "complete", input: `{"id": 3, "group": 1, "active": true}`, wantID: 3, wantIDOK: true, wantGroup: 1, wantActive: true},
		{name: "missing fields", input: `{"name": "王子夙"}`},
		{name: "null fields", input: `{"id": null, "group": null, "active": null}`},
		{name: "string id", input: `{"id": "tmp-1", "group": 2}`, wantGroup: 2},
		{name: "fractional id", input: `{"id": 3.5}`},
		{name: "string active", input: `{"id": 4, "active": "yes"}`, wantID: 4, wantIDOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Nurse
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))

			id, ok := n.ID()
			assert.Equal(t, tt.wantIDOK, ok)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantGroup, n.Group())
			assert.Equal(t, tt.wantActive, n.Active())

			out, err := json.Marshal(n)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestNewNurse(t *testing.T) {
	out, err := json.Marshal(NewNurse(7, 2, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 7, "group": 2, "active": false}`, string(out))
}

func TestNursePatchApply(t *testing.T) {
	group := 5
	active := false

	tests := []struct {
		name   string
		patch  NursePatch
		expect string
	}{
		{
			name:   "group only",
			patch:  NursePatch{Group: &group},
			expect: `{"id": 3, "name": "a", "group": 5}`,
		},
		{
			name:   "active only",
			patch:  NursePatch{Active: &active},
			expect: `{"id": 3, "name": "a", "group": 1, "active": false}`,
		},
		{
			name:   "both",
			patch:  NursePatch{Group: &group, Active: &active},
			expect: `{"id": 3, "name": "a", "group": 5, "active": false}`,
		},
		{
			name:   "empty",
			patch:  NursePatch{},
			expect: `{"id": 3, "name": "a", "group": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Nurse{}
			require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "name": "a", "group": 1}`), &n))
			tt.patch.Apply(n)

			out, err := json.Marshal(n)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expect, string(out))
		})
	}
}

func TestRosterKeepsTopLevelKeys(t *testing.T) {
	input := `{"nurses": [{"id": 1, "name": "王子夙"}], "updatedBy": "admin", "version": 3}`

	var r Roster
	require.NoError(t, json.Unmarshal([]byte(input), &r))
	require.Len(t, r.Nurses, 1)
	assert.Len(t, r.Extra, 2)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestRosterNursesShapes(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantNil    bool
		wantErr    bool
		wantOutput string
	}{
		{name: "absent", input: `{}`, wantNil: true, wantOutput: `{}`},
		{name: "null", input: `{"nurses": null}`, wantNil: true, wantOutput: `{"nurses": null}`},
		{name: "empty", input: `{"nurses": []}`, wantOutput: `{"nurses": []}`},
		{name: "not a list", input: `{"nurses": "none"}`, wantErr: true},
		{name: "not an object", input: `[]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Roster
			err := json.Unmarshal([]byte(tt.input), &r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, r.Nurses == nil)

			out, err := json.Marshal(r)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantOutput, string(out))
		})
	}
}

func TestDefaultFormulaSchedules(t *testing.T) {
	schedules := DefaultFormulaSchedules()
	require.Len(t, schedules, 4)

	out, err := json.Marshal(schedules)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type": "regular", "formula_data": []},
		{"type": "por", "formula_data": []},
		{"type": "leader", "formula_data": []},
		{"type": "secretary", "formula_data": []}
	]`, string(out))
}

func TestMonthlyScheduleDefaults(t *testing.T) {
	var s MonthlySchedule
	err := json.Unmarshal([]byte(`{"year": 2024, "month": 1, "schedule": [{"name": "A", "role": "member", "group": 2}]}`), &s)
	require.NoError(t, err)

	s.Normalize()
	assert.Equal(t, 0, s.Schedule[0].VacationDays)
	assert.Equal(t, 0, s.Schedule[0].AccumulatedLeave)
	assert.NotNil(t, s.Schedule[0].Shifts)

	empty := MonthlySchedule{Year: 2024, Month: 13}
	empty.Normalize()
	assert.NotNil(t, empty.Schedule)
}

func TestMonthlyScheduleCheckCalendarMonth(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		wantErr bool
	}{
		{name: "january", month: 1},
		{name: "december", month: 12},
		{name: "zero", month: 0, wantErr: true},
		{name: "thirteen", month: 13, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MonthlySchedule{Year: 2024, Month: tt.month}
			err := s.CheckCalendarMonth()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "month", verr.Field)
		})
	}
}
