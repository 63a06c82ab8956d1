package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Nurse is one entry of the roster, kept as the raw JSON fields it was
// stored with. Only id, group and active mean anything to nurseduty; every
// other field, and any of those three that is missing or of another type,
// is written back exactly as it was read.
type Nurse map[string]json.RawMessage

// NewNurse builds a nurse record holding only the fields nurseduty edits
func NewNurse(id, group int, active bool) Nurse {
	n := Nurse{"id": json.RawMessage(strconv.Itoa(id))}
	n.SetGroup(group)
	n.SetActive(active)
	return n
}

// ID returns the nurse's id. ok is false when the record has no integer id.
func (n Nurse) ID() (id int, ok bool) {
	raw, found := n["id"]
	if !found {
		return 0, false
	}
	if err := json.Unmarshal(raw, &id); err != nil || isNull(raw) {
		return 0, false
	}
	return id, true
}

// Group returns the nurse's group, or 0 when it is missing or not an integer
func (n Nurse) Group() int {
	var group int
	if raw, ok := n["group"]; ok {
		_ = json.Unmarshal(raw, &group)
	}
	return group
}

// Active reports whether the record holds "active": true
func (n Nurse) Active() bool {
	var active bool
	if raw, ok := n["active"]; ok {
		_ = json.Unmarshal(raw, &active)
	}
	return active
}

// SetGroup overwrites the group field
func (n Nurse) SetGroup(group int) {
	n["group"] = json.RawMessage(strconv.Itoa(group))
}

// SetActive overwrites the active field
func (n Nurse) SetActive(active bool) {
	n["active"] = json.RawMessage(strconv.FormatBool(active))
}

// Roster is the nurses document. Top-level keys other than "nurses" are
// carried in Extra. A roster without a "nurses" list leaves Nurses nil and
// is written back without one.
type Roster struct {
	Nurses []Nurse
	Extra  map[string]json.RawMessage
}

// UnmarshalJSON splits the nurses list from the other top-level keys
func (r *Roster) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Roster{}
	for key, raw := range fields {
		if key == "nurses" && !isNull(raw) {
			if err := json.Unmarshal(raw, &r.Nurses); err != nil {
				return fmt.Errorf("roster field %q: %w", key, err)
			}
			if r.Nurses == nil {
				r.Nurses = []Nurse{}
			}
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]json.RawMessage)
		}
		r.Extra[key] = raw
	}
	return nil
}

// MarshalJSON merges the nurses list back over the other top-level keys
func (r Roster) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(r.Extra)+1)
	for key, raw := range r.Extra {
		fields[key] = raw
	}
	if r.Nurses != nil {
		fields["nurses"] = r.Nurses
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// NursePatch holds the fields of a partial nurse update. Nil fields are left alone.
type NursePatch struct {
	Group  *int
	Active *bool
}

// Apply overwrites the fields present in the patch
func (p NursePatch) Apply(n Nurse) {
	if p.Group != nil {
		n.SetGroup(*p.Group)
	}
	if p.Active != nil {
		n.SetActive(*p.Active)
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// FormulaType names a formula schedule. The set is a convention, not a constraint.
type FormulaType string

const (
	FormulaRegular   FormulaType = "regular"
	FormulaPOR       FormulaType = "por"
	FormulaLeader    FormulaType = "leader"
	FormulaSecretary FormulaType = "secretary"
)

// FormulaTypes lists the conventional formula types in seeding order
var FormulaTypes = []FormulaType{
	FormulaRegular,
	FormulaPOR,
	FormulaLeader,
	FormulaSecretary,
}

// FormulaEntry is one opaque row of formula data
type FormulaEntry map[string]json.RawMessage

// FormulaSchedule is a rotation template for one staff type
type FormulaSchedule struct {
	Type        FormulaType    `json:"type"`
	FormulaData []FormulaEntry `json:"formula_data"`
}

// DefaultFormulaSchedules returns one empty schedule per conventional type
func DefaultFormulaSchedules() []FormulaSchedule {
	schedules := make([]FormulaSchedule, 0, len(FormulaTypes))
	for _, t := range FormulaTypes {
		schedules = append(schedules, FormulaSchedule{
			Type:        t,
			FormulaData: []FormulaEntry{},
		})
	}
	return schedules
}

// Settings holds the number of groups per staff type
type Settings struct {
	RegularGroupCount   int `json:"regularGroupCount"`
	PORGroupCount       int `json:"porGroupCount"`
	LeaderGroupCount    int `json:"leaderGroupCount"`
	SecretaryGroupCount int `json:"secretaryGroupCount"`
}

// MonthlyScheduleItem is one nurse's row in a monthly schedule
type MonthlyScheduleItem struct {
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Group            int      `json:"group"`
	Shifts           []string `json:"shifts"`
	VacationDays     int      `json:"vacationDays"`
	AccumulatedLeave int      `json:"accumulatedLeave"`
}

// MonthlySchedule is the published schedule for one month
type MonthlySchedule struct {
	Year     int                   `json:"year"`
	Month    int                   `json:"month"`
	Schedule []MonthlyScheduleItem `json:"schedule"`
}

// Normalize replaces nil lists with empty ones so they are stored as []
func (s *MonthlySchedule) Normalize() {
	if s.Schedule == nil {
		s.Schedule = []MonthlyScheduleItem{}
	}
	for i := range s.Schedule {
		if s.Schedule[i].Shifts == nil {
			s.Schedule[i].Shifts = []string{}
		}
	}
}

// CheckCalendarMonth reports whether Month is 1..12. Storage accepts any
// month number; only views laid out by calendar day need this.
func (s *MonthlySchedule) CheckCalendarMonth() error {
	if s.Month < 1 || s.Month > 12 {
		return &ValidationError{Field: "month", Message: fmt.Sprintf("must be between 1 and 12, got %d", s.Month)}
	}
	return nil
}

// ValidationError reports a malformed or missing request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
