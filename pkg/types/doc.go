/*
Package types defines the documents persisted by nurseduty.

There are four documents, each stored as a single JSON value:

	nurses             {"nurses": [Nurse, ...]}
	formula_schedules  [FormulaSchedule, ...]
	settings           {} or Settings
	monthly_schedule   {"<year>": {"<month>": MonthlySchedule}}

# Nurses

The roster is seeded by the operator and records may carry any fields
(name, role, seniority, ...). A Nurse is therefore kept as its raw JSON
fields, and only id, group and active are read through accessors:

	{"id": 3, "name": "王子夙", "role": "leader", "group": 1, "active": true}

A record with no integer id is still a valid record; it just never matches
an update. Roster keeps top-level keys other than "nurses" in Roster.Extra.

NursePatch is a partial update. Only non-nil fields are applied.

# Formula Schedules

FormulaSchedule.FormulaData is opaque to the backend. Rows are stored as raw
JSON objects so numbers and nested values survive a round trip exactly.
The four conventional types are listed in FormulaTypes; other types are
accepted.

# Monthly Schedules

MonthlyScheduleItem.VacationDays and AccumulatedLeave default to 0 when the
client omits them.
*/
package types
