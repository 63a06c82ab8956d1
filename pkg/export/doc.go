// Package export renders stored schedules as spreadsheets.
//
// MonthlyWorkbook produces one xlsx sheet per month, named YYYY-MM, with a
// frozen header row and one row per scheduled nurse.
package export
