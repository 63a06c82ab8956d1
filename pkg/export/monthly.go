package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cuemby/nurseduty/pkg/types"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName returns the sheet name used for a month, e.g. "2024-03"
func SheetName(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// FileName returns the suggested download name for a month's workbook
func FileName(year, month int) string {
	return "schedule-" + SheetName(year, month) + ".xlsx"
}

// DaysIn returns the number of days in month
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyHeader returns the header row for a sheet with days day columns
func MonthlyHeader(days int) []string {
	header := make([]string, 0, days+5)
	header = append(header, "Name", "Role", "Group")
	for d := 1; d <= days; d++ {
		header = append(header, fmt.Sprintf("%d", d))
	}
	return append(header, "Vacation Days", "Accumulated Leave")
}

// MonthlyWorkbook renders a monthly schedule as an xlsx workbook with one
// sheet. Shifts are laid out by day index; a row with more shifts than the
// month has days widens the sheet rather than losing them.
func MonthlyWorkbook(s types.MonthlySchedule) ([]byte, error) {
	if err := s.CheckCalendarMonth(); err != nil {
		return nil, err
	}
	s.Normalize()

	days := DaysIn(s.Year, s.Month)
	for _, item := range s.Schedule {
		if len(item.Shifts) > days {
			days = len(item.Shifts)
		}
	}
	header := MonthlyHeader(days)

	f := excelize.NewFile()
	sheet := SheetName(s.Year, s.Month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, item := range s.Schedule {
		row := make([]interface{}, len(header))
		row[0] = item.Name
		row[1] = item.Role
		row[2] = item.Group
		for d, shift := range item.Shifts {
			row[3+d] = shift
		}
		row[3+days] = item.VacationDays
		row[4+days] = item.AccumulatedLeave

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 16); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	firstDay, _ := excelize.ColumnNumberToName(4)
	lastDay, _ := excelize.ColumnNumberToName(3 + days)
	if err := f.SetColWidth(sheet, firstDay, lastDay, 4); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	// the file must stay open until it has been written out
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
