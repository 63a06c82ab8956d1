package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cuemby/nurseduty/pkg/types"
)

const maxBodyBytes = 4 << 20

// Request bodies use pointer fields so a missing field can be told apart
// from a zero value.

type nurseUpdateRequest struct {
	Group  *int  `json:"group"`
	Active *bool `json:"active"`
}

type formulaScheduleRequest struct {
	Type        *string               `json:"type"`
	FormulaData *[]types.FormulaEntry `json:"formula_data"`
}

type settingsRequest struct {
	RegularGroupCount   *int `json:"regularGroupCount"`
	PORGroupCount       *int `json:"porGroupCount"`
	LeaderGroupCount    *int `json:"leaderGroupCount"`
	SecretaryGroupCount *int `json:"secretaryGroupCount"`
}

type monthlyScheduleItemRequest struct {
	Name             *string   `json:"name"`
	Role             *string   `json:"role"`
	Group            *int      `json:"group"`
	Shifts           *[]string `json:"shifts"`
	VacationDays     *int      `json:"vacationDays"`
	AccumulatedLeave *int      `json:"accumulatedLeave"`
}

type monthlyScheduleRequest struct {
	Year     *int                          `json:"year"`
	Month    *int                          `json:"month"`
	Schedule *[]monthlyScheduleItemRequest `json:"schedule"`
}

// requestError is a decoding or validation failure with its HTTP status
type requestError struct {
	status int
	detail string
}

func (e *requestError) Error() string { return e.detail }

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, detail: fmt.Sprintf(format, args...)}
}

func unprocessable(detail string) *requestError {
	return &requestError{status: http.StatusUnprocessableEntity, detail: detail}
}

// fieldErrors collects missing fields so one reply can name all of them
type fieldErrors []string

func (f *fieldErrors) require(present bool, field string) {
	if !present {
		*f = append(*f, field+": field required")
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return unprocessable(strings.Join(f, "; "))
}

// decodeBody reads a JSON body into dst. Syntax errors are 400; a value of
// the wrong type is a validation failure, 422.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			return unprocessable(fmt.Sprintf("%s: expected %s, got %s", field, typeErr.Type, typeErr.Value))
		case errors.As(err, &maxErr):
			return &requestError{status: http.StatusRequestEntityTooLarge, detail: "Request body too large"}
		case errors.Is(err, io.EOF):
			return unprocessable("body: field required")
		default:
			return badRequest("Invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return badRequest("Invalid JSON body: trailing data")
	}
	return nil
}

func (req *nurseUpdateRequest) patch() (types.NursePatch, error) {
	var errs fieldErrors
	errs.require(req.Group != nil, "group")
	if err := errs.err(); err != nil {
		return types.NursePatch{}, err
	}
	return types.NursePatch{Group: req.Group, Active: req.Active}, nil
}

func formulaSchedules(reqs []formulaScheduleRequest) ([]types.FormulaSchedule, error) {
	var errs fieldErrors
	schedules := make([]types.FormulaSchedule, 0, len(reqs))
	for i, req := range reqs {
		errs.require(req.Type != nil, fmt.Sprintf("%d.type", i))
		errs.require(req.FormulaData != nil, fmt.Sprintf("%d.formula_data", i))
		if req.Type == nil || req.FormulaData == nil {
			continue
		}
		schedules = append(schedules, types.FormulaSchedule{
			Type:        types.FormulaType(*req.Type),
			FormulaData: *req.FormulaData,
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (req *settingsRequest) settings() (types.Settings, error) {
	var errs fieldErrors
	errs.require(req.RegularGroupCount != nil, "regularGroupCount")
	errs.require(req.PORGroupCount != nil, "porGroupCount")
	errs.require(req.LeaderGroupCount != nil, "leaderGroupCount")
	errs.require(req.SecretaryGroupCount != nil, "secretaryGroupCount")
	if err := errs.err(); err != nil {
		return types.Settings{}, err
	}
	return types.Settings{
		RegularGroupCount:   *req.RegularGroupCount,
		PORGroupCount:       *req.PORGroupCount,
		LeaderGroupCount:    *req.LeaderGroupCount,
		SecretaryGroupCount: *req.SecretaryGroupCount,
	}, nil
}

func (req *monthlyScheduleRequest) schedule() (types.MonthlySchedule, error) {
	var errs fieldErrors
	errs.require(req.Year != nil, "year")
	errs.require(req.Month != nil, "month")
	errs.require(req.Schedule != nil, "schedule")

	var items []types.MonthlyScheduleItem
	if req.Schedule != nil {
		items = make([]types.MonthlyScheduleItem, 0, len(*req.Schedule))
		for i, it := range *req.Schedule {
			prefix := fmt.Sprintf("schedule.%d.", i)
			errs.require(it.Name != nil, prefix+"name")
			errs.require(it.Role != nil, prefix+"role")
			errs.require(it.Group != nil, prefix+"group")
			errs.require(it.Shifts != nil, prefix+"shifts")
			if it.Name == nil || it.Role == nil || it.Group == nil || it.Shifts == nil {
				continue
			}

			item := types.MonthlyScheduleItem{
				Name:   *it.Name,
				Role:   *it.Role,
				Group:  *it.Group,
				Shifts: *it.Shifts,
			}
			if it.VacationDays != nil {
				item.VacationDays = *it.VacationDays
			}
			if it.AccumulatedLeave != nil {
				item.AccumulatedLeave = *it.AccumulatedLeave
			}
			items = append(items, item)
		}
	}
	if err := errs.err(); err != nil {
		return types.MonthlySchedule{}, err
	}

	s := types.MonthlySchedule{Year: *req.Year, Month: *req.Month, Schedule: items}
	s.Normalize()
	return s, nil
}
