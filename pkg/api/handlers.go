package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cuemby/nurseduty/pkg/export"
)

func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, reqErr.status, reqErr.detail)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, badRequest("%s: must be an integer", name)
	}
	return v, nil
}

// Nurses

func (s *Server) getNurses(w http.ResponseWriter, r *http.Request) {
	roster, err := s.store.GetRoster()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *Server) updateNurse(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	var req nurseUpdateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeRequestError(w, err)
		return
	}
	patch, err := req.patch()
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	if err := s.store.UpdateNurse(id, patch); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeMessage(w, "Nurse updated successfully")
}

func (s *Server) resetGroups(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResetAllGroups(); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeMessage(w, "All nurse groups reset to 0")
}

// Formula schedules

func (s *Server) getFormulas(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.store.GetAllFormulas()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) saveFormulas(w http.ResponseWriter, r *http.Request) {
	var req []formulaScheduleRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeRequestError(w, err)
		return
	}
	schedules, err := formulaSchedules(req)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	if err := s.store.ReplaceAllFormulas(schedules); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeMessage(w, "All formula schedules saved successfully")
}

// Settings

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeRequestError(w, err)
		return
	}
	settings, err := req.settings()
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	if err := s.store.SaveSettings(settings); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeMessage(w, "Settings saved successfully")
}

// Monthly schedules

func (s *Server) saveMonthlySchedule(w http.ResponseWriter, r *http.Request) {
	var req monthlyScheduleRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeRequestError(w, err)
		return
	}
	schedule, err := req.schedule()
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	if err := s.store.UpsertMonthlySchedule(schedule); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeMessage(w, "Monthly schedule saved successfully")
}

func (s *Server) getMonthlySchedule(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	schedule, err := s.store.GetMonthlySchedule(year, month)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *Server) exportMonthlySchedule(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	schedule, err := s.store.GetMonthlySchedule(year, month)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	data, err := export.MonthlyWorkbook(*schedule)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(year, month)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func yearMonth(r *http.Request) (int, int, error) {
	year, err := pathInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := pathInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
