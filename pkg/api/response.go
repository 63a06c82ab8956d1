package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/cuemby/nurseduty/pkg/storage"
	"github.com/cuemby/nurseduty/pkg/types"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the body of successful writes
type MessageResponse struct {
	Message string `json:"message"`
}

// methods maps an HTTP method to its handler for one path
type methods map[string]http.HandlerFunc

// route registers a path whose handlers are picked by method. Other methods
// get a JSON 405 with an Allow header.
func (s *Server) route(pattern string, handlers methods) {
	allowed := make([]string, 0, len(handlers))
	for m := range handlers {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method]
		if !ok {
			w.Header().Set("Allow", allow)
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		h(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// notFoundDetail names what was missing the way clients expect to read it
func notFoundDetail(nf *storage.NotFoundError) string {
	switch nf.Collection {
	case storage.CollectionNurses:
		if nf.Scope == storage.ScopeEntry {
			return "Nurse not found"
		}
		return "Nurse roster not found"
	case storage.CollectionSettings:
		return "Settings not found"
	case storage.CollectionMonthlySchedule:
		if nf.Scope == storage.ScopeEntry {
			return "Schedule for specified month not found"
		}
		return "No monthly schedules found"
	}
	return "Not Found"
}

// writeStoreError maps a store error onto a status code and detail
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var nf *storage.NotFoundError
	var verr *types.ValidationError

	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, notFoundDetail(nf))
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not Found")
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
