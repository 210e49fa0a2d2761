package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

type scheduleResponse struct {
	MedicineID string    `json:"medicine_id"`
	TimeOfDay  string    `json:"time_of_day"`
	NextFire   time.Time `json:"next_fire"`
}

func (s *Server) scheduleEntries(w http.ResponseWriter, r *http.Request) {
	if _, err := s.userID(r); err != nil {
		s.handleError(w, r, err)
		return
	}

	entries := s.sched.Entries()
	resp := make([]scheduleResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, scheduleResponse{
			MedicineID: e.MedicineID.String(),
			TimeOfDay:  e.TimeOfDay.String(),
			NextFire:   e.NextFire,
		})
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"entries": resp})
}

func (s *Server) hardwareStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	status, err := s.uc.Hardware.Status(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"status": status.String()})
}

func (s *Server) reportHardwareStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, goerr.Wrap(errInvalidRequest, "invalid request body"))
		return
	}

	status, err := s.uc.Hardware.ReportStatus(r.Context(), userID, req.Status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"status": status.String()})
}

