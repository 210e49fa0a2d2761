package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

type medicineRequest struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description,omitempty"`
	TimeOfDay   string `json:"time_of_day,omitempty"`
	DosageForm  string `json:"dosage_form"`
	Timing      string `json:"timing,omitempty"`
}

type medicineResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Usage       string     `json:"usage"`
	Description string     `json:"description,omitempty"`
	TimeOfDay   string     `json:"time_of_day,omitempty"`
	DosageForm  string     `json:"dosage_form"`
	Timing      string     `json:"timing,omitempty"`
	NextFire    *time.Time `json:"next_fire,omitempty"`
	SyncState   string     `json:"sync_state"`
}

func (req *medicineRequest) toModel(id types.MedicineID) (*model.Medicine, error) {
	m := &model.Medicine{
		ID:          id,
		Name:        req.Name,
		Usage:       req.Usage,
		Description: req.Description,
		Form:        types.DosageForm(req.DosageForm),
		Timing:      req.Timing,
	}
	if req.TimeOfDay != "" {
		tod, err := types.ParseTimeOfDay(req.TimeOfDay)
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidTimeOfDay, err.Error())
		}
		m.TimeOfDay = &tod
	}
	return m, nil
}

func (s *Server) medicineResponse(userID types.UserID, m *model.Medicine) medicineResponse {
	resp := medicineResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Usage:       m.Usage,
		Description: m.Description,
		DosageForm:  m.Form.String(),
		Timing:      m.Timing,
		SyncState:   string(s.uc.Medicine.SyncState(userID, m.ID)),
	}
	if m.TimeOfDay != nil {
		resp.TimeOfDay = m.TimeOfDay.String()
	}
	if next, ok := s.sched.NextFire(m.ID); ok {
		resp.NextFire = &next
	}
	return resp
}

func (s *Server) listMedicines(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	medicines := s.uc.Medicine.Current(r.Context(), userID)
	resp := make([]medicineResponse, 0, len(medicines))
	for _, m := range medicines {
		resp = append(resp, s.medicineResponse(userID, m))
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"medicines": resp})
}

func (s *Server) addMedicine(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req medicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, goerr.Wrap(errInvalidRequest, "invalid request body"))
		return
	}

	m, err := req.toModel("")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	added, err := s.uc.Medicine.Add(r.Context(), userID, m)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, s.medicineResponse(userID, added))
}

func (s *Server) getMedicine(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	id := types.MedicineID(chi.URLParam(r, "medicineID"))
	m, err := s.uc.Medicine.Get(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, s.medicineResponse(userID, m))
}

func (s *Server) updateMedicine(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req medicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleError(w, r, goerr.Wrap(errInvalidRequest, "invalid request body"))
		return
	}

	id := types.MedicineID(chi.URLParam(r, "medicineID"))
	m, err := req.toModel(id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	updated, err := s.uc.Medicine.Update(r.Context(), userID, m)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, s.medicineResponse(userID, updated))
}

func (s *Server) removeMedicine(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	id := types.MedicineID(chi.URLParam(r, "medicineID"))
	if err := s.uc.Medicine.Remove(r.Context(), userID, id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sendToHardware(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	id := types.MedicineID(chi.URLParam(r, "medicineID"))
	if err := s.uc.Medicine.SendToHardware(r.Context(), userID, id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
