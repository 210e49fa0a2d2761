package http

import (
	"net/http"
	"time"
)

type historyResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Action       string    `json:"action"`
	MedicineName string    `json:"medicine_name"`
	Dosage       string    `json:"dosage"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

type notificationResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	MedicineName string    `json:"medicine_name"`
	Dosage       string    `json:"dosage"`
	TimeOfDay    string    `json:"time_of_day,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	IsRead       bool      `json:"is_read"`
}

func (s *Server) recentHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	items := s.uc.Log.RecentHistory(r.Context(), userID)
	resp := make([]historyResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, historyResponse{
			ID:           item.ID.String(),
			Date:         item.Date,
			Time:         item.Time,
			Action:       item.Action.String(),
			MedicineName: item.MedicineName,
			Dosage:       item.Dosage,
			Message:      item.Message,
			Timestamp:    item.Timestamp,
		})
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"history": resp})
}

func (s *Server) recentNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	items := s.uc.Log.RecentNotifications(r.Context(), userID)
	resp := make([]notificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, notificationResponse{
			ID:           item.ID.String(),
			Type:         item.Type.String(),
			Message:      item.Message,
			MedicineName: item.MedicineName,
			Dosage:       item.Dosage,
			TimeOfDay:    item.TimeOfDay,
			Timestamp:    item.Timestamp,
			IsRead:       item.IsRead,
		})
	}
	s.respondJSON(w, r, http.StatusOK, map[string]any{"notifications": resp})
}
