package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/usecase"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	if s.directory == nil {
		s.handleError(w, r, goerr.Wrap(usecase.ErrNoUser, "no user directory configured"))
		return
	}
	user, ok := s.directory.CurrentUser(r.Context())
	if !ok {
		s.handleError(w, r, goerr.Wrap(usecase.ErrNoUser, "no signed-in user"))
		return
	}

	s.respondJSON(w, r, http.StatusOK, userResponse{
		ID:       string(user.ID),
		Username: user.Username,
		Email:    user.Email,
	})
}
