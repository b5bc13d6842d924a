package server

import (
	"net/http"

	"flashdeck/pkg/domain"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	in, err := requestPayload[domain.RegisterInput](w, r, s.maxBodyBytes)()
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	user, token, err := s.app.Register(r.Context(), in)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, registerView{
		User:      user,
		tokenView: presentToken(token, s.app.SessionTTL()),
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	req, err := requestPayload[tokenRequest](w, r, s.maxBodyBytes)()
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	token, err := s.app.IssueToken(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, presentToken(token, s.app.SessionTTL()))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	token, _ := bearerToken(r)
	if err := s.app.Logout(r.Context(), token); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeData(w, http.StatusOK, user)
}
