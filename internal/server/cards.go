package server

import (
	"net/http"

	"flashdeck/pkg/domain"
)

func (s *Server) handleDeckCards(w http.ResponseWriter, r *http.Request, user domain.User, deckID string) {
	switch r.Method {
	case http.MethodGet:
		cards, err := s.app.ListDeckCards(r.Context(), user.ID, deckID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, presentCards(cards))
	case http.MethodPost:
		card, err := s.app.CreateCard(r.Context(), user.ID, deckID, requestPayload[domain.CardInput](w, r, s.maxBodyBytes))
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, card)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// /api/cards/{id}
func (s *Server) handleCardByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, sub := splitID(r.URL.Path, "/api/cards/")
	if id == "" || sub != "" {
		notFound(w)
		return
	}
	switch r.Method {
	case http.MethodGet:
		card, err := s.app.GetCard(r.Context(), user.ID, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, card)
	case http.MethodPatch, http.MethodPut:
		card, err := s.app.UpdateCard(r.Context(), user.ID, id, requestPayload[domain.CardInput](w, r, s.maxBodyBytes))
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, card)
	case http.MethodDelete:
		if err := s.app.DeleteCard(r.Context(), user.ID, id); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}
