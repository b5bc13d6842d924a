package server

import (
	"net/http"

	"flashdeck/pkg/domain"
)

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodGet:
		decks, err := s.app.ListDecks(r.Context(), user.ID)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, presentDecks(decks))
	case http.MethodPost:
		deck, err := s.app.CreateDeck(r.Context(), user.ID, requestPayload[domain.DeckInput](w, r, s.maxBodyBytes))
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, deck)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// /api/decks/{id} or /api/decks/{id}/cards
func (s *Server) handleDeckByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, sub := splitID(r.URL.Path, "/api/decks/")
	if id == "" {
		notFound(w)
		return
	}
	switch sub {
	case "":
	case "cards":
		s.handleDeckCards(w, r, user, id)
		return
	default:
		notFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		deck, err := s.app.GetDeck(r.Context(), user.ID, id)
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, deck)
	case http.MethodPatch, http.MethodPut:
		deck, err := s.app.UpdateDeck(r.Context(), user.ID, id, requestPayload[domain.DeckInput](w, r, s.maxBodyBytes))
		if err != nil {
			s.writeAppError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, deck)
	case http.MethodDelete:
		if err := s.app.DeleteDeck(r.Context(), user.ID, id); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}
