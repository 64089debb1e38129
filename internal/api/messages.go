package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/IlyasAtabaev731/ecofinds/internal/service"
)

type SendMessageRequest struct {
	ItemID     string `json:"item_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (s *APIServer) messagesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := s.market.Messages(r.Context(), currentUser(r).ID, mux.Vars(r)["item_id"])
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, msgs)
	}
}

func (s *APIServer) sendMessageHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		msg, err := s.market.SendMessage(r.Context(), currentUser(r), service.Outgoing{
			ItemID:     req.ItemID,
			ReceiverID: req.ReceiverID,
			Content:    req.Content,
		})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, msg)
	}
}
