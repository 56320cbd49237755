package http

import (
	"net/http"

	"moneybot/internal/log"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := s.svc.Answer(r.Context(), userID(r), req.Message)
	if err != nil {
		s.respondServiceError(w, r, log.OpAnswer, err)
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{Reply: reply.Text, Intent: reply.Intent.String()})
}
