package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"moneybot/internal/log"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.toCore()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.svc.Create(r.Context(), userID(r), tx)
	if err != nil {
		s.respondServiceError(w, r, log.OpCreate, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.List(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, r, log.OpList, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, r, log.OpSummarize, err)
		return
	}
	respondJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "transactionID")
	if err := s.svc.Delete(r.Context(), userID(r), id); err != nil {
		s.respondServiceError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
