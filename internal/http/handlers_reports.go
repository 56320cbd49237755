package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"moneybot/internal/log"
	"moneybot/internal/report"
)

// handleGenerateReport streams the ledger export as a file download. Formats
// that cannot be rendered are served as CSV.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	requested, err := report.ParseFormat(req.ReportType)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	format := requested.Renderable()

	rep, err := s.svc.Report(r.Context(), userID(r))
	if err != nil {
		s.respondServiceError(w, r, log.OpExport, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rep); err != nil {
		s.respondServiceError(w, r, log.OpExport, err)
		return
	}

	log.FromContext(r.Context()).Fields(r.Context(), slog.LevelInfo, "Report generated",
		log.NewFields().WithOperation(log.OpExport).WithCount(len(rep.Rows)))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s", report.Filename(s.opts.Now(), format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
