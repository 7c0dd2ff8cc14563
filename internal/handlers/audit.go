package handlers

import "net/http"

// ListAuditLogs serves the newest audit entries first, paged by limit and
// offset query params.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50)
	offset := parseQueryInt(r, "offset", 0)
	if limit <= 0 || limit > 200 || offset < 0 {
		respondError(w, http.StatusBadRequest, "invalid limit or offset")
		return
	}
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
