package server

import (
	"net/http"
)

// GetStatistics returns catalog-wide counters and storage usage. Served
// from the store's TTL cache; pass refresh=true to force a recompute.
func (h *Handlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		h.store.ClearStatisticsCache()
	}

	stats, err := h.store.GetStatistics(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, stats)
}
