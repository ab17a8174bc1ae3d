package server

import (
	"net/http"
	"strconv"
	"strings"

	"video-catalog/internal/catalog"
)

// filterFromQuery maps URL query parameters onto a catalog search filter.
// Absent or malformed parameters leave their filter field unset.
func filterFromQuery(r *http.Request) catalog.SearchFilter {
	q := r.URL.Query()

	filter := catalog.SearchFilter{
		Text:     q.Get("q"),
		Class:    q.Get("class"),
		Section:  q.Get("section"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Format:   q.Get("format"),
		Status:   q.Get("status"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}

	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	filter.SizeMin, _ = strconv.ParseInt(q.Get("sizeMin"), 10, 64)
	filter.SizeMax, _ = strconv.ParseInt(q.Get("sizeMax"), 10, 64)
	filter.DurationMin, _ = strconv.ParseFloat(q.Get("durationMin"), 64)
	filter.DurationMax, _ = strconv.ParseFloat(q.Get("durationMax"), 64)
	filter.VersionMin = queryInt(r, "versionMin", 0)

	if raw := q.Get("hasLocalCopy"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			filter.HasLocalCopy = &b
		}
	}
	if raw := q.Get("hasYoutubeLink"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			filter.HasYouTubeLink = &b
		}
	}

	return filter
}

// SearchVideos runs a filtered search. The response pairs the page of
// results with the total match count so clients can paginate.
func (h *Handlers) SearchVideos(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	videos, err := h.store.SearchVideos(r.Context(), filter)
	if err != nil {
		writeJSONError(w, "Search failed", http.StatusInternalServerError)
		return
	}
	total, err := h.store.CountVideos(r.Context(), filter)
	if err != nil {
		writeJSONError(w, "Search failed", http.StatusInternalServerError)
		return
	}

	if videos == nil {
		videos = []catalog.Video{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"videos": videos,
		"total":  total,
	})
}

// CountVideos returns only the match count for a filter.
func (h *Handlers) CountVideos(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.CountVideos(r.Context(), filterFromQuery(r))
	if err != nil {
		writeJSONError(w, "Count failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]int{"total": total})
}

// SearchSuggestions returns typeahead completions for a prefix.
func (h *Handlers) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 10)

	suggestions, err := h.store.GetSearchSuggestions(r.Context(), query, limit)
	if err != nil {
		writeJSONError(w, "Failed to get suggestions", http.StatusInternalServerError)
		return
	}

	if suggestions == nil {
		suggestions = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, suggestions)
}
