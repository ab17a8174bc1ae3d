package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"video-catalog/internal/catalog"
)

// ActivityRequest carries the mutable fields of an activity.
type ActivityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Class       string `json:"class,omitempty"`
	Section     string `json:"section,omitempty"`
}

// ListActivities returns all activities, optionally filtered by class and
// section query parameters.
func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activities, err := h.store.GetActivitiesFiltered(r.Context(), q.Get("class"), q.Get("section"))
	if err != nil {
		writeJSONError(w, "Failed to get activities", http.StatusInternalServerError)
		return
	}

	if activities == nil {
		activities = []catalog.Activity{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, activities)
}

// CreateActivity adds a new activity.
func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	id, err := h.store.AddActivity(r.Context(), req.Name, req.Description, req.Class, req.Section)
	if errors.Is(err, catalog.ErrDuplicateName) {
		writeJSONError(w, "Activity name already exists", http.StatusConflict)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to create activity", http.StatusInternalServerError)
		return
	}

	activity, err := h.store.GetActivityByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Failed to load created activity", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, activity)
}

// GetActivity returns one activity by id.
func (h *Handlers) GetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	activity, err := h.store.GetActivityByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Activity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to get activity", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, activity)
}

// UpdateActivity replaces an activity's mutable fields.
func (h *Handlers) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateActivity(r.Context(), id, req.Name, req.Description, req.Class, req.Section)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, "Activity not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrDuplicateName):
		writeJSONError(w, "Activity name already exists", http.StatusConflict)
	case err != nil:
		writeJSONError(w, "Failed to update activity", http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "ok")
	}
}

// DeleteActivity removes an activity and, through cascade, its videos. The
// videos are enumerated first so their managed files can be released once
// the rows are gone.
func (h *Handlers) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	videos, err := h.store.GetVideosByActivity(r.Context(), id, 0, 0)
	if err != nil {
		writeJSONError(w, "Failed to load activity videos", http.StatusInternalServerError)
		return
	}

	err = h.store.DeleteActivity(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Activity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to delete activity", http.StatusInternalServerError)
		return
	}

	for i := range videos {
		h.releaseFiles(&videos[i])
	}

	writeJSONStatus(w, "ok")
}

// GetActivityVideos returns the videos of one activity, paginated.
func (h *Handlers) GetActivityVideos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	videos, err := h.store.GetVideosByActivity(r.Context(), id, limit, offset)
	if err != nil {
		writeJSONError(w, "Failed to get videos", http.StatusInternalServerError)
		return
	}

	if videos == nil {
		videos = []catalog.Video{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, videos)
}

// LinkRequest carries the fields of an external link attached to an activity.
type LinkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// GetActivityLinks returns the external links of one activity.
func (h *Handlers) GetActivityLinks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	links, err := h.store.GetActivityLinks(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Failed to get links", http.StatusInternalServerError)
		return
	}

	if links == nil {
		links = []catalog.Link{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, links)
}

// CreateActivityLink attaches an external link to an activity.
func (h *Handlers) CreateActivityLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.URL == "" {
		writeJSONError(w, "Title and url are required", http.StatusBadRequest)
		return
	}

	linkID, err := h.store.AddLink(r.Context(), id, req.Title, req.URL, req.Description)
	if err != nil {
		writeJSONError(w, "Failed to create link", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]int64{"id": linkID})
}

// DeleteLink removes one external link.
func (h *Handlers) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteLink(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Link not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to delete link", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}
