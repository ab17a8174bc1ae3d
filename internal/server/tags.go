package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"video-catalog/internal/catalog"
)

// TagRequest names a tag to create.
type TagRequest struct {
	Name string `json:"name"`
}

// TagsRequest carries a full replacement tag set for a video.
type TagsRequest struct {
	Tags []string `json:"tags"`
}

// GetAllTags returns all tags.
func (h *Handlers) GetAllTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.GetAllTags(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to get tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []catalog.Tag{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, tags)
}

// CreateTag creates a tag if it does not already exist and returns it
// either way.
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	tag, err := h.store.GetOrCreateTag(r.Context(), req.Name)
	if err != nil {
		writeJSONError(w, "Failed to create tag", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, tag)
}

// DeleteTag removes a tag and its video associations.
func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteTag(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Tag not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to delete tag", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// GetVideoTags returns the tags assigned to one video.
func (h *Handlers) GetVideoTags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tags, err := h.store.GetVideoTags(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Failed to get tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []catalog.Tag{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, tags)
}

// SetVideoTags replaces a video's tag set. An empty list clears it.
func (h *Handlers) SetVideoTags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req TagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.AssignTagsToVideo(r.Context(), id, req.Tags); err != nil {
		writeJSONError(w, "Failed to set tags", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// GetVideosByTags returns videos carrying any of the named tags. Tags come
// as a comma separated query parameter.
func (h *Handlers) GetVideosByTags(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	if raw == "" {
		writeJSONError(w, "Tags parameter is required", http.StatusBadRequest)
		return
	}

	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	videos, err := h.store.GetVideosByTags(r.Context(), names)
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
