package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"video-catalog/internal/catalog"
)

// CollectionRequest carries the mutable fields of a collection.
type CollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ListCollections returns all collections with member counts and
// aggregated tags.
func (h *Handlers) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.GetAllCollections(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to get collections", http.StatusInternalServerError)
		return
	}

	if collections == nil {
		collections = []catalog.Collection{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, collections)
}

// CreateCollection adds a new collection.
func (h *Handlers) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	id, err := h.store.AddCollection(r.Context(), req.Name, req.Description, req.Color)
	if errors.Is(err, catalog.ErrDuplicateName) {
		writeJSONError(w, "Collection name already exists", http.StatusConflict)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to create collection", http.StatusInternalServerError)
		return
	}

	collection, err := h.store.GetCollectionByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Failed to load created collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, collection)
}

// GetCollection returns one collection by id.
func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	collection, err := h.store.GetCollectionByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Collection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to get collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, collection)
}

// UpdateCollection replaces a collection's mutable fields.
func (h *Handlers) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateCollection(r.Context(), id, req.Name, req.Description, req.Color)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, "Collection not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrDuplicateName):
		writeJSONError(w, "Collection name already exists", http.StatusConflict)
	case err != nil:
		writeJSONError(w, "Failed to update collection", http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "ok")
	}
}

// DeleteCollection removes a collection. Member videos are untouched.
func (h *Handlers) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteCollection(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Collection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to delete collection", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// GetCollectionVideos returns a collection's members, most recently added
// first.
func (h *Handlers) GetCollectionVideos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	videos, err := h.store.GetCollectionVideos(r.Context(), id)
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

// AddVideoToCollection adds one video to a collection.
func (h *Handlers) AddVideoToCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	err := h.store.AddVideoToCollection(r.Context(), collectionID, videoID)
	if errors.Is(err, catalog.ErrDuplicateName) {
		writeJSONError(w, "Video is already in the collection", http.StatusConflict)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to add video to collection", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// RemoveVideoFromCollection removes one video from a collection.
func (h *Handlers) RemoveVideoFromCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	err := h.store.RemoveVideoFromCollection(r.Context(), collectionID, videoID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video is not in the collection", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to remove video from collection", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// GetVideoCollections returns the collections a video belongs to.
func (h *Handlers) GetVideoCollections(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	collections, err := h.store.GetVideoCollections(r.Context(), id)
	if err != nil {
		writeJSONError(w, "Failed to get collections", http.StatusInternalServerError)
		return
	}

	if collections == nil {
		collections = []catalog.Collection{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, collections)
}
