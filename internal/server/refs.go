package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"video-catalog/internal/catalog"
)

// RefRequest carries the mutable fields shared by classes and sections.
type RefRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ListClasses returns the class reference list with activity counts.
func (h *Handlers) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.store.GetAllClasses(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to get classes", http.StatusInternalServerError)
		return
	}

	if classes == nil {
		classes = []catalog.Class{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, classes)
}

// CreateClass adds a class to the reference list.
func (h *Handlers) CreateClass(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRefRequest(w, r)
	if !ok {
		return
	}

	id, err := h.store.AddClass(r.Context(), req.Name, req.Description, req.Color)
	if errors.Is(err, catalog.ErrDuplicateName) {
		writeJSONError(w, "Class name already exists", http.StatusConflict)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to create class", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]int64{"id": id})
}

// UpdateClass replaces a class's fields.
func (h *Handlers) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeRefRequest(w, r)
	if !ok {
		return
	}

	h.finishRefUpdate(w, "class", h.store.UpdateClass(r.Context(), id, req.Name, req.Description, req.Color))
}

// DeleteClass removes a class from the reference list. Activities keep
// their denormalized class name.
func (h *Handlers) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	h.finishRefDelete(w, "class", h.store.DeleteClass(r.Context(), id))
}

// ListSections returns the section reference list with activity counts.
func (h *Handlers) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.store.GetAllSections(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to get sections", http.StatusInternalServerError)
		return
	}

	if sections == nil {
		sections = []catalog.Section{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, sections)
}

// CreateSection adds a section to the reference list.
func (h *Handlers) CreateSection(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRefRequest(w, r)
	if !ok {
		return
	}

	id, err := h.store.AddSection(r.Context(), req.Name, req.Description, req.Color)
	if errors.Is(err, catalog.ErrDuplicateName) {
		writeJSONError(w, "Section name already exists", http.StatusConflict)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to create section", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]int64{"id": id})
}

// UpdateSection replaces a section's fields.
func (h *Handlers) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeRefRequest(w, r)
	if !ok {
		return
	}

	h.finishRefUpdate(w, "section", h.store.UpdateSection(r.Context(), id, req.Name, req.Description, req.Color))
}

// DeleteSection removes a section from the reference list.
func (h *Handlers) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	h.finishRefDelete(w, "section", h.store.DeleteSection(r.Context(), id))
}

// GetFilterOptions returns the dropdown values a search form needs in one
// round trip. A class or section query parameter narrows the other list to
// combinations that actually occur.
func (h *Handlers) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var classes, sections []string
	var err error

	switch {
	case q.Get("class") != "":
		classes, err = h.store.GetUniqueClasses(ctx)
		if err == nil {
			sections, err = h.store.GetSectionsForClass(ctx, q.Get("class"))
		}
	case q.Get("section") != "":
		sections, err = h.store.GetUniqueSections(ctx)
		if err == nil {
			classes, err = h.store.GetClassesForSection(ctx, q.Get("section"))
		}
	default:
		classes, err = h.store.GetUniqueClasses(ctx)
		if err == nil {
			sections, err = h.store.GetUniqueSections(ctx)
		}
	}
	if err != nil {
		writeJSONError(w, "Failed to get filter options", http.StatusInternalServerError)
		return
	}

	formats, err := h.store.GetUniqueFormats(ctx)
	if err != nil {
		writeJSONError(w, "Failed to get filter options", http.StatusInternalServerError)
		return
	}
	statuses, err := h.store.GetUniqueVersionStatuses(ctx)
	if err != nil {
		writeJSONError(w, "Failed to get filter options", http.StatusInternalServerError)
		return
	}
	tags, err := h.store.GetUniqueTags(ctx)
	if err != nil {
		writeJSONError(w, "Failed to get filter options", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string][]string{
		"classes":  emptyIfNil(classes),
		"sections": emptyIfNil(sections),
		"formats":  emptyIfNil(formats),
		"statuses": emptyIfNil(statuses),
		"tags":     emptyIfNil(tags),
	})
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func decodeRefRequest(w http.ResponseWriter, r *http.Request) (RefRequest, bool) {
	var req RefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (h *Handlers) finishRefUpdate(w http.ResponseWriter, kind string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrDuplicateName):
		writeJSONError(w, "Name already exists", http.StatusConflict)
	case err != nil:
		writeJSONError(w, "Failed to update "+kind, http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "ok")
	}
}

func (h *Handlers) finishRefDelete(w http.ResponseWriter, kind string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, "Not found", http.StatusNotFound)
	case err != nil:
		writeJSONError(w, "Failed to delete "+kind, http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "ok")
	}
}
