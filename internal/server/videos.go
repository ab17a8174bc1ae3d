package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"video-catalog/internal/catalog"
	"video-catalog/internal/ingest"
	"video-catalog/internal/logging"
	"video-catalog/internal/thumbs"
)

// VideoRequest carries a video submission. SourcePath points at a local
// file to ingest into managed storage; YouTubeURL records an external
// link. At least one of the two is required.
type VideoRequest struct {
	ActivityID   int64    `json:"activityId"`
	Title        string   `json:"title"`
	SourcePath   string   `json:"sourcePath,omitempty"`
	YouTubeURL   string   `json:"youtubeUrl,omitempty"`
	EventDate    string   `json:"eventDate,omitempty"`
	Description  string   `json:"description,omitempty"`
	VersionNotes string   `json:"versionNotes,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// ListVideos returns all videos, optionally filtered by class/section and
// paginated.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var videos []catalog.Video
	var err error
	if q.Get("class") != "" || q.Get("section") != "" {
		videos, err = h.store.GetVideosFiltered(r.Context(), q.Get("class"), q.Get("section"))
	} else {
		videos, err = h.store.GetAllVideos(r.Context(), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	}
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

// CreateVideo ingests a submission and persists the resulting record. The
// version number is assigned by the catalog from the activity's existing
// chain for the same title.
func (h *Handlers) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ActivityID <= 0 || req.Title == "" {
		writeJSONError(w, "Activity id and title are required", http.StatusBadRequest)
		return
	}
	if req.SourcePath == "" && req.YouTubeURL == "" {
		writeJSONError(w, "A source path or a YouTube URL is required", http.StatusBadRequest)
		return
	}
	if req.YouTubeURL != "" && !ingest.IsVideoURL(req.YouTubeURL) {
		writeJSONError(w, "Unrecognized video URL", http.StatusBadRequest)
		return
	}

	activity, err := h.store.GetActivityByID(r.Context(), req.ActivityID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Activity not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to load activity", http.StatusInternalServerError)
		return
	}

	// Watch, short-link, shorts, and live URLs all collapse to the embed
	// form so the stored link is directly playable.
	video := &catalog.Video{
		ActivityID:     req.ActivityID,
		Title:          req.Title,
		YouTubeURL:     ingest.EmbedURL(req.YouTubeURL),
		EventDate:      req.EventDate,
		Description:    req.Description,
		VersionNotes:   req.VersionNotes,
		HasYouTubeLink: req.YouTubeURL != "",
	}

	if req.SourcePath != "" {
		result, err := h.ingestor.IngestVideo(req.SourcePath, activity.Name, req.Title)
		if ingest.IsValidationError(err) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			writeJSONError(w, "Failed to ingest video", http.StatusInternalServerError)
			return
		}
		video.FilePath = result.Path
		video.FileName = result.FileName
		video.FileSize = result.Size
		video.Duration = result.DurationSeconds
		video.Resolution = result.Resolution
		video.Format = result.Format
		video.HasLocalCopy = true
	}

	id, err := h.store.AddVideo(r.Context(), video)
	if err != nil {
		writeJSONError(w, "Failed to save video", http.StatusInternalServerError)
		return
	}

	if len(req.Tags) > 0 {
		if err := h.store.AssignTagsToVideo(r.Context(), id, req.Tags); err != nil {
			logging.Warn("Video %d saved but tag assignment failed: %v", id, err)
		}
	}

	// Thumbnail generation follows the insert because the file name
	// derives from the record id. Failure is not fatal; backfill can
	// retry later.
	if video.HasLocalCopy {
		if path, ok := h.ingestor.GenerateThumbnail(video.FilePath, id); ok {
			if err := h.store.UpdateThumbnailPath(r.Context(), id, path); err != nil {
				logging.Warn("Failed to record thumbnail for video %d: %v", id, err)
			} else {
				video.ThumbnailPath = path
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, video)
}

// GetVideo returns one video by id.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	video, err := h.store.GetVideoByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to get video", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, video)
}

// UpdateVideo replaces a video's mutable fields.
func (h *Handlers) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var video catalog.Video
	if err := json.NewDecoder(r.Body).Decode(&video); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if video.Title == "" {
		writeJSONError(w, "Title is required", http.StatusBadRequest)
		return
	}

	err := h.store.UpdateVideo(r.Context(), id, &video)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to update video", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// DeleteVideo removes one video record along with its managed file,
// thumbnail, and attached document.
func (h *Handlers) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	video, err := h.store.GetVideoByID(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to load video", http.StatusInternalServerError)
		return
	}

	err = h.store.DeleteVideo(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to delete video", http.StatusInternalServerError)
		return
	}

	h.releaseFiles(video)
	writeJSONStatus(w, "ok")
}

// releaseFiles removes a deleted record's managed files. The row is already
// gone, so failures only log; the files are unreachable either way.
func (h *Handlers) releaseFiles(video *catalog.Video) {
	if video.FilePath != "" {
		if err := h.files.Remove("videos", video.FilePath); err != nil {
			logging.Warn("Failed to remove video file %s: %v", video.FilePath, err)
		}
	}
	if video.ThumbnailPath != "" {
		if err := h.files.Remove("thumbnails", video.ThumbnailPath); err != nil {
			logging.Warn("Failed to remove thumbnail %s: %v", video.ThumbnailPath, err)
		}
	}
	if video.DocumentPath != "" {
		if err := h.files.Remove("documents", video.DocumentPath); err != nil {
			logging.Warn("Failed to remove document %s: %v", video.DocumentPath, err)
		}
	}
}

// StatusRequest carries a version status transition.
type StatusRequest struct {
	Status string `json:"status"`
}

// SetVideoStatus updates a video's version lifecycle status.
func (h *Handlers) SetVideoStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case catalog.StatusActive, catalog.StatusDraft, catalog.StatusArchived:
	default:
		writeJSONError(w, "Invalid status", http.StatusBadRequest)
		return
	}

	err := h.store.SetVersionStatus(r.Context(), id, req.Status)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "ok")
}

// DocumentRequest points at a local file to attach as the video's document.
type DocumentRequest struct {
	SourcePath string `json:"sourcePath"`
}

// AttachDocument ingests a supporting document for a video.
func (h *Handlers) AttachDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SourcePath == "" {
		writeJSONError(w, "Source path is required", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetVideoByID(r.Context(), id); errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	} else if err != nil {
		writeJSONError(w, "Failed to load video", http.StatusInternalServerError)
		return
	}

	path, err := h.ingestor.IngestDocument(req.SourcePath, id)
	if ingest.IsValidationError(err) {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to ingest document", http.StatusInternalServerError)
		return
	}

	if err := h.store.SetDocument(r.Context(), id, path); err != nil {
		writeJSONError(w, "Failed to record document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"documentPath": path})
}

// PosterRequest points at a still image to use as the preview for a
// link-only record.
type PosterRequest struct {
	SourcePath string `json:"sourcePath"`
}

// SetPoster produces a thumbnail from a caller-supplied image instead of a
// video frame, for records that have no local file.
func (h *Handlers) SetPoster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req PosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SourcePath == "" {
		writeJSONError(w, "Source path is required", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetVideoByID(r.Context(), id); errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Video not found", http.StatusNotFound)
		return
	} else if err != nil {
		writeJSONError(w, "Failed to load video", http.StatusInternalServerError)
		return
	}

	path, err := h.ingestor.PosterThumbnail(req.SourcePath, id)
	if err != nil {
		writeJSONError(w, "Failed to produce poster thumbnail", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateThumbnailPath(r.Context(), id, path); err != nil {
		writeJSONError(w, "Failed to record thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"thumbnailPath": path})
}

// GetVideoVersions returns the full version chain for an activity/title
// pair, oldest first.
func (h *Handlers) GetVideoVersions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activityID := int64(queryInt(r, "activityId", 0))
	title := q.Get("title")
	if activityID <= 0 || title == "" {
		writeJSONError(w, "activityId and title are required", http.StatusBadRequest)
		return
	}

	versions, err := h.store.GetVideoVersions(r.Context(), activityID, title)
	if err != nil {
		writeJSONError(w, "Failed to get versions", http.StatusInternalServerError)
		return
	}

	if versions == nil {
		versions = []catalog.Video{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, versions)
}

// GetUniqueFormats returns the distinct container formats in the catalog.
func (h *Handlers) GetUniqueFormats(w http.ResponseWriter, r *http.Request) {
	h.writeStringList(w, r, "formats", h.store.GetUniqueFormats)
}

// GetUniqueStatuses returns the distinct version statuses in the catalog.
func (h *Handlers) GetUniqueStatuses(w http.ResponseWriter, r *http.Request) {
	h.writeStringList(w, r, "statuses", h.store.GetUniqueVersionStatuses)
}

// BackfillThumbnails generates previews for every record that has a local
// file but no thumbnail, then persists the new paths. Runs synchronously;
// the caller gets the run summary.
func (h *Handlers) BackfillThumbnails(w http.ResponseWriter, r *http.Request) {
	missing, err := h.store.GetVideosMissingThumbnails(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to list candidates", http.StatusInternalServerError)
		return
	}

	items := make([]thumbs.BackfillItem, 0, len(missing))
	for _, v := range missing {
		items = append(items, thumbs.BackfillItem{MediaID: v.ID, FilePath: v.FilePath})
	}

	result := h.thumbs.Backfill(items)
	for id, path := range result.Paths {
		if err := h.store.UpdateThumbnailPath(r.Context(), id, path); err != nil {
			logging.Warn("Backfill generated thumbnail for %d but recording it failed: %v", id, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]int{
		"candidates": len(missing),
		"generated":  result.Generated,
		"skipped":    result.Skipped,
		"failed":     result.Failed,
	})
}
