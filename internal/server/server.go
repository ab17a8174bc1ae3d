package server

import (
	"video-catalog/internal/catalog"
	"video-catalog/internal/ingest"
	"video-catalog/internal/storage"
	"video-catalog/internal/thumbs"

	"github.com/gorilla/mux"
)

// Handlers carries the dependencies shared by every HTTP handler.
type Handlers struct {
	store    *catalog.Store
	ingestor *ingest.Ingestor
	thumbs   *thumbs.Generator
	files    *storage.FileStore
}

func New(store *catalog.Store, ingestor *ingest.Ingestor, generator *thumbs.Generator, files *storage.FileStore) *Handlers {
	return &Handlers{
		store:    store,
		ingestor: ingestor,
		thumbs:   generator,
		files:    files,
	}
}

// Router builds the full route table. Middleware is layered on by the
// caller so tests can exercise handlers without it.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()

	// Health and version endpoints
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Activities
	api.HandleFunc("/activities", h.ListActivities).Methods("GET")
	api.HandleFunc("/activities", h.CreateActivity).Methods("POST")
	api.HandleFunc("/activities/{id}", h.GetActivity).Methods("GET")
	api.HandleFunc("/activities/{id}", h.UpdateActivity).Methods("PUT")
	api.HandleFunc("/activities/{id}", h.DeleteActivity).Methods("DELETE")
	api.HandleFunc("/activities/{id}/videos", h.GetActivityVideos).Methods("GET")
	api.HandleFunc("/activities/{id}/links", h.GetActivityLinks).Methods("GET")
	api.HandleFunc("/activities/{id}/links", h.CreateActivityLink).Methods("POST")
	api.HandleFunc("/links/{id}", h.DeleteLink).Methods("DELETE")

	// Videos
	api.HandleFunc("/videos", h.ListVideos).Methods("GET")
	api.HandleFunc("/videos", h.CreateVideo).Methods("POST")
	api.HandleFunc("/videos/formats", h.GetUniqueFormats).Methods("GET")
	api.HandleFunc("/videos/statuses", h.GetUniqueStatuses).Methods("GET")
	api.HandleFunc("/videos/versions", h.GetVideoVersions).Methods("GET")
	api.HandleFunc("/videos/thumbnails/backfill", h.BackfillThumbnails).Methods("POST")
	api.HandleFunc("/videos/{id}", h.GetVideo).Methods("GET")
	api.HandleFunc("/videos/{id}", h.UpdateVideo).Methods("PUT")
	api.HandleFunc("/videos/{id}", h.DeleteVideo).Methods("DELETE")
	api.HandleFunc("/videos/{id}/status", h.SetVideoStatus).Methods("PUT")
	api.HandleFunc("/videos/{id}/document", h.AttachDocument).Methods("POST")
	api.HandleFunc("/videos/{id}/poster", h.SetPoster).Methods("POST")
	api.HandleFunc("/videos/{id}/tags", h.GetVideoTags).Methods("GET")
	api.HandleFunc("/videos/{id}/tags", h.SetVideoTags).Methods("PUT")
	api.HandleFunc("/videos/{id}/collections", h.GetVideoCollections).Methods("GET")

	// Search
	api.HandleFunc("/search", h.SearchVideos).Methods("GET")
	api.HandleFunc("/search/count", h.CountVideos).Methods("GET")
	api.HandleFunc("/search/suggestions", h.SearchSuggestions).Methods("GET")

	// Tags
	api.HandleFunc("/tags", h.GetAllTags).Methods("GET")
	api.HandleFunc("/tags", h.CreateTag).Methods("POST")
	api.HandleFunc("/tags/videos", h.GetVideosByTags).Methods("GET")
	api.HandleFunc("/tags/{id}", h.DeleteTag).Methods("DELETE")

	// Collections
	api.HandleFunc("/collections", h.ListCollections).Methods("GET")
	api.HandleFunc("/collections", h.CreateCollection).Methods("POST")
	api.HandleFunc("/collections/{id}", h.GetCollection).Methods("GET")
	api.HandleFunc("/collections/{id}", h.UpdateCollection).Methods("PUT")
	api.HandleFunc("/collections/{id}", h.DeleteCollection).Methods("DELETE")
	api.HandleFunc("/collections/{id}/videos", h.GetCollectionVideos).Methods("GET")
	api.HandleFunc("/collections/{id}/videos/{videoId}", h.AddVideoToCollection).Methods("POST")
	api.HandleFunc("/collections/{id}/videos/{videoId}", h.RemoveVideoFromCollection).Methods("DELETE")

	// Classes and sections
	api.HandleFunc("/classes", h.ListClasses).Methods("GET")
	api.HandleFunc("/classes", h.CreateClass).Methods("POST")
	api.HandleFunc("/classes/{id}", h.UpdateClass).Methods("PUT")
	api.HandleFunc("/classes/{id}", h.DeleteClass).Methods("DELETE")
	api.HandleFunc("/sections", h.ListSections).Methods("GET")
	api.HandleFunc("/sections", h.CreateSection).Methods("POST")
	api.HandleFunc("/sections/{id}", h.UpdateSection).Methods("PUT")
	api.HandleFunc("/sections/{id}", h.DeleteSection).Methods("DELETE")
	api.HandleFunc("/filters", h.GetFilterOptions).Methods("GET")

	// Statistics
	api.HandleFunc("/stats", h.GetStatistics).Methods("GET")

	return r
}
