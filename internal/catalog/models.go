package catalog

// Version lifecycle states a video record can carry.
const (
	StatusActive   = "ACTIVE"
	StatusDraft    = "DRAFT"
	StatusArchived = "ARCHIVED"
)

type Activity struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Class        string `json:"class,omitempty"`
	Section      string `json:"section,omitempty"`
	ClassID      int64  `json:"classId,omitempty"`
	SectionID    int64  `json:"sectionId,omitempty"`
	CreatedDate  string `json:"createdDate"`
	VideoCount   int    `json:"videoCount"`
	ClassColor   string `json:"classColor,omitempty"`
	SectionColor string `json:"sectionColor,omitempty"`
}

type Video struct {
	ID              int64   `json:"id"`
	ActivityID      int64   `json:"activityId"`
	ActivityName    string  `json:"activityName,omitempty"`
	ActivityClass   string  `json:"activityClass,omitempty"`
	ActivitySection string  `json:"activitySection,omitempty"`
	Title           string  `json:"title"`
	FilePath        string  `json:"filePath,omitempty"`
	YouTubeURL      string  `json:"youtubeUrl,omitempty"`
	FileName        string  `json:"fileName,omitempty"`
	FileSize        int64   `json:"fileSize"`
	Duration        float64 `json:"duration"`
	Format          string  `json:"format,omitempty"`
	Resolution      string  `json:"resolution,omitempty"`
	VersionNumber   int     `json:"versionNumber"`
	EventDate       string  `json:"eventDate,omitempty"`
	UploadDate      string  `json:"uploadDate"`
	Description     string  `json:"description,omitempty"`
	Tags            string  `json:"tags,omitempty"`
	ThumbnailPath   string  `json:"thumbnailPath,omitempty"`
	DocumentPath    string  `json:"documentPath,omitempty"`
	HasLocalCopy    bool    `json:"hasLocalCopy"`
	HasYouTubeLink  bool    `json:"hasYoutubeLink"`
	HasDocument     bool    `json:"hasDocument"`
	VersionStatus   string  `json:"versionStatus"`
	VersionNotes    string  `json:"versionNotes,omitempty"`
	AddedDate       string  `json:"addedDate,omitempty"` // set only on collection listings
}

type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	CreatedDate string `json:"createdDate"`
}

type Collection struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	CreatedDate string `json:"createdDate"`
	VideoCount  int    `json:"videoCount"`
	Tags        string `json:"tags,omitempty"`      // comma-joined distinct tag names across members
	AddedDate   string `json:"addedDate,omitempty"` // set only when listing a video's collections
}

// Class and Section are the predefined reference lists activities can point
// at. Activities also carry denormalized class/section name columns so older
// records without reference rows keep working.
type Class struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Color         string `json:"color,omitempty"`
	CreatedDate   string `json:"createdDate"`
	ActivityCount int    `json:"activityCount"`
}

type Section struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Color         string `json:"color,omitempty"`
	CreatedDate   string `json:"createdDate"`
	ActivityCount int    `json:"activityCount"`
}

type Link struct {
	ID          int64  `json:"id"`
	ActivityID  int64  `json:"activityId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	CreatedDate string `json:"createdDate"`
}

type Statistics struct {
	TotalVideos       int     `json:"totalVideos"`
	TotalActivities   int     `json:"totalActivities"`
	TotalStorageBytes int64   `json:"totalStorageBytes"`
	TotalStorageMB    float64 `json:"totalStorageMb"`
	AvailableSpaceGB  float64 `json:"availableSpaceGb"`
	LocalVideos       int     `json:"localVideos"`
	YouTubeVideos     int     `json:"youtubeVideos"`
}
