package model

// Container formats recognised by the resolver
const (
	ContainerMP4 = "mp4"
)

// Format describes one stream offered for a video
type Format struct {
	ID        string `json:"format_id"`
	Height    int    `json:"height,omitempty"`    // 0 when unknown (audio-only, storyboard)
	Container string `json:"container,omitempty"` // file extension reported by the extractor
	HasVideo  bool   `json:"has_video"`
	FileSize  int64  `json:"file_size,omitempty"` // declared or approximate size, 0 if unknown
}

// VideoInfo is one metadata record produced by the info provider. A playlist
// link yields one record per entry.
type VideoInfo struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Duration     float64  `json:"duration,omitempty"` // seconds
	Formats      []Format `json:"formats"`
}
