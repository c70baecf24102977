package models

// MediaType distinguishes image and video assets
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Extension returns the file extension used for the media type
func (t MediaType) Extension() string {
	if t == MediaVideo {
		return ".mp4"
	}
	return ".jpg"
}

// MediaItem is one downloadable asset of a post. Items are produced by the
// resolver and treated as immutable values afterwards.
type MediaItem struct {
	ID          string    `json:"id"`
	Type        MediaType `json:"type"`
	Shortcode   string    `json:"shortcode"`
	PreviewURL  string    `json:"preview_url"`
	DownloadURL string    `json:"download_url"`
	Filename    string    `json:"filename"`
	OriginURL   string    `json:"origin_url"`
}

// BatchResult is the outcome of resolving a list of post URLs.
// Each URL in Order is a key of exactly one of Media or Errors.
type BatchResult struct {
	Media  map[string][]MediaItem `json:"media"`
	Errors map[string]string      `json:"errors"`
	Order  []string               `json:"order"`
}

// NewBatchResult creates an empty result
func NewBatchResult() BatchResult {
	return BatchResult{
		Media:  make(map[string][]MediaItem),
		Errors: make(map[string]string),
		Order:  []string{},
	}
}

// Items returns every resolved item in input order
func (r BatchResult) Items() []MediaItem {
	var items []MediaItem
	for _, url := range r.Order {
		items = append(items, r.Media[url]...)
	}
	return items
}

// Hooks receive progress and log notifications during a batch.
// Both callbacks are optional and run synchronously on the batch's goroutine.
type Hooks struct {
	OnProgress func(completed, total int, label string)
	OnLog      func(line string)
}

// Progress invokes OnProgress if set
func (h Hooks) Progress(completed, total int, label string) {
	if h.OnProgress != nil {
		h.OnProgress(completed, total, label)
	}
}

// Log invokes OnLog if set
func (h Hooks) Log(line string) {
	if h.OnLog != nil {
		h.OnLog(line)
	}
}

// DownloadSummary reports how a download batch went
type DownloadSummary struct {
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	BaseDir string `json:"base_dir"`
}
