package downloader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	errs "igfetch/pkg/errors"
	"igfetch/pkg/logger"
	"igfetch/pkg/models"
	"igfetch/pkg/ratelimit"
	"igfetch/pkg/storage"
)

// Status is the outcome of one item
type Status string

const (
	StatusSaved   Status = "saved"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// DownloadResult represents the result of a single item
type DownloadResult struct {
	Item     models.MediaItem
	Path     string
	Status   Status
	Error    error
	Duration time.Duration
	Size     int64
}

// Options configures a Downloader
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Logger    logger.Logger
	// Transport overrides the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// Downloader saves media items to disk one at a time
type Downloader struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	pacer      *ratelimit.Pacer
	logger     logger.Logger
}

// New creates a downloader
func New(opts Options) *Downloader {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Downloader{
		httpClient: &http.Client{Transport: opts.Transport},
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		pacer:      ratelimit.NewPacer(opts.Delay),
		logger:     log,
	}
}

// WithPacer replaces the pacer, e.g. with one driven by a fake clock
func (d *Downloader) WithPacer(p *ratelimit.Pacer) *Downloader {
	d.pacer = p
	return d
}

// Download writes items below baseDir in order. Existing files are skipped
// without touching the network and a failed item never stops the batch.
// The error is non-nil only when baseDir cannot be created.
func (d *Downloader) Download(ctx context.Context, items []models.MediaItem, baseDir string, hooks models.Hooks) (models.DownloadSummary, error) {
	summary := models.DownloadSummary{BaseDir: baseDir}

	store, err := storage.NewManager(baseDir)
	if err != nil {
		d.logger.ErrorWithFields("cannot prepare download directory", map[string]interface{}{
			"base_dir": baseDir,
			"error":    err.Error(),
		})
		return summary, err
	}

	total := len(items)
	processed := 0
	d.logger.InfoWithFields("starting download batch", map[string]interface{}{
		"items":    total,
		"base_dir": baseDir,
	})

	for i, item := range items {
		if ctx.Err() != nil {
			d.logger.WarnWithFields("download batch cancelled", map[string]interface{}{
				"processed": i,
				"total":     total,
			})
			break
		}

		hooks.Progress(i, total, "Downloading: "+item.Filename)

		result := d.downloadOne(ctx, store, item)
		processed++
		switch result.Status {
		case StatusSaved:
			summary.Saved++
			hooks.Log("Saved: " + result.Path)
		case StatusSkipped:
			summary.Skipped++
			hooks.Log("Skipped (exists): " + result.Path)
		default:
			summary.Failed++
			hooks.Log(fmt.Sprintf("Error saving %s: %v", item.Filename, result.Error))
		}

		// skipped items never touched the network
		if result.Status == StatusSkipped {
			continue
		}
		if err := d.pacer.After(ctx, i, total); err != nil {
			break
		}
	}

	if processed < total {
		hooks.Progress(processed, total, "Downloads cancelled")
	} else {
		hooks.Progress(total, total, "Downloads complete")
	}

	d.logger.InfoWithFields("download batch finished", map[string]interface{}{
		"saved":   summary.Saved,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	})
	return summary, nil
}

func (d *Downloader) downloadOne(ctx context.Context, store *storage.Manager, item models.MediaItem) DownloadResult {
	start := time.Now()
	result := DownloadResult{Item: item}

	path, err := store.PrepareTarget(item.Shortcode, item.Filename)
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		return result
	}
	result.Path = path

	if store.Exists(path) {
		result.Status = StatusSkipped
		d.logger.DebugWithFields("file exists, skipping", map[string]interface{}{
			"id":   item.ID,
			"path": path,
		})
		return result
	}

	size, err := d.fetch(ctx, store, item.DownloadURL, path)
	result.Duration = time.Since(start)
	result.Size = size
	if err != nil {
		result.Status = StatusFailed
		result.Error = err
		d.logger.WarnWithFields("download failed", map[string]interface{}{
			"id":    item.ID,
			"url":   item.DownloadURL,
			"error": err.Error(),
		})
		return result
	}

	result.Status = StatusSaved
	d.logger.DebugWithFields("download completed", map[string]interface{}{
		"id":       item.ID,
		"path":     path,
		"size":     size,
		"duration": result.Duration,
	})
	return result
}

// fetch streams url into path. The request outlives cancellation of ctx and
// is bounded by the per-item timeout only.
func (d *Downloader) fetch(ctx context.Context, store *storage.Manager, url, path string) (int64, error) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("invalid download URL: %w", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, &errs.Error{Type: errs.ErrorTypeNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if apiErr := errs.FromStatus(resp.StatusCode); apiErr != nil {
		return 0, fmt.Errorf("HTTP %d: %w", resp.StatusCode, apiErr)
	}

	return store.Save(resp.Body, path)
}
