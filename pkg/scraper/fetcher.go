package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "igfetch/pkg/errors"
	"igfetch/pkg/logger"
	"igfetch/pkg/models"
	"igfetch/pkg/posturl"
	"igfetch/pkg/ratelimit"
)

// Fetcher resolves a batch of post URLs one at a time
type Fetcher struct {
	resolver MediaResolver
	pacer    *ratelimit.Pacer
	logger   logger.Logger
}

// NewFetcher creates a fetcher that pauses delay between URLs
func NewFetcher(resolver MediaResolver, delay time.Duration, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		resolver: resolver,
		pacer:    ratelimit.NewPacer(delay),
		logger:   log,
	}
}

// WithPacer replaces the pacer, e.g. with one driven by a fake clock
func (f *Fetcher) WithPacer(p *ratelimit.Pacer) *Fetcher {
	f.pacer = p
	return f
}

// FetchPreviews resolves urls in order and reports progress through hooks.
// A failing URL is recorded in the result's Errors and never stops the batch.
// A cancelled ctx stops the batch before the next URL; URLs not reached are
// absent from both mappings.
func (f *Fetcher) FetchPreviews(ctx context.Context, urls []string, hooks models.Hooks) models.BatchResult {
	result := models.NewBatchResult()
	total := len(urls)

	log := f.logger.WithFields(map[string]interface{}{
		"run_id": uuid.NewString(),
		"phase":  "preview",
	})
	log.InfoWithFields("starting preview batch", map[string]interface{}{
		"urls": total,
	})

	start := time.Now()
	processed := 0
	for i, url := range urls {
		if ctx.Err() != nil {
			log.WarnWithFields("preview batch cancelled", map[string]interface{}{
				"processed": i,
				"total":     total,
			})
			break
		}

		hooks.Progress(i, total, "Fetching: "+url)
		result.Order = append(result.Order, url)

		items, err := f.resolve(ctx, url)
		processed++
		if err != nil {
			msg := errs.Describe(err)
			result.Errors[url] = msg
			hooks.Log(fmt.Sprintf("Error: %s -> %s", url, msg))
			log.WarnWithFields("failed to resolve post", map[string]interface{}{
				"url":        url,
				"kind":       posturl.Kind(url),
				"error_type": string(errs.TypeOf(err)),
				"error":      msg,
			})
		} else {
			result.Media[url] = items
			hooks.Log(fmt.Sprintf("Found %d item(s) in %s", len(items), url))
			log.DebugWithFields("resolved post", map[string]interface{}{
				"url":   url,
				"kind":  posturl.Kind(url),
				"items": len(items),
			})
		}

		if err := f.pacer.After(ctx, i, total); err != nil {
			log.WarnWithFields("preview batch cancelled", map[string]interface{}{
				"processed": i + 1,
				"total":     total,
			})
			break
		}
	}

	if processed < total {
		hooks.Progress(processed, total, "Cancelled")
	} else {
		hooks.Progress(total, total, "Done")
	}

	log.InfoWithFields("preview batch finished", map[string]interface{}{
		"resolved": len(result.Media),
		"failed":   len(result.Errors),
		"duration": time.Since(start).String(),
	})
	return result
}

// resolve shields the batch from panics in the resolver
func (f *Fetcher) resolve(ctx context.Context, url string) (items []models.MediaItem, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			items = nil
			err = fmt.Errorf("unexpected failure: %v", rec)
		}
	}()
	return f.resolver.Resolve(ctx, url)
}
