// Package resolver turns a post URL into the media items it contains.
package resolver

import (
	"context"
	"fmt"

	errs "igfetch/pkg/errors"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/models"
	"igfetch/pkg/posturl"
	"igfetch/pkg/storage"
)

// PostFetcher retrieves post metadata by shortcode. *instagram.Client
// satisfies it.
type PostFetcher interface {
	FetchPost(ctx context.Context, shortcode string) (*instagram.Post, error)
}

// Resolver maps post URLs to media items
type Resolver struct {
	fetcher PostFetcher
	logger  logger.Logger
}

// New creates a resolver backed by fetcher
func New(fetcher PostFetcher, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Resolver{fetcher: fetcher, logger: log}
}

// Resolve returns the media items of the post at url in display order.
// Carousel entries lacking a URL are dropped while a single-entry post
// lacking one fails as a whole.
func (r *Resolver) Resolve(ctx context.Context, url string) (items []models.MediaItem, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			items = nil
			err = fmt.Errorf("unexpected failure resolving %s: %v", url, rec)
		}
	}()

	shortcode, ok := posturl.Shortcode(url)
	if !ok {
		return nil, errs.New(errs.ErrorTypeParsing, "unparseable URL")
	}

	post, err := r.fetcher.FetchPost(ctx, shortcode)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.New(errs.ErrorTypeNotFound, "post not found")
	}

	if post.IsCarousel() {
		return r.carouselItems(post, shortcode, url), nil
	}
	return singleItem(post, shortcode, url)
}

func (r *Resolver) carouselItems(post *instagram.Post, shortcode, url string) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(post.Children))
	for index, child := range post.Children {
		mediaType, download := kindAndDownload(child.IsVideo, child.DisplayURL, child.VideoURL)
		if child.DisplayURL == "" || download == "" {
			r.logger.DebugWithFields("skipping carousel entry without media URL", map[string]interface{}{
				"shortcode": shortcode,
				"index":     index,
			})
			continue
		}

		id := fmt.Sprintf("%s_%d", shortcode, index)
		items = append(items, models.MediaItem{
			ID:          id,
			Type:        mediaType,
			Shortcode:   shortcode,
			PreviewURL:  child.DisplayURL,
			DownloadURL: download,
			Filename:    storage.SanitizeFilename(id + mediaType.Extension()),
			OriginURL:   url,
		})
	}
	return items
}

func singleItem(post *instagram.Post, shortcode, url string) ([]models.MediaItem, error) {
	mediaType, download := kindAndDownload(post.IsVideo, post.DisplayURL, post.VideoURL)
	if post.DisplayURL == "" || download == "" {
		return nil, errs.New(errs.ErrorTypeParsing, "unable to resolve media URLs for post")
	}

	return []models.MediaItem{{
		ID:          shortcode + "_0",
		Type:        mediaType,
		Shortcode:   shortcode,
		PreviewURL:  post.DisplayURL,
		DownloadURL: download,
		Filename:    storage.SanitizeFilename(shortcode + mediaType.Extension()),
		OriginURL:   url,
	}}, nil
}

func kindAndDownload(isVideo bool, displayURL, videoURL string) (models.MediaType, string) {
	if isVideo {
		return models.MediaVideo, videoURL
	}
	return models.MediaImage, displayURL
}
