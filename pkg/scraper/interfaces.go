package scraper

import (
	"context"

	"igfetch/pkg/models"
)

// MediaResolver turns one post URL into media items. *resolver.Resolver
// satisfies it.
type MediaResolver interface {
	Resolve(ctx context.Context, url string) ([]models.MediaItem, error)
}
