package mockserver_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfetch/internal/downloader"
	"igfetch/internal/mockserver"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/models"
	"igfetch/pkg/posturl"
	"igfetch/pkg/ratelimit"
	"igfetch/pkg/resolver"
	"igfetch/pkg/retry"
	"igfetch/pkg/scraper"
	"igfetch/pkg/session"
)

type pipeline struct {
	server  *mockserver.MockInstagramServer
	fetcher *scraper.Fetcher
	dl      *downloader.Downloader
	clock   *ratelimit.FakeClock
	log     *logger.TestLogger
}

func newPipeline(t *testing.T, sessionPath string) *pipeline {
	t.Helper()
	server := mockserver.New()
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	clock := ratelimit.NewFakeClock(time.Now())

	retryCfg := retry.DefaultConfig()
	retryCfg.Wait = func(ctx context.Context, d time.Duration) error { return nil }
	opts := instagram.Options{
		BaseURL:       server.URL(),
		Timeout:       5 * time.Second,
		EmbedFallback: true,
		Retry:         retryCfg,
		Logger:        log,
	}
	username := ""
	if sessionPath != "" {
		username = "tester"
	}
	client := instagram.Open(opts, username, sessionPath)

	pacer := ratelimit.NewPacer(2 * time.Second).WithSleeper(clock.Sleep)
	return &pipeline{
		server:  server,
		fetcher: scraper.NewFetcher(resolver.New(client, log), 2*time.Second, log).WithPacer(pacer),
		dl: downloader.New(downloader.Options{Timeout: 5 * time.Second, Logger: log}).
			WithPacer(ratelimit.NewPacer(500 * time.Millisecond).WithSleeper(clock.Sleep)),
		clock: clock,
		log:   log,
	}
}

func (p *pipeline) seed() {
	p.server.AddPost(mockserver.Post{
		Shortcode: "CAROUSEL1",
		Media: []mockserver.Media{
			{Image: "c1.jpg"},
			{Image: "c2.jpg", Video: "c2.mp4"},
			{Image: "c3.jpg"},
		},
	})
	p.server.AddPost(mockserver.Post{
		Shortcode: "SINGLE1",
		Media:     []mockserver.Media{{Image: "s1.jpg"}},
	})
	p.server.AddPost(mockserver.Post{
		Shortcode:     "PRIVATE1",
		LoginRequired: true,
		Media:         []mockserver.Media{{Image: "p1.jpg"}, {Image: "p2.jpg"}},
	})
}

func TestPreviewAndDownloadEndToEnd(t *testing.T) {
	p := newPipeline(t, "")
	p.seed()

	urls := posturl.Normalize(`https://www.instagram.com/p/CAROUSEL1/?img_index=2,
https://instagram.com/reel/SINGLE1/
https://instagram.com/p/CAROUSEL1/
https://instagram.com/p/MISSING1/`)
	require.Len(t, urls, 3)

	var progress []string
	hooks := models.Hooks{OnProgress: func(done, total int, label string) { progress = append(progress, label) }}
	result := p.fetcher.FetchPreviews(context.Background(), urls, hooks)

	assert.Equal(t, urls, result.Order)
	require.Len(t, result.Media["https://instagram.com/p/CAROUSEL1"], 3)
	single := result.Media["https://instagram.com/reel/SINGLE1"]
	require.Len(t, single, 1)
	assert.Equal(t, "SINGLE1.jpg", single[0].Filename)
	assert.Equal(t, "not_found: post not found or not accessible", result.Errors["https://instagram.com/p/MISSING1"])
	assert.Equal(t, "Done", progress[len(progress)-1])
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, p.clock.Sleeps())

	base := t.TempDir()
	items := result.Items()
	summary, err := p.dl.Download(context.Background(), items, base, models.Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Saved)

	video := filepath.Join(base, "CAROUSEL1", "CAROUSEL1_1.mp4")
	data, err := os.ReadFile(video)
	require.NoError(t, err)
	assert.Equal(t, mockserver.Body("c2.mp4"), data)
	assert.FileExists(t, filepath.Join(base, "SINGLE1", "SINGLE1.jpg"))

	// a second run finds everything on disk and never hits the CDN
	_, _, mediaBefore := p.server.Counts()
	summary, err = p.dl.Download(context.Background(), items, base, models.Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Saved)
	assert.Equal(t, 4, summary.Skipped)
	_, _, mediaAfter := p.server.Counts()
	assert.Equal(t, mediaBefore, mediaAfter)
}

func TestLoginWallFallsBackToEmbed(t *testing.T) {
	p := newPipeline(t, "")
	p.seed()

	result := p.fetcher.FetchPreviews(context.Background(), []string{"https://instagram.com/p/PRIVATE1"}, models.Hooks{})

	items := result.Media["https://instagram.com/p/PRIVATE1"]
	require.Len(t, items, 1, "the embed page only exposes the cover")
	assert.Equal(t, "PRIVATE1_0", items[0].ID)
	assert.Equal(t, p.server.MediaURL("p1.jpg"), items[0].DownloadURL)

	_, embed, _ := p.server.Counts()
	assert.Equal(t, 1, embed)
	assert.True(t, p.log.HasMessage("metadata request yielded no media, trying embed page"))
}

func TestStoredSessionUnlocksPost(t *testing.T) {
	store := session.NewFileStore(t.TempDir())
	path, err := store.Import("tester", []byte(`{"sessionid": "abc%3A123", "csrftoken": "tok"}`))
	require.NoError(t, err)

	p := newPipeline(t, path)
	p.seed()

	result := p.fetcher.FetchPreviews(context.Background(), []string{"https://instagram.com/p/PRIVATE1"}, models.Hooks{})
	assert.Len(t, result.Media["https://instagram.com/p/PRIVATE1"], 2)

	_, embed, _ := p.server.Counts()
	assert.Equal(t, 0, embed)
}

func TestTransientErrorsAreRetried(t *testing.T) {
	p := newPipeline(t, "")
	p.seed()
	p.server.FailTimes("SINGLE1", 2)
	p.server.SetErrorResponse("CAROUSEL1", http.StatusTooManyRequests)

	result := p.fetcher.FetchPreviews(context.Background(), []string{
		"https://instagram.com/p/SINGLE1",
		"https://instagram.com/p/CAROUSEL1",
	}, models.Hooks{})

	assert.Len(t, result.Media["https://instagram.com/p/SINGLE1"], 1)
	assert.Contains(t, result.Errors["https://instagram.com/p/CAROUSEL1"], "rate_limit")

	query, embed, _ := p.server.Counts()
	assert.Equal(t, 6, query, "three attempts each")
	assert.Equal(t, 0, embed, "rate limits never fall back to the embed page")
}

func TestFailedDownloadDoesNotStopBatch(t *testing.T) {
	p := newPipeline(t, "")
	p.seed()
	p.server.SetErrorResponse("c2.mp4", http.StatusForbidden)

	result := p.fetcher.FetchPreviews(context.Background(), []string{"https://instagram.com/p/CAROUSEL1"}, models.Hooks{})

	var lines []string
	base := t.TempDir()
	summary, err := p.dl.Download(context.Background(), result.Items(), base, models.Hooks{
		OnLog: func(line string) { lines = append(lines, line) },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Saved)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, lines[1], "Error saving CAROUSEL1_1.mp4")
	assert.FileExists(t, filepath.Join(base, "CAROUSEL1", "CAROUSEL1_2.jpg"))
}
