package instagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmbedPageVideo(t *testing.T) {
	html := `<html><head>
<meta property="og:image" content="https://cdn.example/poster.jpg">
<meta property="og:video" content="https://cdn.example/clip.mp4">
</head><body></body></html>`

	post, err := parseEmbedPage(strings.NewReader(html), "REEL1")
	require.NoError(t, err)

	assert.True(t, post.IsVideo)
	assert.Equal(t, "https://cdn.example/poster.jpg", post.DisplayURL)
	assert.Equal(t, "https://cdn.example/clip.mp4", post.VideoURL)
	assert.False(t, post.IsCarousel())
}

func TestParseEmbedPageMediaElements(t *testing.T) {
	html := `<html><body>
<div class="Embed"><img class="EmbeddedMediaImage" src="https://cdn.example/img.jpg"></div>
</body></html>`

	post, err := parseEmbedPage(strings.NewReader(html), "P1")
	require.NoError(t, err)
	assert.False(t, post.IsVideo)
	assert.Equal(t, "https://cdn.example/img.jpg", post.DisplayURL)

	html = `<html><body><video poster="https://cdn.example/p.jpg"><source src="https://cdn.example/v.mp4"></video></body></html>`
	post, err = parseEmbedPage(strings.NewReader(html), "V1")
	require.NoError(t, err)
	assert.True(t, post.IsVideo)
	assert.Equal(t, "https://cdn.example/p.jpg", post.DisplayURL)
	assert.Equal(t, "https://cdn.example/v.mp4", post.VideoURL)
}

func TestParseEmbedPageWithoutMedia(t *testing.T) {
	_, err := parseEmbedPage(strings.NewReader(`<html><body><p>hi</p></body></html>`), "X")
	assert.Error(t, err)
}
