package instagram

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPostQueryURL(t *testing.T) {
	raw := GetPostQueryURL("https://www.instagram.com/", "123", "ABC")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/graphql/query/", u.Path)
	assert.Equal(t, "123", u.Query().Get("doc_id"))
	assert.Equal(t, `{"shortcode":"ABC"}`, u.Query().Get("variables"))
}

func TestGetEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/ABC/embed/captioned/", GetEmbedURL(BaseURL, "ABC"))
}
