package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// GraphQLEndpoint serves post metadata
	GraphQLEndpoint = "/graphql/query/"

	// DefaultPostDocID is the persisted query id for a single post lookup
	DefaultPostDocID = "8845758582119845"

	// WebAppID identifies the web client to the API
	WebAppID = "936619743392459"
)

// GetPostQueryURL constructs the GraphQL URL for fetching one post by shortcode
func GetPostQueryURL(baseURL, docID, shortcode string) string {
	params := url.Values{}
	params.Set("doc_id", docID)
	params.Set("variables", fmt.Sprintf(`{"shortcode":%q}`, shortcode))

	return fmt.Sprintf("%s%s?%s", strings.TrimSuffix(baseURL, "/"), GraphQLEndpoint, params.Encode())
}

// GetEmbedURL constructs the captioned embed page URL for a post
func GetEmbedURL(baseURL, shortcode string) string {
	return fmt.Sprintf("%s/p/%s/embed/captioned/", strings.TrimSuffix(baseURL, "/"), url.PathEscape(shortcode))
}
