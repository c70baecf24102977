package instagram

// postQueryResponse is the GraphQL envelope for a post lookup. Depending on
// the doc id the post is returned under either key.
type postQueryResponse struct {
	Data struct {
		ShortcodeMedia    *mediaNode `json:"shortcode_media"`
		XDTShortcodeMedia *mediaNode `json:"xdt_shortcode_media"`
	} `json:"data"`
	RequiresToLogin bool   `json:"require_login"`
	Status          string `json:"status"`
}

type mediaNode struct {
	Typename              string `json:"__typename"`
	Shortcode             string `json:"shortcode"`
	IsVideo               bool   `json:"is_video"`
	DisplayURL            string `json:"display_url"`
	VideoURL              string `json:"video_url"`
	EdgeSidecarToChildren *struct {
		Edges []struct {
			Node mediaNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

// Post is the provider-neutral view of a post's media
type Post struct {
	Shortcode  string
	Typename   string
	IsVideo    bool
	DisplayURL string
	VideoURL   string
	// Children holds carousel entries in display order
	Children []PostNode
}

// PostNode is one entry of a carousel
type PostNode struct {
	IsVideo    bool
	DisplayURL string
	VideoURL   string
}

// IsCarousel reports whether the post holds several media entries
func (p *Post) IsCarousel() bool {
	switch p.Typename {
	case "GraphSidecar", "XDTGraphSidecar":
		return true
	}
	return len(p.Children) > 0
}

func (m *mediaNode) toPost(shortcode string) *Post {
	post := &Post{
		Shortcode:  m.Shortcode,
		Typename:   m.Typename,
		IsVideo:    m.IsVideo,
		DisplayURL: m.DisplayURL,
		VideoURL:   m.VideoURL,
	}
	if post.Shortcode == "" {
		post.Shortcode = shortcode
	}
	if m.EdgeSidecarToChildren != nil {
		for _, edge := range m.EdgeSidecarToChildren.Edges {
			post.Children = append(post.Children, PostNode{
				IsVideo:    edge.Node.IsVideo,
				DisplayURL: edge.Node.DisplayURL,
				VideoURL:   edge.Node.VideoURL,
			})
		}
	}
	return post
}
