package instagram

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	errs "igfetch/pkg/errors"
)

// fetchEmbed reads the captioned embed page, which stays public for posts
// the metadata endpoint refuses to describe anonymously.
func (c *Client) fetchEmbed(ctx context.Context, shortcode string) (*Post, error) {
	resp, err := c.Get(ctx, GetEmbedURL(c.baseURL, shortcode))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	return parseEmbedPage(resp.Body, shortcode)
}

// parseEmbedPage extracts a single-entry post from embed HTML.
// Meta tags win over the rendered media elements.
func parseEmbedPage(r io.Reader, shortcode string) (*Post, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &errs.Error{Type: errs.ErrorTypeParsing, Message: fmt.Sprintf("invalid embed page: %v", err)}
	}

	display := metaContent(doc, "og:image")
	if display == "" {
		if src, ok := doc.Find("img.EmbeddedMediaImage").First().Attr("src"); ok {
			display = strings.TrimSpace(src)
		}
	}

	video := metaContent(doc, "og:video")
	if video == "" {
		video = metaContent(doc, "og:video:secure_url")
	}
	if video == "" {
		v := doc.Find("video").First()
		if src, ok := v.Attr("src"); ok {
			video = strings.TrimSpace(src)
		} else if src, ok := v.Find("source").First().Attr("src"); ok {
			video = strings.TrimSpace(src)
		}
		if display == "" {
			if poster, ok := v.Attr("poster"); ok {
				display = strings.TrimSpace(poster)
			}
		}
	}

	if display == "" && video == "" {
		return nil, &errs.Error{Type: errs.ErrorTypeParsing, Message: "embed page holds no media"}
	}

	return &Post{
		Shortcode:  shortcode,
		Typename:   "EmbedPage",
		IsVideo:    video != "",
		DisplayURL: display,
		VideoURL:   video,
	}, nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First()
	if content, ok := sel.Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}
