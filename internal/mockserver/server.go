// Package mockserver simulates the Instagram endpoints igfetch talks to:
// the GraphQL post query, the embed page and a media CDN. It is used by
// end-to-end tests of the preview and download pipeline.
package mockserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

// Media is one asset of a fixture post. Names are served under /media/.
type Media struct {
	Image string
	Video string
}

// Post is a fixture post
type Post struct {
	Shortcode string
	Media     []Media
	// LoginRequired posts answer the GraphQL query with a login page unless
	// the request carries a sessionid cookie.
	LoginRequired bool
}

// MockInstagramServer simulates Instagram endpoints with realistic behavior
type MockInstagramServer struct {
	server *httptest.Server

	mu             sync.RWMutex
	posts          map[string]Post
	errorResponses map[string]int // path or shortcode to status code
	failures       map[string]int // remaining failures per shortcode

	requestCount  int32
	queryCount    int32
	embedCount    int32
	downloadCount int32
}

// New creates and starts a mock server
func New() *MockInstagramServer {
	m := &MockInstagramServer{
		posts:          make(map[string]Post),
		errorResponses: make(map[string]int),
		failures:       make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/graphql/query/", m.handleQuery)
	mux.HandleFunc("/p/", m.handleEmbed)
	mux.HandleFunc("/media/", m.handleMedia)

	m.server = httptest.NewServer(mux)
	return m
}

// AddPost registers a fixture post
func (m *MockInstagramServer) AddPost(p Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.Shortcode] = p
}

// SetErrorResponse makes every request for key answer with code. key is a
// shortcode for the query endpoint or a media name for the CDN.
func (m *MockInstagramServer) SetErrorResponse(key string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[key] = code
}

// FailTimes makes the next n queries for shortcode answer 503
func (m *MockInstagramServer) FailTimes(shortcode string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[shortcode] = n
}

// URL returns the base URL of the mock server
func (m *MockInstagramServer) URL() string {
	return m.server.URL
}

// MediaURL returns the CDN URL of a media name
func (m *MockInstagramServer) MediaURL(name string) string {
	return m.server.URL + "/media/" + name
}

// Counts returns the number of query, embed and media requests served
func (m *MockInstagramServer) Counts() (query, embed, media int) {
	return int(atomic.LoadInt32(&m.queryCount)),
		int(atomic.LoadInt32(&m.embedCount)),
		int(atomic.LoadInt32(&m.downloadCount))
}

// RequestCount returns the total number of requests
func (m *MockInstagramServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// Close shuts down the mock server
func (m *MockInstagramServer) Close() {
	m.server.Close()
}

func (m *MockInstagramServer) lookup(shortcode string) (Post, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n := m.failures[shortcode]; n > 0 {
		m.failures[shortcode] = n - 1
		return Post{}, http.StatusServiceUnavailable, false
	}
	if code := m.errorResponses[shortcode]; code > 0 {
		return Post{}, code, false
	}
	p, ok := m.posts[shortcode]
	return p, 0, ok
}

// handleQuery answers the GraphQL post lookup
func (m *MockInstagramServer) handleQuery(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.queryCount, 1)

	var variables struct {
		Shortcode string `json:"shortcode"`
	}
	if r.URL.Query().Get("doc_id") == "" ||
		json.Unmarshal([]byte(r.URL.Query().Get("variables")), &variables) != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	post, code, ok := m.lookup(variables.Shortcode)
	if code > 0 {
		m.sendError(w, code)
		return
	}
	if !ok {
		writeJSON(w, map[string]interface{}{"data": map[string]interface{}{"xdt_shortcode_media": nil}, "status": "ok"})
		return
	}

	if post.LoginRequired && !hasSession(r) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>Log in to Instagram</body></html>")
		return
	}

	writeJSON(w, map[string]interface{}{
		"data":   map[string]interface{}{"xdt_shortcode_media": m.mediaNode(post)},
		"status": "ok",
	})
}

func (m *MockInstagramServer) mediaNode(p Post) map[string]interface{} {
	node := func(media Media) map[string]interface{} {
		n := map[string]interface{}{
			"is_video":    media.Video != "",
			"display_url": m.MediaURL(media.Image),
		}
		if media.Video != "" {
			n["video_url"] = m.MediaURL(media.Video)
		}
		return n
	}

	if len(p.Media) == 1 {
		n := node(p.Media[0])
		n["__typename"] = "XDTGraphImage"
		if p.Media[0].Video != "" {
			n["__typename"] = "XDTGraphVideo"
		}
		n["shortcode"] = p.Shortcode
		return n
	}

	var edges []map[string]interface{}
	for _, media := range p.Media {
		edges = append(edges, map[string]interface{}{"node": node(media)})
	}
	return map[string]interface{}{
		"__typename":               "XDTGraphSidecar",
		"shortcode":                p.Shortcode,
		"display_url":              m.MediaURL(p.Media[0].Image),
		"edge_sidecar_to_children": map[string]interface{}{"edges": edges},
	}
}

// handleEmbed serves /p/<shortcode>/embed/captioned/ with Open Graph tags
// for the first media of the post.
func (m *MockInstagramServer) handleEmbed(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.embedCount, 1)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[2] != "embed" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	m.mu.RLock()
	post, ok := m.posts[parts[1]]
	m.mu.RUnlock()
	if !ok || len(post.Media) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	media := post.Media[0]
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<html><head><meta property="og:image" content="%s">`, m.MediaURL(media.Image))
	if media.Video != "" {
		fmt.Fprintf(w, `<meta property="og:video" content="%s">`, m.MediaURL(media.Video))
	}
	fmt.Fprint(w, `</head><body><div class="Embed"></div></body></html>`)
}

// handleMedia simulates CDN downloads. The body is derived from the name so
// tests can check what was written.
func (m *MockInstagramServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	atomic.AddInt32(&m.downloadCount, 1)

	name := strings.TrimPrefix(r.URL.Path, "/media/")
	m.mu.RLock()
	code := m.errorResponses[name]
	m.mu.RUnlock()
	if code > 0 {
		w.WriteHeader(code)
		return
	}

	body := Body(name)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.Write(body)
}

// Body returns the bytes served for a media name
func Body(name string) []byte {
	return []byte(strings.Repeat(name+";", 64))
}

// sendError sends an error response
func (m *MockInstagramServer) sendError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "Login required", "status": "fail", "require_login": true})
	case http.StatusTooManyRequests:
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "Please wait a few minutes before you try again.", "status": "fail"})
	default:
		json.NewEncoder(w).Encode(map[string]interface{}{"message": http.StatusText(code), "status": "fail"})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func hasSession(r *http.Request) bool {
	c, err := r.Cookie("sessionid")
	return err == nil && c.Value != ""
}
