package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"igfetch/pkg/config"
	errs "igfetch/pkg/errors"
	"igfetch/pkg/logger"
	"igfetch/pkg/retry"
)

// Options configures a Client
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	DocID         string
	EmbedFallback bool
	// BaseURL overrides the Instagram host, mostly for tests
	BaseURL string
	// Retry controls re-attempts of the metadata request; nil disables retries
	Retry  *retry.Config
	Logger logger.Logger
	// Transport overrides the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// OptionsFromConfig builds client options from the loaded configuration
func OptionsFromConfig(cfg *config.Config, log logger.Logger) Options {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Fetch.MaxRetries
	retryCfg.Logger = log

	return Options{
		UserAgent:     cfg.Instagram.UserAgent,
		Timeout:       cfg.Instagram.RequestTimeout,
		DocID:         cfg.Instagram.GraphQLDocID,
		EmbedFallback: cfg.Instagram.EmbedFallback,
		Retry:         retryCfg,
		Logger:        log,
	}
}

// Client represents an Instagram API client, anonymous or carrying a session
type Client struct {
	httpClient    *http.Client
	headers       map[string]string
	baseURL       string
	base          *url.URL
	docID         string
	embedFallback bool
	retry         *retry.Config
	logger        logger.Logger
	username      string
}

// NewClient creates an anonymous Instagram client
func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.DocID == "" {
		opts.DocID = DefaultPostDocID
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultConfig().Instagram.UserAgent
	}
	retryCfg := opts.Retry
	if retryCfg == nil {
		retryCfg = &retry.Config{MaxAttempts: 1}
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		log.WarnWithFields("invalid base URL, using default", map[string]interface{}{
			"base_url": opts.BaseURL,
			"error":    err.Error(),
		})
		opts.BaseURL = BaseURL
		base, _ = url.Parse(BaseURL)
	}

	// cookiejar.New only fails on a bad PublicSuffixList
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		headers: map[string]string{
			"User-Agent":      opts.UserAgent,
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
			"X-IG-App-ID":     WebAppID,
			"Referer":         opts.BaseURL + "/",
		},
		baseURL:       opts.BaseURL,
		base:          base,
		docID:         opts.DocID,
		embedFallback: opts.EmbedFallback,
		retry:         retryCfg,
		logger:        log,
	}
}

// Open returns a client carrying the session stored at path, or an anonymous
// client when username or path is empty or the session cannot be loaded.
func Open(opts Options, username, path string) *Client {
	client := NewClient(opts)
	if username == "" || path == "" {
		return client
	}

	if err := client.LoadSessionFile(username, path); err != nil {
		client.logger.WarnWithFields("session not loaded, continuing anonymously", map[string]interface{}{
			"username": username,
			"path":     path,
			"error":    err.Error(),
		})
	}
	return client
}

// Username returns the session owner, or "" for anonymous clients
func (c *Client) Username() string {
	return c.username
}

// IsAuthenticated reports whether a session is attached
func (c *Client) IsAuthenticated() bool {
	return c.username != ""
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method":        req.Method,
		"url":           req.URL.String(),
		"authenticated": c.IsAuthenticated(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("unexpected response: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps error statuses to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	apiErr := errs.FromStatus(resp.StatusCode)
	if apiErr == nil {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}
	if apiErr.Type == errs.ErrorTypeServerError || apiErr.Type == errs.ErrorTypeUnknown {
		c.logger.ErrorWithFields("unexpected API status", fields)
	} else {
		c.logger.WarnWithFields(string(apiErr.Type), fields)
	}
	return apiErr
}

// FetchPost returns the media description of the post with the given shortcode.
// Transient failures of the metadata request are retried; when the request
// yields no media the embed page is tried before giving up.
func (c *Client) FetchPost(ctx context.Context, shortcode string) (*Post, error) {
	post, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Post, error) {
		return c.fetchGraphQL(ctx, shortcode)
	}, c.retry)
	if err == nil {
		return post, nil
	}

	if !c.embedFallback || !fallbackWorthy(err) {
		return nil, err
	}

	c.logger.InfoWithFields("metadata request yielded no media, trying embed page", map[string]interface{}{
		"shortcode": shortcode,
		"reason":    err.Error(),
	})

	embedded, embedErr := c.fetchEmbed(ctx, shortcode)
	if embedErr != nil {
		c.logger.DebugWithFields("embed fallback failed", map[string]interface{}{
			"shortcode": shortcode,
			"error":     embedErr.Error(),
		})
		return nil, err
	}
	return embedded, nil
}

func (c *Client) fetchGraphQL(ctx context.Context, shortcode string) (*Post, error) {
	var resp postQueryResponse
	if err := c.GetJSON(ctx, GetPostQueryURL(c.baseURL, c.docID, shortcode), &resp); err != nil {
		return nil, err
	}

	media := resp.Data.ShortcodeMedia
	if media == nil {
		media = resp.Data.XDTShortcodeMedia
	}
	if media == nil {
		if resp.RequiresToLogin {
			return nil, &errs.Error{Type: errs.ErrorTypeAuth, Message: "login required to view this post"}
		}
		return nil, &errs.Error{Type: errs.ErrorTypeNotFound, Message: "post not found or not accessible"}
	}

	return media.toPost(shortcode), nil
}

// fallbackWorthy reports whether the embed page could succeed where the
// metadata request failed.
func fallbackWorthy(err error) bool {
	switch errs.TypeOf(err) {
	case errs.ErrorTypeParsing, errs.ErrorTypeAuth, errs.ErrorTypeNotFound:
		return true
	default:
		return false
	}
}
