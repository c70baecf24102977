package instagram

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	errs "igfetch/pkg/errors"
)

// SessionCookie is the cookie that makes a cookie set a logged-in session
const SessionCookie = "sessionid"

// LoadSessionFile attaches the session stored at path to the client.
// The client is left untouched when the file cannot be used.
func (c *Client) LoadSessionFile(username, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	cookies, err := ParseSessionData(data)
	if err != nil {
		return err
	}

	jarCookies := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		jarCookies = append(jarCookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	c.httpClient.Jar.SetCookies(c.base, jarCookies)

	if csrf := cookies["csrftoken"]; csrf != "" {
		c.headers["X-CSRFToken"] = csrf
	}
	c.username = username

	c.logger.InfoWithFields("session loaded", map[string]interface{}{
		"username": username,
		"cookies":  len(cookies),
	})
	return nil
}

// ParseSessionData decodes a session export into cookie name/value pairs.
// Two encodings are understood: a JSON object mapping cookie names to values
// and a Netscape cookies.txt file. A session cookie must be present.
func ParseSessionData(data []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &errs.Error{Type: errs.ErrorTypeAuth, Message: "session file is empty"}
	}

	var (
		cookies map[string]string
		err     error
	)
	if trimmed[0] == '{' {
		cookies, err = parseJSONCookies(trimmed)
	} else {
		cookies, err = parseNetscapeCookies(trimmed)
	}
	if err != nil {
		return nil, err
	}

	if cookies[SessionCookie] == "" {
		return nil, &errs.Error{Type: errs.ErrorTypeAuth, Message: "session file has no sessionid cookie"}
	}
	return cookies, nil
}

func parseJSONCookies(data []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &errs.Error{Type: errs.ErrorTypeParsing, Message: fmt.Sprintf("invalid session JSON: %v", err)}
	}

	cookies := make(map[string]string, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			cookies[name] = val
		case float64, bool:
			cookies[name] = fmt.Sprint(val)
		}
	}
	return cookies, nil
}

// parseNetscapeCookies reads the tab separated cookies.txt format that browser
// exporters produce. Lines prefixed #HttpOnly_ are cookies, other # lines are comments.
func parseNetscapeCookies(data []byte) (map[string]string, error) {
	cookies := make(map[string]string)

	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "#HttpOnly_") {
			raw = strings.TrimPrefix(raw, "#HttpOnly_")
		} else if strings.HasPrefix(raw, "#") {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) < 7 {
			continue
		}
		if !strings.Contains(parts[0], "instagram.com") {
			continue
		}

		name := parts[5]
		value := strings.Join(parts[6:], " ")
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}
		cookies[name] = value
	}
	if err := s.Err(); err != nil {
		return nil, &errs.Error{Type: errs.ErrorTypeParsing, Message: fmt.Sprintf("invalid cookies file: %v", err)}
	}

	return cookies, nil
}
