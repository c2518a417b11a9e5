// Utilities for turning browser request headers into a ytmusicapi browser.json.
package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// CurlHeaders represents parsed headers and cookies from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(string(content))
}

// ParseCurlCommand extracts headers and the cookie from a "Copy as cURL" command.
//
// A cookie passed with -b wins over a Cookie header.
func ParseCurlCommand(curlCmd string) (*CurlHeaders, error) {
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var headerCookie string

	for _, match := range curlHeaderRe.FindAllStringSubmatch(curlCmd, -1) {
		key, value, ok := strings.Cut(firstGroup(match), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		headers[key] = value
	}

	cookie := headerCookie
	if m := curlCookieRe.FindStringSubmatch(curlCmd); m != nil {
		cookie = firstGroup(m)
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return &CurlHeaders{Headers: headers, Cookie: cookie}, nil
}

func firstGroup(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// Authorization returns the authorization header regardless of its casing.
func (c *CurlHeaders) Authorization() string {
	for k, v := range c.Headers {
		if strings.EqualFold(k, "authorization") {
			return v
		}
	}
	return ""
}

// BrowserJSON builds the browser.json document ytmusicapi expects.
//
// Both the authorization header and the cookie are required.
func (c *CurlHeaders) BrowserJSON() ([]byte, error) {
	auth := c.Authorization()
	if auth == "" {
		return nil, fmt.Errorf("%w: authorization header is required", ErrMissingCredentials)
	}
	if c.Cookie == "" {
		return nil, fmt.Errorf("%w: cookie is required", ErrMissingCredentials)
	}

	doc := map[string]string{
		"Accept":          "*/*",
		"Authorization":   auth,
		"Content-Type":    "application/json",
		"X-Goog-AuthUser": "0",
		"x-origin":        "https://music.youtube.com",
		"Cookie":          c.Cookie,
	}
	return json.MarshalIndent(doc, "", "    ")
}
