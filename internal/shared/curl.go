// Utilities for lifting a logged-in browser session out of a "Copy as cURL" command.
package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`(?:-b|--cookie)\s+'([^']+)'|(?:-b|--cookie)\s+"([^"]+)"`)
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

// ParseCurlCommand parses a cURL command string and extracts headers.
//
// A cookie given with -b/--cookie wins over a Cookie header.
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
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

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

// Header returns the value of the named header, matched case-insensitively.
func (c *CurlHeaders) Header(name string) string {
	for k, v := range c.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// CSRFToken returns the anti-forgery token the browser sent, if any.
func (c *CurlHeaders) CSRFToken() string {
	if tok := c.Header("X-CSRFToken"); tok != "" {
		return tok
	}
	return c.Header("X-CSRF-Token")
}

// SaveCookie writes a Cookie header value to path with owner-only permissions.
func SaveCookie(path, cookie string) error {
	if cookie == "" {
		return fmt.Errorf("%w: empty cookie", ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cookie+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// LoadCookie reads a Cookie header value saved by [SaveCookie].
//
// A missing file yields [ErrNotAuthenticated].
func LoadCookie(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: no cookie at %s (run 'sweetlist setup cookie')", ErrNotAuthenticated, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cookie file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func firstGroup(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

