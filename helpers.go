package copycheck

import (
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
)

var ogTitleRe = regexp.MustCompile(
	`(?i)<meta\s+[^>]*property=["']og:title["'][^>]*content=["']([^"']+)["']|` +
		`<meta\s+[^>]*content=["']([^"']+)["'][^>]*property=["']og:title["']`,
)

var titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// ExtractPageTitle pulls the og:title (or <title> fallback) from the raw
// HTML of a source page, for recording what the page claims the content is.
// Returns empty string if not found.
func ExtractPageTitle(pageHTML string) string {
	if m := ogTitleRe.FindStringSubmatch(pageHTML); m != nil {
		title := m[1]
		if title == "" {
			title = m[2]
		}
		if title != "" {
			return html.UnescapeString(title)
		}
	}
	if m := titleTagRe.FindStringSubmatch(pageHTML); m != nil {
		return html.UnescapeString(m[1])
	}
	return ""
}

// EncodeBase64 encodes bytes to base64 string.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EncodeDataURL creates a data: URI from bytes and MIME type.
func EncodeDataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
