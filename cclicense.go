package copycheck

import (
	"html"
	"regexp"
	"strings"
)

// ccLicensePathSegments are URL path prefixes that identify a Creative
// Commons license or public-domain dedication (as opposed to the CC
// homepage).
var ccLicensePathSegments = []string{
	"creativecommons.org/licenses/",
	"creativecommons.org/publicdomain/",
}

// IsCCLicenseURL reports whether rawURL points to a Creative Commons
// license. Case-insensitive; works with https, http, and protocol-relative
// ("//...") URLs. Returns false for empty string and for the CC homepage
// without a license path.
func IsCCLicenseURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, seg := range ccLicensePathSegments {
		if strings.Contains(lower, seg) {
			return true
		}
	}
	return false
}

// Compiled regexes for extracting CC license URLs from a source page.
// Order matters: rel="license" markup is the most authoritative.
var (
	ccRelHrefRe = regexp.MustCompile(
		`(?i)rel=["']license["'][^>]*href=["']([^"']+)["']`,
	)
	ccHrefRelRe = regexp.MustCompile(
		`(?i)href=["']([^"']+)["'][^>]*rel=["']license["']`,
	)
	ccBareHrefRe = regexp.MustCompile(
		`(?i)href=["']((?:https?:)?//creativecommons\.org/(?:licenses|publicdomain)/[^"']+)["']`,
	)
	ccMetaContentRe = regexp.MustCompile(
		`(?i)content=["']((?:https?:)?//creativecommons\.org/(?:licenses|publicdomain)/[^"']+)["']`,
	)
)

// ExtractCCLicense scans the HTML of a source page for Creative Commons
// license references. Returns the first CC license URL found, or empty
// string if none. Used to confirm that URL-sourced content is published
// under an open license.
func ExtractCCLicense(pageHTML string) string {
	for _, re := range []*regexp.Regexp{ccRelHrefRe, ccHrefRelRe} {
		if url := matchCCFromRel(re, pageHTML); url != "" {
			return url
		}
	}
	// Bare CC href (no rel="license" required), then meta tag content.
	for _, re := range []*regexp.Regexp{ccBareHrefRe, ccMetaContentRe} {
		if m := re.FindStringSubmatch(pageHTML); m != nil {
			return html.UnescapeString(m[1])
		}
	}
	return ""
}

// matchCCFromRel extracts a URL from a rel="license" regex match and returns
// it only if it is a valid CC license URL.
func matchCCFromRel(re *regexp.Regexp, pageHTML string) string {
	m := re.FindStringSubmatch(pageHTML)
	if m == nil {
		return ""
	}
	url := html.UnescapeString(m[1])
	if IsCCLicenseURL(url) {
		return url
	}
	return ""
}
