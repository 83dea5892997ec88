package copycheck

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Rights classifies a content source by copyright safety.
type Rights int

const (
	RightsLicensed   Rights = iota // known open-license source (archive.org, wikimedia, etc.)
	RightsUnknown                  // no info — usable with caution
	RightsInfringing               // piracy/release host — reject entirely
)

func (r Rights) String() string {
	switch r {
	case RightsLicensed:
		return "licensed"
	case RightsInfringing:
		return "infringing"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the rights classification as its string form.
func (r Rights) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses the string form written by MarshalJSON.
func (r *Rights) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "licensed":
		*r = RightsLicensed
	case "unknown":
		*r = RightsUnknown
	case "infringing":
		*r = RightsInfringing
	default:
		return fmt.Errorf("unknown rights classification %q", str)
	}
	return nil
}

// BlockedHosts are piracy and release-distribution sites. Content sourced
// from these hosts is treated as infringing outright.
var BlockedHosts = []string{
	"thepiratebay",
	"piratebay",
	"1337x",
	"rarbg",
	"yts.",
	"kickasstorrents",
	"kickass.",
	"torrentgalaxy",
	"limetorrents",
	"torrentz2",
	"nyaa.si",
	"rutracker",
	"rutor.",
	"fmovies",
	"putlocker",
	"solarmovie",
	"123movies",
	"gomovies",
	"soap2day",
	"yesmovies",
	"movies123",
	"primewire",
	"vumoo",
	"hdtoday",
}

// BlockedPathPatterns are URL path segments that indicate pirated-release
// pages even on unrecognized hosts.
var BlockedPathPatterns = []string{
	"/torrent",
	"/full-movie",
	"/watch-free",
	"/download-movie",
}

// LicensedHosts are open-license / public-domain media sources.
var LicensedHosts = []string{
	"archive.org",
	"commons.wikimedia",
	"wikimedia",
	"unsplash",
	"pexels",
	"pixabay",
	"openverse",
	"freesound",
	"ccmixter",
	"jamendo",
	"incompetech",
	"musopen",
}

// ClassifySource classifies a source URL against known blocked (piracy) and
// licensed (open-license) host lists, plus URL path patterns that indicate
// pirated-release pages.
func ClassifySource(rawURL string) Rights {
	return ClassifySourceWith(rawURL, nil, nil)
}

// ClassifySourceWith is like ClassifySource but also checks caller-supplied
// extra blocked and safe host lists. The extra slices use the same
// substring-match semantics as the built-in BlockedHosts / LicensedHosts.
func ClassifySourceWith(rawURL string, extraBlocked, extraSafe []string) Rights {
	if isBlockedSource(rawURL, extraBlocked) {
		return RightsInfringing
	}
	if isLicensedSource(rawURL, extraSafe) {
		return RightsLicensed
	}
	return RightsUnknown
}

// isBlockedSource reports whether the URL matches a blocked host, path
// pattern, or any of the extra blocked hosts.
func isBlockedSource(rawURL string, extra []string) bool {
	if rawURL == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	if host != "" {
		for _, d := range BlockedHosts {
			if strings.Contains(host, d) {
				return true
			}
		}
		for _, d := range extra {
			if strings.Contains(host, d) {
				return true
			}
		}
	}
	path := strings.ToLower(parsed.Path)
	for _, p := range BlockedPathPatterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// isLicensedSource reports whether the URL matches a known open-license host
// or any of the extra safe hosts.
func isLicensedSource(rawURL string, extra []string) bool {
	host := sourceHost(rawURL)
	if host == "" {
		return false
	}
	for _, d := range LicensedHosts {
		if strings.Contains(host, d) {
			return true
		}
	}
	for _, d := range extra {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}

func sourceHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}
