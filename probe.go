package copycheck

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// probeTimeout bounds the header probe of a source URL.
const probeTimeout = 10 * time.Second

// SourceProbe holds what a header probe learned about a source URL.
type SourceProbe struct {
	ContentType   string
	ContentLength int64 // -1 when the server did not declare a length
}

// ProbeSource fetches the headers of a source URL to learn the declared
// content type and byte size without downloading the body. This lets the
// size policy run on URL-only checks even when the body is too large to
// retrieve.
// Returns nil on any failure (unreachable, non-2xx, non-media content) —
// probing is best-effort.
func (cfg *Config) ProbeSource(ctx context.Context, rawURL string) *SourceProbe {
	cfg.defaults()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := &http.Client{
		Timeout: probeTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			const maxRedirects = 3
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
	resp, err := client.Do(req) //nolint:gosec // G704: URL is caller-supplied by design — SSRF is caller's responsibility
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	ct := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct != "" && !mediaContentType(ct) && !strings.HasPrefix(ct, "text/html") {
		return nil
	}

	return &SourceProbe{
		ContentType:   ct,
		ContentLength: resp.ContentLength,
	}
}

// PageInfo holds what a source-page inspection learned.
type PageInfo struct {
	Title      string // og:title or <title> of the page
	LicenseURL string // Creative Commons license URL declared on the page
}

// pageMaxBytes caps how much of a source page is read during inspection.
const pageMaxBytes = 256 * 1024

// InspectSourcePage fetches a non-media source URL as HTML and extracts the
// page title and any declared Creative Commons license. Returns nil on any
// failure or when the URL does not serve HTML — inspection is best-effort.
func (cfg *Config) InspectSourcePage(ctx context.Context, rawURL string) *PageInfo {
	cfg.defaults()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := cfg.HTTPClient.Do(req) //nolint:gosec // G704: URL is caller-supplied by design — SSRF is caller's responsibility
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, pageMaxBytes))
	if err != nil {
		return nil
	}
	pageHTML := string(body)

	return &PageInfo{
		Title:      ExtractPageTitle(pageHTML),
		LicenseURL: ExtractCCLicense(pageHTML),
	}
}
