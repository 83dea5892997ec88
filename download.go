package copycheck

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// DownloadOpts configures a source media download.
type DownloadOpts struct {
	MaxBytes  int64         // max response body size (default: 16MB)
	MinBytes  int           // reject if smaller (default: 0)
	Timeout   time.Duration // per-request timeout (default: 30s)
	UserAgent string        // override config user agent
}

const (
	defaultMaxBytes        = 16 * 1024 * 1024
	defaultDownloadTimeout = 30 * time.Second
)

// DownloadResult holds downloaded media data.
type DownloadResult struct {
	Data     []byte
	MIMEType string
}

// Download fetches media bytes from url so the local heuristics can run
// against URL-sourced content. Tries cfg.StealthClient first (if set), falls
// back to cfg.HTTPClient. Only media content types (video, audio, image,
// octet-stream) are accepted.
// Returns nil result (not error) on recoverable failures (404, non-media
// content, oversized) for graceful degradation.
func (cfg *Config) Download(ctx context.Context, url string, opts DownloadOpts) (*DownloadResult, error) {
	cfg.defaults()

	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultDownloadTimeout
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = cfg.UserAgent
	}

	// Try stealth client first.
	if cfg.StealthClient != nil {
		if r := fetchMediaData(ctx, cfg.StealthClient, url, ua, opts); r != nil {
			return r, nil
		}
	}

	// Fallback to regular client.
	r := fetchMediaData(ctx, cfg.HTTPClient, url, ua, opts)
	return r, nil
}

// mediaContentType reports whether ct is a content type worth analyzing.
func mediaContentType(ct string) bool {
	for _, prefix := range []string{"video/", "audio/", "image/"} {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return ct == "application/octet-stream"
}

func fetchMediaData(ctx context.Context, client *http.Client, mediaURL, ua string, opts DownloadOpts) *DownloadResult {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req) //nolint:gosec // G704: URL is caller-supplied by design — SSRF is caller's responsibility
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	ct := resp.Header.Get("Content-Type")
	// Strip MIME parameters: "video/mp4; codecs=avc1" → "video/mp4"
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !mediaContentType(ct) {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes))
	if err != nil || len(data) < opts.MinBytes {
		return nil
	}

	return &DownloadResult{Data: data, MIMEType: ct}
}
