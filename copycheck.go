// Package copycheck is a copyright pre-check pipeline for user-uploaded
// course material. Given an uploaded file or a source URL it combines
// heuristic signals (filename patterns, file size, media duration, embedded
// rights metadata, source-domain reputation, platform content-ID lookups)
// into a single CheckResult verdict, and can persist that verdict onto the
// owning content record in a headless CMS.
package copycheck

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Provider selects how a check is performed.
type Provider int

const (
	// ProviderAutomated runs the local heuristic pipeline against file bytes.
	ProviderAutomated Provider = iota
	// ProviderPlatformMatch queries a hosting platform's content-ID service
	// for a supplied video URL.
	ProviderPlatformMatch
	// ProviderManual defers the verdict to a human reviewer.
	ProviderManual
)

func (p Provider) String() string {
	switch p {
	case ProviderPlatformMatch:
		return "platform_match"
	case ProviderManual:
		return "manual"
	default:
		return "automated"
	}
}

// FileUpload is the uploaded file under examination. Size is the declared
// byte size and may exceed len(Data) when only a prefix was retrieved.
type FileUpload struct {
	Name     string
	Size     int64
	Modified time.Time
	MIMEType string // e.g. "video/mp4"
	Data     []byte
}

// CheckRequest describes one copyright check. Exactly one of File/SourceURL
// must be set for the automated provider; SourceURL is required for
// platform_match.
type CheckRequest struct {
	File      *FileUpload
	SourceURL string
	Provider  Provider

	// FingerprintOverride skips content hashing and records this value as
	// the fingerprint instead (e.g. a fingerprint computed at upload time).
	FingerprintOverride string
}

// Request validation errors. These are caller bugs, not check outcomes.
var (
	ErrNoInput       = errors.New("copycheck: neither file nor source URL supplied")
	ErrNoSourceURL   = errors.New("copycheck: platform_match requires a source URL")
	ErrEmptyFileName = errors.New("copycheck: file upload has no name")
)

// MediaInput represents a media preview for multimodal LLM screening.
type MediaInput struct {
	URL      string // data: URI or HTTP URL
	MIMEType string // e.g. "image/jpeg"
}

// Cache abstracts key-value caching (Redis, sync.Map, etc.)
type Cache interface {
	Key(prefix, value string) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// Classifier abstracts multimodal LLM calls for originality screening.
type Classifier interface {
	Classify(ctx context.Context, prompt string, media []MediaInput) (string, error)
}

// VerdictEvent is emitted once per completed check for audit logging.
type VerdictEvent struct {
	Fingerprint string
	Provider    string
	Status      Status
	Violations  int
	Warnings    int
	Source      string // which stage settled the verdict: "aggregate", "remote_match", "manual"
}

// Config holds all dependencies injected by the consumer.
type Config struct {
	CMS *CMSClient // required for PersistResult (nil = persistence unavailable)

	// ContentCollection is the CMS collection holding checked records.
	// Default: "course-materials".
	ContentCollection string

	// MatchProviders are content-ID backends consulted by the remote match
	// checker. When empty, a no-match stub is used.
	MatchProviders []MatchProvider

	Cache         Cache        // optional: caches LLM screening verdicts
	Classifier    Classifier   // optional: LLM screening of warning-level results
	StealthClient *http.Client // optional: TLS-fingerprinted client for downloads
	HTTPClient    *http.Client // optional: default http client (nil = http.DefaultClient)
	UserAgent     string       // default: "Mozilla/5.0 (compatible; go-copycheck/1.0)"

	// ExtraBlockedDomains are additional piracy/release hosts to block.
	ExtraBlockedDomains []string

	// ExtraSafeDomains are additional open-license hosts to treat as licensed.
	ExtraSafeDomains []string

	// ScreenPrompt overrides the default originality screening prompt
	// (DefaultScreenPrompt).
	ScreenPrompt string

	// Optional callbacks for metrics/logging.
	OnCheck   func()
	OnPanic   func(tag string, r any)
	OnVerdict func(VerdictEvent) // audit log for every settled verdict
}

// defaults fills zero-value fields with sensible defaults.
func (cfg *Config) defaults() {
	if cfg.ContentCollection == "" {
		cfg.ContentCollection = "course-materials"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; go-copycheck/1.0)"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
}

// validate rejects requests whose shape cannot be checked at all.
func (req *CheckRequest) validate() error {
	switch req.Provider {
	case ProviderPlatformMatch:
		if req.SourceURL == "" {
			return ErrNoSourceURL
		}
	case ProviderManual:
		// Manual review accepts anything; a reviewer decides.
	default:
		if req.File == nil && req.SourceURL == "" {
			return ErrNoInput
		}
		if req.File != nil && req.File.Name == "" {
			return ErrEmptyFileName
		}
	}
	return nil
}
