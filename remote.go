package copycheck

import (
	"context"
	"log/slog"
	"regexp"
	"time"
)

// matchTimeout bounds a single content-ID lookup. The platform service has
// no contractual latency bound.
const matchTimeout = 10 * time.Second

// contentIDConfidence is the confidence attached to a platform content-ID
// match.
const contentIDConfidence = 0.85

// youtubeIDRes recognize common YouTube URL shapes. The capture group is the
// 11-character video identifier.
var youtubeIDRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?i)youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?i)youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?i)youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?i)youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// ExtractYouTubeID pulls a YouTube video identifier out of a URL.
// Returns "" when the URL does not look like a YouTube video link.
func ExtractYouTubeID(rawURL string) string {
	for _, re := range youtubeIDRes {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// MatchProvider abstracts a hosting platform's content-identification
// service: given a platform video ID, it reports whether the platform knows
// the content as copyrighted material. The real Content ID contract is an
// open integration question; implementations plug in here.
type MatchProvider interface {
	Name() string
	Match(ctx context.Context, videoID string) (bool, error)
}

// StubMatchProvider is the default no-match provider used until a real
// content-ID integration is configured.
type StubMatchProvider struct{}

func (StubMatchProvider) Name() string { return "stub" }

func (StubMatchProvider) Match(context.Context, string) (bool, error) {
	return false, nil
}

// resolveMatchProviders returns the effective provider list, falling back to
// the no-match stub.
func (cfg *Config) resolveMatchProviders() []MatchProvider {
	if len(cfg.MatchProviders) > 0 {
		return cfg.MatchProviders
	}
	return []MatchProvider{StubMatchProvider{}}
}

// CheckRemoteMatch runs the platform content-ID check for a source URL.
// This check is advisory, not load-bearing: it never returns an error.
//   - URL without a recognizable video ID ⇒ passed, with a note that the
//     check was skipped.
//   - Content-ID match ⇒ warning status carrying one "content_id_match"
//     violation and a possible-claims warning.
//   - Provider failure (network, API error) ⇒ warning status with a single
//     low-severity "unable to verify" warning.
//
// Providers are consulted sequentially; a failing provider is logged and
// skipped so remaining providers still contribute.
func (cfg *Config) CheckRemoteMatch(ctx context.Context, rawURL string) *CheckResult {
	cfg.defaults()

	res := newCheckResult(ProviderPlatformMatch)
	res.Status = StatusChecking

	videoID := ExtractYouTubeID(rawURL)
	if videoID == "" {
		res.Status = StatusPassed
		res.Metadata["skipped"] = true
		res.Metadata["note"] = "check skipped: not a recognized YouTube URL"
		return res
	}
	res.Metadata["video_id"] = videoID

	ctx, cancel := context.WithTimeout(ctx, matchTimeout)
	defer cancel()

	answered := false
	for _, p := range cfg.resolveMatchProviders() {
		matched, err := p.Match(ctx, videoID)
		if err != nil {
			slog.Warn("copycheck: match provider failed", "provider", p.Name(), "error", err.Error())
			continue
		}
		answered = true
		if matched {
			res.addViolation(Violation{
				Type:       "content_id_match",
				Source:     p.Name(),
				Confidence: contentIDConfidence,
				Message:    "platform content identification reported a match",
			})
			res.addWarning(Warning{
				Type:     "possible_copyright_claim",
				Message:  "the platform may issue copyright claims against this content",
				Severity: SeverityMedium,
			})
			res.Status = StatusWarning
			return res
		}
	}

	if !answered {
		res.addWarning(Warning{
			Type:     "unverified",
			Message:  "unable to verify content with the platform, proceed with caution",
			Severity: SeverityLow,
		})
		res.Status = StatusWarning
		return res
	}

	res.Status = StatusPassed
	res.Metadata["note"] = "no content identification match"
	return res
}
