package copycheck

import (
	"context"
	"log/slog"
	"strings"
)

// DefaultScreenPrompt is the default prompt for LLM-based originality
// screening of warning-level results. Consumers may override via
// Config.ScreenPrompt.
const DefaultScreenPrompt = `You are a copyright screening assistant for an e-learning platform.
Instructors upload their own course material; we must not host copyrighted
works they do not own.

Assess this upload. Answer with exactly one word:
- ORIGINAL — looks like self-made course material (slides, screen recording,
  talking-head lecture, hand-drawn diagram, original photo).
- INFRINGING — looks like commercial media (movie/TV frame, album art,
  stock photo with watermark, scanned textbook page, broadcast footage).
- UNSURE — cannot tell from the preview.

Answer:`

const screenMaxBytes = 200 * 1024 // 200KB preview sent to the LLM

// ScreenVerdict values returned by ScreenUpload.
const (
	ScreenOriginal   = "ORIGINAL"
	ScreenInfringing = "INFRINGING"
	ScreenUnsure     = "UNSURE"
)

// ScreenUpload asks the configured multimodal LLM for a second opinion on a
// warning-level result. It is annotation only: the verdict is recorded on
// the result's metadata and never changes the aggregated status.
// Returns "" when no classifier is configured or on any error (graceful
// degradation — screening never blocks the pipeline).
func (cfg *Config) ScreenUpload(ctx context.Context, fingerprint string, file *FileUpload) string {
	cfg.defaults()

	if cfg.Classifier == nil || file == nil || len(file.Data) == 0 {
		return ""
	}
	// Only image previews can be screened multimodally for now.
	if KindOf(file.MIMEType) != KindImage {
		return ""
	}

	if cfg.Cache != nil && fingerprint != "" {
		cacheKey := cfg.Cache.Key("copyscreen", fingerprint)
		var cached string
		if cfg.Cache.Get(ctx, cacheKey, &cached) {
			return cached
		}
		result := cfg.doScreen(ctx, file)
		cfg.Cache.Set(ctx, cacheKey, result)
		return result
	}

	return cfg.doScreen(ctx, file)
}

func (cfg *Config) doScreen(ctx context.Context, file *FileUpload) string {
	data := file.Data
	if len(data) > screenMaxBytes {
		data = data[:screenMaxBytes]
	}
	dataURL := EncodeDataURL(data, file.MIMEType)

	prompt := cfg.ScreenPrompt
	if prompt == "" {
		prompt = DefaultScreenPrompt
	}

	resp, err := cfg.Classifier.Classify(ctx, prompt, []MediaInput{{URL: dataURL, MIMEType: file.MIMEType}})
	if err != nil {
		slog.Debug("copycheck: screening LLM error", "file", file.Name, "error", err.Error())
		return ""
	}

	slog.Debug("copycheck: screening result", "file", file.Name, "response", resp)
	return ParseScreenResponse(resp)
}

// ParseScreenResponse normalizes an LLM response to one of: "ORIGINAL",
// "INFRINGING", "UNSURE", or "".
func ParseScreenResponse(resp string) string {
	word := strings.ToUpper(strings.TrimSpace(resp))
	switch {
	case strings.HasPrefix(word, ScreenOriginal):
		return ScreenOriginal
	case strings.HasPrefix(word, ScreenInfringing):
		return ScreenInfringing
	case strings.HasPrefix(word, ScreenUnsure):
		return ScreenUnsure
	default:
		return ""
	}
}
