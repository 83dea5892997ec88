package copycheck

import (
	"bytes"
	"strings"

	mp4 "github.com/abema/go-mp4"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// MediaKind is the coarse media class of an upload, derived from MIME type.
type MediaKind int

const (
	KindOther MediaKind = iota
	KindVideo
	KindAudio
	KindImage
)

func (k MediaKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// KindOf derives the media kind from a MIME type string.
func KindOf(mimeType string) MediaKind {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return KindAudio
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	default:
		return KindOther
	}
}

// Duration policy thresholds, in seconds. Uploads beyond these lengths are
// far more likely to be full copyrighted works than original course
// material.
const (
	maxVideoDurationSeconds = 7200  // 2h
	maxAudioDurationSeconds = 10800 // 3h
	minAudioDurationSeconds = 10
)

// durationConfidence is the confidence attached to duration violations.
const durationConfidence = 0.65

// MediaInfo is the outcome of probing an upload's decoded duration.
type MediaInfo struct {
	Duration    float64 // seconds; meaningful only when HasMetadata
	HasMetadata bool
	Indicators  []string // human-readable suspicion notes
}

// ProbeMediaInfo decodes the duration of a video/audio upload without full
// playback. MP4/MOV/M4A containers are probed via their movie header; MP3
// streams via frame decoding. Corrupt or unsupported input resolves to
// HasMetadata=false — decode failure is recoverable, never an error.
// Decoder panics on malformed input are recovered and reported through
// cfg.OnPanic.
func (cfg *Config) ProbeMediaInfo(file *FileUpload) (info MediaInfo) {
	if file == nil || len(file.Data) == 0 {
		return MediaInfo{}
	}

	defer func() {
		if r := recover(); r != nil {
			if cfg.OnPanic != nil {
				cfg.OnPanic("mediaProbe", r)
			}
			info = MediaInfo{}
		}
	}()

	var (
		duration float64
		ok       bool
	)
	switch file.MIMEType {
	case "video/mp4", "video/quicktime", "audio/mp4", "audio/x-m4a":
		duration, ok = probeMP4Duration(file.Data)
	case "audio/mpeg", "audio/mp3":
		duration, ok = probeMP3Duration(file.Data)
	}
	if !ok {
		return MediaInfo{}
	}

	info = MediaInfo{Duration: duration, HasMetadata: true}

	switch KindOf(file.MIMEType) {
	case KindVideo:
		if duration > maxVideoDurationSeconds {
			info.Indicators = append(info.Indicators, "very long duration for video")
		}
	case KindAudio:
		if duration > maxAudioDurationSeconds {
			info.Indicators = append(info.Indicators, "very long duration for audio")
		}
		if duration < minAudioDurationSeconds {
			info.Indicators = append(info.Indicators, "very short audio, confirm originality")
		}
	}
	return info
}

// probeMP4Duration reads the movie header of an MP4-family container.
func probeMP4Duration(data []byte) (float64, bool) {
	probe, err := mp4.Probe(bytes.NewReader(data))
	if err != nil || probe == nil || probe.Timescale == 0 {
		return 0, false
	}
	return float64(probe.Duration) / float64(probe.Timescale), true
}

// probeMP3Duration derives the duration from the decoded PCM length.
// go-mp3 always yields 16-bit stereo, i.e. 4 bytes per sample frame.
func probeMP3Duration(data []byte) (float64, bool) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil || dec.SampleRate() == 0 {
		return 0, false
	}
	const bytesPerFrame = 4
	return float64(dec.Length()) / float64(bytesPerFrame) / float64(dec.SampleRate()), true
}

// durationFindings maps a probed duration onto violations and warnings per
// the duration policy: video beyond two hours or audio beyond three hours
// is a violation; audio under ten seconds is a low-severity warning.
func durationFindings(kind MediaKind, info MediaInfo) ([]Violation, []Warning) {
	if !info.HasMetadata {
		return nil, nil
	}

	var (
		violations []Violation
		warnings   []Warning
	)
	switch kind {
	case KindVideo:
		if info.Duration > maxVideoDurationSeconds {
			violations = append(violations, Violation{
				Type:       "very_long_duration",
				Source:     "media_metadata",
				Confidence: durationConfidence,
				Message:    "video duration exceeds two hours, typical of full-length copyrighted works",
			})
		}
	case KindAudio:
		if info.Duration > maxAudioDurationSeconds {
			violations = append(violations, Violation{
				Type:       "very_long_duration",
				Source:     "media_metadata",
				Confidence: durationConfidence,
				Message:    "audio duration exceeds three hours, typical of full albums or audiobooks",
			})
		}
		if info.Duration < minAudioDurationSeconds {
			warnings = append(warnings, Warning{
				Type:     "short_audio",
				Message:  "audio is very short, confirm originality",
				Severity: SeverityLow,
			})
		}
	}
	return violations, warnings
}
