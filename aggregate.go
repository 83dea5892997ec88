package copycheck

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"
)

// Size policy thresholds, in megabytes. Course material beyond these sizes
// is more likely to be a full copyrighted work than original teaching
// content.
const (
	largeFileWarnMB = 500
	largeFileFailMB = 1000
)

// Confidences attached to aggregated violations.
const (
	suspiciousFilenameConfidence = 0.7
	veryLargeFileConfidence      = 0.6
	stockMetadataConfidence      = 0.8
	blockedSourceConfidence      = 0.9
)

// Check runs one copyright check and returns a fresh CheckResult. The
// request's provider selects the pipeline: automated heuristics,
// platform content-ID lookup, or manual review hand-off.
//
// Errors are returned only for caller bugs (invalid request shape) and for
// fingerprint hashing failures; every advisory signal degrades gracefully
// inside the result instead.
func (cfg *Config) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	cfg.defaults()

	if cfg.OnCheck != nil {
		cfg.OnCheck()
	}

	if err := req.validate(); err != nil {
		return nil, err
	}

	switch req.Provider {
	case ProviderManual:
		return cfg.checkManual(req)
	case ProviderPlatformMatch:
		res := cfg.CheckRemoteMatch(ctx, req.SourceURL)
		if req.FingerprintOverride != "" {
			res.Fingerprint = req.FingerprintOverride
		}
		cfg.emitVerdict(res, "remote_match")
		return res, nil
	default:
		return cfg.checkAutomated(ctx, req)
	}
}

// checkManual hands the upload to a human reviewer. manual_review is
// terminal and only ever reachable through explicit provider selection —
// no automated signal produces it.
func (cfg *Config) checkManual(req CheckRequest) (*CheckResult, error) {
	res := newCheckResult(ProviderManual)
	res.Status = StatusChecking

	fp, err := fingerprintFor(req, req.File)
	if err != nil {
		return nil, err
	}
	res.Fingerprint = fp
	res.Status = StatusManualReview
	res.Metadata["note"] = "queued for manual review"
	cfg.emitVerdict(res, "manual")
	return res, nil
}

// checkAutomated runs the local heuristic pipeline: filename analysis, size
// policy, media duration, embedded rights metadata and source-host
// reputation, aggregated into one verdict.
func (cfg *Config) checkAutomated(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	res := newCheckResult(ProviderAutomated)
	res.Status = StatusChecking

	file := req.File
	if file == nil {
		// URL-only check: conclusive open-license hosts short-circuit the
		// download entirely.
		if rights, ok := PreCheckSource(req.SourceURL); ok {
			res.Fingerprint = req.FingerprintOverride
			res.Signals = append(res.Signals, Signal{
				Source: "host",
				Detail: "licensed by host check: " + req.SourceURL,
				Rights: rights,
			})
			res.Metadata["note"] = "accepted: known open-license source"
			res.Status = StatusPassed
			cfg.emitVerdict(res, "aggregate")
			return res, nil
		}
		file = cfg.fetchSourceFile(ctx, req.SourceURL)
		if file == nil {
			cfg.inspectPage(ctx, req.SourceURL, res)
		}
	}

	fp, err := fingerprintFor(req, file)
	if err != nil {
		return nil, err
	}
	res.Fingerprint = fp

	var (
		analysis FilenameAnalysis
		kind     MediaKind
		info     MediaInfo
		meta     *RightsMetadata
	)
	if file != nil {
		analysis = AnalyzeFilename(file.Name)
		kind = KindOf(file.MIMEType)
		info = cfg.ProbeMediaInfo(file)
		if kind == KindImage {
			meta = ExtractRightsMetadata(file.Data)
		}

		res.Metadata["file_name"] = file.Name
		res.Metadata["size_bytes"] = file.Size
		res.Metadata["mime_type"] = file.MIMEType
		res.Metadata["media_kind"] = kind.String()
		if words := ExtractTitleWords(file.Name); len(words) > 0 {
			res.Metadata["title_words"] = words
		}
		if info.HasMetadata {
			res.Metadata["duration_seconds"] = info.Duration
		}
		if kind == KindImage {
			if ph := PerceptualHash(file.Data); ph != "" {
				res.Metadata["perceptual_hash"] = ph
			}
		}
	}

	assessment := cfg.AssessSource(req.SourceURL, meta)
	cfg.aggregate(res, file, analysis, kind, info, assessment)

	// Second opinion on borderline results; annotation only, never changes
	// the status.
	if res.Status == StatusWarning {
		if verdict := cfg.ScreenUpload(ctx, res.Fingerprint, file); verdict != "" {
			res.Metadata["screen_verdict"] = verdict
		}
	}

	cfg.emitVerdict(res, "aggregate")
	return res, nil
}

// aggregate applies the decision policy in fixed order:
//  1. suspicious filename ⇒ violation (0.7)
//  2. size > 1000 MB ⇒ violation (0.6)
//  3. size in (500, 1000] MB ⇒ medium warning
//  4. duration findings for audio/video
//  5. source assessment (blocked host, stock metadata) ⇒ violations
//
// then derives the terminal status: violations ⇒ failed; warnings or
// filename suspicion ⇒ warning; else passed.
func (cfg *Config) aggregate(res *CheckResult, file *FileUpload, analysis FilenameAnalysis, kind MediaKind, info MediaInfo, assessment SourceAssessment) {
	if analysis.Suspicious {
		res.addViolation(Violation{
			Type:       "suspicious_filename",
			Source:     "filename_analysis",
			Confidence: suspiciousFilenameConfidence,
			Message:    "filename matches infringement indicators: " + strings.Join(analysis.Indicators, "; "),
		})
	}

	if file != nil {
		sizeMB := float64(file.Size) / (1024 * 1024)
		switch {
		case sizeMB > largeFileFailMB:
			res.addViolation(Violation{
				Type:       "very_large_file",
				Source:     "size_policy",
				Confidence: veryLargeFileConfidence,
				Message:    "file exceeds 1000 MB, typical of full-length copyrighted media",
			})
		case sizeMB > largeFileWarnMB:
			res.addWarning(Warning{
				Type:     "large_file",
				Message:  "file exceeds 500 MB, verify this is original course material",
				Severity: SeverityMedium,
			})
		}
	}

	durViolations, durWarnings := durationFindings(kind, info)
	for _, v := range durViolations {
		res.addViolation(v)
	}
	for _, w := range durWarnings {
		res.addWarning(w)
	}

	res.Signals = append(res.Signals, assessment.Signals...)
	res.Metadata["source_rights"] = assessment.Rights.String()
	for _, sig := range assessment.Signals {
		if sig.Rights != RightsInfringing {
			continue
		}
		switch sig.Source {
		case "metadata_stock":
			res.addViolation(Violation{
				Type:       "stock_metadata",
				Source:     sig.Source,
				Confidence: stockMetadataConfidence,
				Message:    sig.Detail,
			})
		default:
			res.addViolation(Violation{
				Type:       "blocked_source_domain",
				Source:     sig.Source,
				Confidence: blockedSourceConfidence,
				Message:    sig.Detail,
			})
		}
	}

	res.finalize(analysis.Suspicious)
}

// inspectPage falls back to HTML inspection when a source URL does not serve
// retrievable media. A declared Creative Commons license counts as a licensed
// signal; otherwise the result carries an unverified warning so a dead or
// opaque URL never passes silently.
func (cfg *Config) inspectPage(ctx context.Context, sourceURL string, res *CheckResult) {
	page := cfg.InspectSourcePage(ctx, sourceURL)
	if page != nil && page.Title != "" {
		res.Metadata["page_title"] = page.Title
	}
	if page != nil && page.LicenseURL != "" {
		res.Signals = append(res.Signals, Signal{
			Source: "page_license",
			Detail: "Creative Commons license declared on source page: " + page.LicenseURL,
			Rights: RightsLicensed,
		})
		res.Metadata["page_license"] = page.LicenseURL
		return
	}
	res.addWarning(Warning{
		Type:     "unverified",
		Message:  "source content could not be retrieved for analysis",
		Severity: SeverityLow,
	})
}

// fetchSourceFile probes and downloads a source URL so the local heuristics
// can run on URL-sourced content. Returns nil when nothing useful could be
// retrieved — the host-reputation signals still apply.
func (cfg *Config) fetchSourceFile(ctx context.Context, sourceURL string) *FileUpload {
	probe := cfg.ProbeSource(ctx, sourceURL)

	r, err := cfg.Download(ctx, sourceURL, DownloadOpts{})
	if err != nil || r == nil {
		return nil
	}

	size := int64(len(r.Data))
	if probe != nil && probe.ContentLength > size {
		// The declared length wins: the download is capped, but the size
		// policy must see the real size.
		size = probe.ContentLength
	}

	name := ""
	if parsed, err := url.Parse(sourceURL); err == nil {
		name = path.Base(parsed.Path)
	}

	return &FileUpload{
		Name:     name,
		Size:     size,
		Modified: time.Now(),
		MIMEType: r.MIMEType,
		Data:     r.Data,
	}
}

// emitVerdict reports a settled verdict to the audit callback.
func (cfg *Config) emitVerdict(res *CheckResult, source string) {
	if cfg.OnVerdict == nil {
		return
	}
	cfg.OnVerdict(VerdictEvent{
		Fingerprint: res.Fingerprint,
		Provider:    res.Provider,
		Status:      res.Status,
		Violations:  len(res.Violations),
		Warnings:    len(res.Warnings),
		Source:      source,
	})
}
