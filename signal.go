package copycheck

// Signal represents a single evidence point about an upload's rights status.
type Signal struct {
	Source string `json:"source"` // signal source: "host", "extra_host", "metadata_stock", "metadata_cc"
	Detail string `json:"detail"` // human-readable detail
	Rights Rights `json:"rights"` // what this signal indicates
}

// SourceAssessment combines multiple signals into a rights verdict for the
// upload's origin.
type SourceAssessment struct {
	Rights  Rights   // final verdict: Infringing > Licensed > Unknown
	Signals []Signal // contributing evidence (never nil, may be empty)
}

// AssessSource combines host classification, extended host checks, and
// embedded metadata signals (stock-agency detection, CC detection) into a
// single transparent rights verdict. Infringing signals always take
// precedence over Licensed.
func (cfg *Config) AssessSource(sourceURL string, meta *RightsMetadata) SourceAssessment {
	signals := make([]Signal, 0, 4) //nolint:mnd // pre-allocate for up to 4 signal types

	// Signal 1: built-in host classification.
	switch ClassifySource(sourceURL) {
	case RightsInfringing:
		signals = append(signals, Signal{
			Source: "host",
			Detail: "blocked by host check: " + sourceURL,
			Rights: RightsInfringing,
		})
	case RightsLicensed:
		signals = append(signals, Signal{
			Source: "host",
			Detail: "licensed by host check: " + sourceURL,
			Rights: RightsLicensed,
		})
	}

	// Signal 2: extended host check — only when extra lists are configured.
	if len(cfg.ExtraBlockedDomains) > 0 || len(cfg.ExtraSafeDomains) > 0 {
		ext := ClassifySourceWith(sourceURL, cfg.ExtraBlockedDomains, cfg.ExtraSafeDomains)
		// Only add a signal if it changes the built-in classification.
		if ext != ClassifySource(sourceURL) && ext != RightsUnknown {
			signals = append(signals, Signal{
				Source: "extra_host",
				Detail: "reclassified by extended host check: " + ext.String(),
				Rights: ext,
			})
		}
	}

	// Signal 3: stock-agency fingerprints in embedded metadata.
	if IsStockByMetadata(meta) {
		signals = append(signals, Signal{
			Source: "metadata_stock",
			Detail: "stock agency detected in metadata: " + metadataStockDetail(meta),
			Rights: RightsInfringing,
		})
	}

	// Signal 4: Creative Commons license in embedded metadata.
	if IsCCByMetadata(meta) {
		signals = append(signals, Signal{
			Source: "metadata_cc",
			Detail: "Creative Commons license in metadata: " + metadataCCDetail(meta),
			Rights: RightsLicensed,
		})
	}

	// Resolution: Infringing > Licensed > Unknown.
	final := RightsUnknown
	for _, sig := range signals {
		if sig.Rights == RightsInfringing {
			final = RightsInfringing
			break
		}
		if sig.Rights == RightsLicensed {
			final = RightsLicensed
		}
	}

	return SourceAssessment{
		Rights:  final,
		Signals: signals,
	}
}

// metadataStockDetail returns the first non-empty rights field for context
// in a stock-detection signal.
func metadataStockDetail(meta *RightsMetadata) string {
	if meta == nil {
		return ""
	}
	for _, f := range []string{
		meta.EXIFCopyright,
		meta.EXIFArtist,
		meta.IPTCCopyright,
		meta.IPTCCredit,
		meta.IPTCSource,
		meta.IPTCByline,
		meta.DCRights,
		meta.DCCreator,
	} {
		if f != "" {
			return f
		}
	}
	return ""
}

// metadataCCDetail returns the first non-empty CC license field for context
// in a CC-detection signal.
func metadataCCDetail(meta *RightsMetadata) string {
	if meta == nil {
		return ""
	}
	for _, f := range []string{
		meta.XMPLicense,
		meta.XMPWebStatement,
		meta.XMPUsageTerms,
		meta.DCRights,
	} {
		if f != "" {
			return f
		}
	}
	return ""
}
