package copycheck

// PreCheckSource applies cheap conclusive heuristics to a source URL before
// any download or remote call. Returns the rights verdict and skip=true when
// the heuristic is conclusive; ("", false)-style (RightsUnknown, false) when
// the full pipeline should run.
//
// Current heuristics:
//   - Known open-license hosts (archive.org, wikimedia, pixabay, ...) are
//     accepted outright. These are curated collections with negligible
//     false-positive risk.
//   - Known piracy hosts are NOT short-circuited here; they flow through the
//     aggregator so the result carries the full violation record.
func PreCheckSource(sourceURL string) (Rights, bool) {
	if ClassifySource(sourceURL) == RightsLicensed {
		return RightsLicensed, true
	}
	return RightsUnknown, false
}
