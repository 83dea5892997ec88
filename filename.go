package copycheck

import "regexp"

// filenamePattern pairs a compiled regex with the human-readable indicator
// reported when it matches.
type filenamePattern struct {
	re   *regexp.Regexp
	desc string
}

// suspiciousFilenamePatterns are infringement phrasings commonly seen in
// pirated-release filenames. Order is fixed: indicators are reported in
// this order, case-insensitive.
var suspiciousFilenamePatterns = []filenamePattern{
	{regexp.MustCompile(`(?i)full.?movie`), `full movie release ("full movie")`},
	{regexp.MustCompile(`(?i)\bmovie\b`), `movie keyword ("movie")`},
	{regexp.MustCompile(`(?i)\bepisode\b`), `episode keyword ("episode")`},
	{regexp.MustCompile(`(?i)s\d{1,2}[ ._-]?e\d{1,3}`), `season/episode numbering ("S01E01")`},
	{regexp.MustCompile(`(?i)season[ ._-]?\d+`), `season numbering ("season 1")`},
	{regexp.MustCompile(`(?i)dvd.?rip`), `DVD rip ("dvdrip")`},
	{regexp.MustCompile(`(?i)b[dr].?rip`), `Blu-ray rip ("brrip"/"bdrip")`},
	{regexp.MustCompile(`(?i)web.?(rip|dl)`), `web rip ("webrip"/"web-dl")`},
	{regexp.MustCompile(`(?i)hd.?(rip|cam|tv)`), `HD rip/cam ("hdrip"/"hdcam")`},
	{regexp.MustCompile(`(?i)cam.?rip`), `camcorder rip ("camrip")`},
	{regexp.MustCompile(`(?i)\btorrent\b`), `torrent keyword ("torrent")`},
	{regexp.MustCompile(`(?i)\bcopyright(ed)?\b`), `copyright keyword ("copyright")`},
	{regexp.MustCompile(`(?i)\bpirat(e|ed)\b`), `piracy keyword ("pirated")`},
	{regexp.MustCompile(`(?i)\bleaked?\b`), `leak keyword ("leaked")`},
	{regexp.MustCompile(`(?i)\b(yify|yts|rarbg|ettv|eztv)\b`), `release-group tag ("yify"/"rarbg"/...)`},
}

// FilenameAnalysis is the outcome of the filename heuristic check.
type FilenameAnalysis struct {
	Suspicious bool
	Indicators []string // descriptions of every matched pattern
}

// AnalyzeFilename pattern-matches a file name against known infringement
// indicators. Pure and deterministic: no I/O, no failure mode.
func AnalyzeFilename(name string) FilenameAnalysis {
	var indicators []string
	for _, p := range suspiciousFilenamePatterns {
		if p.re.MatchString(name) {
			indicators = append(indicators, p.desc)
		}
	}
	return FilenameAnalysis{
		Suspicious: len(indicators) > 0,
		Indicators: indicators,
	}
}
