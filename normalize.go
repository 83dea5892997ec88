package copycheck

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

// minTitleWordRunes is the minimum rune count for a token to be kept as a
// title word.
const minTitleWordRunes = 3

// maxTitleWords is the maximum number of title words extracted from a
// filename.
const maxTitleWords = 6

// releaseTagWords are scene-release noise tokens stripped from filenames
// before title extraction.
var releaseTagWords = map[string]bool{
	"1080p": true, "720p": true, "2160p": true, "480p": true, "4k": true,
	"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true,
	"webrip": true, "web-dl": true, "webdl": true, "bluray": true,
	"brrip": true, "bdrip": true, "dvdrip": true, "hdtv": true,
	"hdrip": true, "camrip": true, "hdcam": true, "aac": true, "ac3": true,
	"dts": true, "yify": true, "yts": true, "rarbg": true, "ettv": true,
	"proper": true, "repack": true, "extended": true, "remastered": true,
	"unrated": true, "multi": true, "dubbed": true, "subbed": true,
}

// yearTokenRe matches standalone release-year tokens (1900–2099).
var yearTokenRe = regexp.MustCompile(`^(19|20)\d{2}$`)

// filenameSeparatorRe splits scene-style filenames on the usual separators.
var filenameSeparatorRe = regexp.MustCompile(`[ ._\-\[\]()]+`)

// ExtractTitleWords extracts up to 6 meaningful title words from a filename:
// the extension, release tags (1080p, x264, WEBRip, ...), bare year tokens
// and short tokens are stripped. The result approximates the title of the
// work the file claims to be, for indicator details and title lookups.
func ExtractTitleWords(filename string) []string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	tokens := filenameSeparatorRe.Split(base, -1)

	var words []string
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		lower := strings.ToLower(tok)
		if releaseTagWords[lower] {
			continue
		}
		if yearTokenRe.MatchString(tok) {
			continue
		}
		if utf8.RuneCountInString(tok) < minTitleWordRunes {
			continue
		}
		words = append(words, tok)
	}

	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return words
}
