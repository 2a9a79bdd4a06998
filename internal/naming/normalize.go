// Package naming turns free-text Slack titles into filesystem-safe names.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"archive_slack/internal/files"
)

const (
	// MaxFilenameLength leaves room for a following ".ext" within 255 bytes.
	MaxFilenameLength = 253
	// MaxDirnameLength bounds destination directory names.
	MaxDirnameLength = 254

	unnamed         = "unnamed"
	timestampLayout = "2006-01-02 15-04-05"
)

const spaceClass = `\s\v\p{Z}`

var (
	urlPattern        = regexp.MustCompile(`(?i)https?:[^` + spaceClass + `]+`)
	emoticonPattern   = regexp.MustCompile(`:[\p{L}\p{N}_]+:`)
	disallowedPattern = regexp.MustCompile(`[^\p{L}\p{N}` + spaceClass + `\-_]`)
	hyphenRun         = regexp.MustCompile(`-{2,}`)
	underscoreRun     = regexp.MustCompile(`_{2,}`)
	spaceRun          = regexp.MustCompile(`[` + spaceClass + `]{2,}`)
	emojiPattern      = regexp.MustCompile(`[\x{E000}-\x{EFFF}\x{F040}-\x{F0FF}]`)
)

// Normalize strips URLs, a trailing ".extension", :emoticons:, punctuation and
// private-use emoji from text and collapses repeated separators. Pass an empty
// extension to keep the text's suffix untouched. Normalize is idempotent.
func Normalize(text, extension string) string {
	normalized := urlPattern.ReplaceAllString(text, "")
	if extension != "" {
		ext := regexp.MustCompile(`(?i)\.` + regexp.QuoteMeta(extension) + `$`)
		normalized = ext.ReplaceAllString(normalized, "")
	}
	normalized = emoticonPattern.ReplaceAllString(normalized, "")
	normalized = disallowedPattern.ReplaceAllString(normalized, "")

	normalized = hyphenRun.ReplaceAllString(normalized, "-")
	normalized = underscoreRun.ReplaceAllString(normalized, "_")
	normalized = spaceRun.ReplaceAllString(normalized, " ")

	normalized = emojiPattern.ReplaceAllString(normalized, "")
	return strings.TrimFunc(normalized, unicode.IsSpace)
}

// CreateFilename builds "<YYYY-MM-DD HH-MM-SS> <normalized title>" without an
// extension. The raw file name is used when the title normalizes to nothing,
// and "unnamed" when both do.
func CreateFilename(file files.FileRecord) string {
	normalized := Normalize(file.Title, file.Filetype)
	if normalized == "" {
		normalized = Normalize(file.Name, file.Filetype)
	}
	if normalized == "" {
		normalized = unnamed
	}

	return Truncate(file.Created.Format(timestampLayout)+" "+normalized, MaxFilenameLength)
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
