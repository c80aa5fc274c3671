package textproc

import (
	"regexp"
	"strings"
)

var (
	// Page headers and footers that survive PDF extraction: "Page 12",
	// "3 / 17", "Confidential" on a line of their own.
	headerFooterPattern = regexp.MustCompile(`(?im)(^[ \t]*page[ \t]*\d+[ \t]*$)|(^[ \t]*\d+[ \t]*/[ \t]*\d+[ \t]*$)|(^[ \t]*confidential[ \t]*$)`)

	nonPrintablePattern = regexp.MustCompile(`[^\x{09}\x{0A}\x{0D}\x{20}-\x{7E}\x{A0}-\x{10FFFF}]+`)

	// A word broken across a line ("maxi- mize" or "maxi-\nmize").
	hyphenBreakPattern = regexp.MustCompile(`(\w)-\s+(\w)`)

	paragraphBreakPattern = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)
	whitespaceRunPattern  = regexp.MustCompile(`\s+`)
	breakMarkerPattern    = regexp.MustCompile(` ?\x00 ?`)
)

// Clean normalizes raw page text extracted from a PDF.
//
// It removes header/footer boilerplate and non-printable bytes, rejoins
// words hyphenated across line breaks, and collapses whitespace. Paragraph
// breaks (blank lines) are preserved as "\n\n" so downstream chunking can
// still split on them. Clean is deterministic: the same input always yields
// the same output.
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	text = headerFooterPattern.ReplaceAllString(text, " ")
	text = nonPrintablePattern.ReplaceAllString(text, " ")
	text = hyphenBreakPattern.ReplaceAllString(text, "${1}${2}")

	// Protect paragraph breaks with a marker no printable text contains,
	// collapse all remaining whitespace, then restore the breaks.
	text = paragraphBreakPattern.ReplaceAllString(text, "\x00")
	text = whitespaceRunPattern.ReplaceAllString(text, " ")
	text = breakMarkerPattern.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
