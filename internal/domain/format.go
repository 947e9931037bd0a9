package domain

import (
	"regexp"
	"strings"
)

// MessageHeader opens every relayed alert.
const MessageHeader = "**Weather Alert:**"

const ellipsis = "..."

var (
	// linkMarkupRe matches an embedded <link>...</link> segment in a summary.
	linkMarkupRe = regexp.MustCompile(`<link>.*?</link>`)

	// tagRe matches any HTML tag, non-greedy.
	tagRe = regexp.MustCompile(`<.*?>`)

	// metadataRe matches an NWS metadata field that reaches a colon, through the
	// end of its line, e.g. "LAT...: 40.5 -95.3\n" or "TIME...MOT...LOC: 2104Z".
	metadataRe = regexp.MustCompile(`(?i)\b(?:LAT|LON|TIME|MOT|LOC)[^:\n]*:[^\n]*\n?`)

	// digitNoiseRe matches a digit run followed by one whitespace character.
	// Both classes are Unicode-wide: any decimal digit, and any space or
	// separator including NBSP, vertical tab and U+2028.
	digitNoiseRe = regexp.MustCompile(`\p{Nd}+[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`)
)

// StripLinkMarkup removes embedded <link>...</link> segments from summary.
func StripLinkMarkup(summary string) string {
	return linkMarkupRe.ReplaceAllString(summary, "")
}

// ExtractAlertInfo turns a raw HTML summary into display text: tags,
// metadata lines and digit-run noise are removed and the result trimmed.
func ExtractAlertInfo(summary string) string {
	cleaned := tagRe.ReplaceAllString(summary, "")
	cleaned = metadataRe.ReplaceAllString(cleaned, "")
	cleaned = digitNoiseRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// ComposeMessage builds the chat message body for an alert.
func ComposeMessage(title, info string) string {
	return MessageHeader + "\n\n" + title + "\n\n" + info
}

// Truncate caps message at maxLen characters. Longer messages keep
// maxLen-3 characters followed by "...".
func Truncate(message string, maxLen int) string {
	runes := []rune(message)
	if len(runes) <= maxLen {
		return message
	}
	if maxLen < len(ellipsis) {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// FormatAlert runs the full formatter over an entry whose summary has
// already had its link markup removed.
func FormatAlert(title, summary string, maxLen int) string {
	return Truncate(ComposeMessage(title, ExtractAlertInfo(summary)), maxLen)
}
