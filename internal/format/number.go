package format

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string.
// A leading '-' is preserved.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	first := n % 3
	if first == 0 {
		first = 3
	}
	b.WriteString(s[:first])
	for i := first; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatWords renders a machine-word count with its byte size, e.g.
// "1,024 words (8.0 KiB)".
func FormatWords(words, wordBytes int) string {
	if words < 0 {
		words = 0
	}
	return fmt.Sprintf("%s words (%s)",
		FormatNumberString(strconv.Itoa(words)),
		FormatBytes(uint64(words)*uint64(wordBytes)))
}
