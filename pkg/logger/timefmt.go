package logger

import (
	"fmt"
	"strings"
)

// ConsoleTimestampFormat is the console timestamp, YYYY-MM-DD hh:mm:ss.SSS A
const ConsoleTimestampFormat = "2006-01-02 03:04:05.000 PM"

// FileTimestampFormat is the UTC ISO-8601 timestamp written to file sinks
const FileTimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// momentTokens is ordered longest first so prefixes never shadow a token
var momentTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"SSS", "000"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"ZZ", "-0700"},
	{"M", "1"},
	{"D", "2"},
	{"H", "15"},
	{"h", "3"},
	{"m", "4"},
	{"s", "5"},
	{"A", "PM"},
	{"a", "pm"},
	{"Z", "-07:00"},
}

// goLayoutWords are the alphabetic elements Go's time package reads as
// layout; digits are layout elements too.
var goLayoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

// MomentLayout converts a moment.js style date pattern (YYYY-MM-DD,
// hh:mm:ss.SSS A, ...) into a Go time layout. Text in square brackets is
// copied verbatim; any other character that is not a token is kept as is.
// Go layouts cannot escape, so literal text must pass CheckMomentPattern.
func MomentLayout(pattern string) string {
	layout, _ := scanMoment(pattern)
	return layout
}

// CheckMomentPattern reports literal text in pattern that Go would read as
// a layout element, such as the 1 in "[v1]" or the Mon in "[Monitor]".
func CheckMomentPattern(pattern string) error {
	_, literals := scanMoment(pattern)
	for _, lit := range literals {
		if i := strings.IndexAny(lit.text, "0123456789"); i >= 0 {
			return fmt.Errorf("literal %q contains the digit %q", lit.text, lit.text[i])
		}
		for _, word := range goLayoutWords {
			if strings.Contains(lit.text, word) {
				return fmt.Errorf("literal %q contains %q", lit.text, word)
			}
		}
		// "_2" is Go's space-padded day
		if strings.HasSuffix(lit.text, "_") && strings.HasPrefix(lit.next, "2") {
			return fmt.Errorf("literal %q before a day token forms %q", lit.text, "_2")
		}
	}
	return nil
}

type momentLiteral struct {
	text string
	next string // layout emitted right after the literal
}

// scanMoment returns the Go layout for pattern and its literal runs
func scanMoment(pattern string) (string, []momentLiteral) {
	var b, lit strings.Builder
	var literals []momentLiteral
	flush := func(next string) {
		if lit.Len() > 0 {
			literals = append(literals, momentLiteral{text: lit.String(), next: next})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			if end := strings.IndexByte(pattern[i:], ']'); end > 0 {
				b.WriteString(pattern[i+1 : i+end])
				lit.WriteString(pattern[i+1 : i+end])
				i += end + 1
				continue
			}
		}

		matched := false
		for _, t := range momentTokens {
			if strings.HasPrefix(pattern[i:], t.token) {
				flush(t.layout)
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			lit.WriteByte(pattern[i])
			i++
		}
	}
	flush("")

	return b.String(), literals
}
