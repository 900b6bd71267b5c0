// Package normalize turns raw statement text into the canonical views the
// extraction strategies consume. Two views are maintained deliberately: a
// whitespace-collapsed string for free-text anchor searches, and the raw
// line split for structural matching. Several strategies depend on one
// logical record spanning 1-3 physical lines, so the line view must never be
// collapsed.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"billbuddy/statements/internal/logging"
)

// Document is the normalized form of one statement's full page text.
type Document struct {
	// Lines is the line-oriented view, split strictly on newlines with
	// trailing whitespace trimmed. Structural strategies operate on this.
	Lines []string

	// Collapsed is the whitespace-collapsed view used for header and date
	// anchor searches.
	Collapsed string

	// StatementDate is the full date from the "Statement Date :" anchor,
	// zero when the anchor was not found.
	StatementDate time.Time

	// StatementYear disambiguates truncated day-month dates. Falls back to
	// the current calendar year when the header anchor is missing.
	StatementYear int

	// YearFromHeader is false when StatementYear is the degraded
	// current-year fallback.
	YearFromHeader bool
}

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	statementDateRe = regexp.MustCompile(`(?i)Statement\s+Date\s*:\s*(\d{1,2})\s+([A-Za-z]{3,9})\s+(\d{4})`)
)

// Normalize builds both text views and resolves the statement year.
func Normalize(raw string) Document {
	return normalizeAt(raw, time.Now())
}

// normalizeAt is the clock-injected form used by tests.
func normalizeAt(raw string, now time.Time) Document {
	log := logging.GetLogger()

	doc := Document{
		Collapsed: CollapseWhitespace(raw),
	}

	for _, line := range strings.Split(raw, "\n") {
		doc.Lines = append(doc.Lines, strings.TrimRight(line, " \t\r"))
	}

	if m := statementDateRe.FindStringSubmatch(doc.Collapsed); m != nil {
		if date, ok := ParseDayMonthYear(m[1], m[2], m[3]); ok {
			doc.StatementDate = date
			doc.StatementYear = date.Year()
			doc.YearFromHeader = true
		}
	}

	if !doc.YearFromHeader {
		doc.StatementYear = now.Year()
		log.Warn("Statement date anchor not found, falling back to current year",
			logging.Field{Key: logging.FieldYear, Value: doc.StatementYear})
	}

	return doc
}

// CollapseWhitespace reduces every whitespace run, newlines included, to a
// single space. Only ever applied to the search view, never the line view.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

var monthsByPrefix = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ParseMonth resolves a month name (full or 3-letter) case-insensitively.
func ParseMonth(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthsByPrefix[strings.ToUpper(name[:3])]
	return m, ok
}

// ParseDayMonthYear parses the "17 Jul 2025" shape. Invalid calendar dates
// (e.g. 31 Feb) are rejected rather than silently shifted.
func ParseDayMonthYear(dayStr, monthStr, yearStr string) (time.Time, bool) {
	day := atoi(dayStr)
	year := atoi(yearStr)
	month, ok := ParseMonth(monthStr)
	if !ok || day < 1 || day > 31 || year == 0 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}
	return date, true
}

// ParseDayMonth combines a truncated "17 Jul" date with the statement year.
// Statements spanning a year boundary are a known gap: the statement year is
// applied uniformly, so a December transaction on a January statement gets
// the wrong year.
func ParseDayMonth(dayStr, monthStr string, statementYear int) (time.Time, bool) {
	day := atoi(dayStr)
	month, ok := ParseMonth(monthStr)
	if !ok || day < 1 || day > 31 || statementYear == 0 {
		return time.Time{}, false
	}
	date := time.Date(statementYear, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false
	}
	return date, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
