package product

// phpdate.go reads values written with a PHP date() style format
// ("n/d/y, g:i A"). Numeric fields accept the digit widths date() parsing
// accepts, so "1/5/23" and "01/05/23" both match "n/d/y". Names and the
// meridiem are matched case-insensitively. Fields the format does not
// mention are zero: midnight on the first of January, year 0.

import (
	"fmt"
	"strings"
	"time"
)

// dateField describes how one format character is read.
type dateField struct {
	lo, hi int // digit width for numeric fields; 0 for text fields
}

var phpDateTokens = map[byte]dateField{
	'd': {1, 2},
	'j': {1, 2},
	'm': {1, 2},
	'n': {1, 2},
	'Y': {4, 4},
	'y': {2, 2},
	'H': {1, 2},
	'G': {1, 2},
	'h': {1, 2},
	'g': {1, 2},
	'i': {2, 2},
	's': {2, 2},
	'D': {},
	'l': {},
	'M': {},
	'F': {},
	'A': {},
	'a': {},
	'T': {},
	'P': {},
	'O': {},
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var dayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// ValidateDateFormat reports whether format only uses supported date()
// characters. A backslash escapes the next character.
func ValidateDateFormat(format string) error {
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' {
			if i+1 >= len(format) {
				return fmt.Errorf("date format %q: trailing escape", format)
			}
			i++
			continue
		}
		if _, ok := phpDateTokens[c]; ok {
			continue
		}
		if isASCIILetter(c) {
			return fmt.Errorf("date format %q: unsupported token %q", format, c)
		}
	}
	return nil
}

// dateParts collects the fields read from a value.
type dateParts struct {
	year, month, day     int
	hour, minute, second int
	pm, hasMeridiem      bool
	loc                  *time.Location
}

// ParseDate reads value according to the date() style format. The whole
// value must be consumed.
func ParseDate(format, value string) (time.Time, error) {
	if err := ValidateDateFormat(format); err != nil {
		return time.Time{}, err
	}

	p := dateParts{month: 1, day: 1, loc: time.UTC}
	pos := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' {
			i++
			c = format[i]
			if pos >= len(value) || value[pos] != c {
				return time.Time{}, fmt.Errorf("expected %q at offset %d", c, pos)
			}
			pos++
			continue
		}
		f, ok := phpDateTokens[c]
		if !ok {
			if pos >= len(value) || value[pos] != c {
				return time.Time{}, fmt.Errorf("expected %q at offset %d", c, pos)
			}
			pos++
			continue
		}

		if f.hi > 0 {
			n, next, err := readDigits(value, pos, f.lo, f.hi)
			if err != nil {
				return time.Time{}, fmt.Errorf("token %q: %w", c, err)
			}
			pos = next
			if err := p.setNumber(c, n); err != nil {
				return time.Time{}, err
			}
			continue
		}

		next, err := p.readText(c, value, pos)
		if err != nil {
			return time.Time{}, fmt.Errorf("token %q: %w", c, err)
		}
		pos = next
	}
	if pos != len(value) {
		return time.Time{}, fmt.Errorf("trailing data %q", value[pos:])
	}
	return p.toTime()
}

func (p *dateParts) setNumber(c byte, n int) error {
	switch c {
	case 'd', 'j':
		if n < 1 || n > 31 {
			return fmt.Errorf("day %d out of range", n)
		}
		p.day = n
	case 'm', 'n':
		if n < 1 || n > 12 {
			return fmt.Errorf("month %d out of range", n)
		}
		p.month = n
	case 'Y':
		p.year = n
	case 'y':
		// date() pivots two-digit years at 70.
		if n >= 70 {
			p.year = 1900 + n
		} else {
			p.year = 2000 + n
		}
	case 'H', 'G':
		if n > 23 {
			return fmt.Errorf("hour %d out of range", n)
		}
		p.hour = n
	case 'h', 'g':
		if n < 1 || n > 12 {
			return fmt.Errorf("hour %d out of range", n)
		}
		p.hour = n
	case 'i':
		if n > 59 {
			return fmt.Errorf("minute %d out of range", n)
		}
		p.minute = n
	case 's':
		if n > 59 {
			return fmt.Errorf("second %d out of range", n)
		}
		p.second = n
	}
	return nil
}

func (p *dateParts) readText(c byte, value string, pos int) (int, error) {
	rest := value[pos:]
	switch c {
	case 'A', 'a':
		if len(rest) < 2 {
			return 0, fmt.Errorf("missing meridiem")
		}
		switch strings.ToLower(rest[:2]) {
		case "am":
			p.pm = false
		case "pm":
			p.pm = true
		default:
			return 0, fmt.Errorf("bad meridiem %q", rest[:2])
		}
		p.hasMeridiem = true
		return pos + 2, nil
	case 'M', 'F':
		i, n := matchName(rest, monthNames)
		if n == 0 {
			return 0, fmt.Errorf("bad month name")
		}
		p.month = i + 1
		return pos + n, nil
	case 'D', 'l':
		_, n := matchName(rest, dayNames)
		if n == 0 {
			return 0, fmt.Errorf("bad day name")
		}
		return pos + n, nil
	case 'T':
		n := 0
		for n < len(rest) && isASCIILetter(rest[n]) {
			n++
		}
		if n == 0 {
			return 0, fmt.Errorf("missing zone abbreviation")
		}
		abbr := strings.ToUpper(rest[:n])
		if abbr == "UTC" || abbr == "GMT" || abbr == "Z" {
			p.loc = time.UTC
		} else {
			p.loc = time.FixedZone(abbr, 0)
		}
		return pos + n, nil
	case 'P', 'O':
		width := 5
		if c == 'P' {
			width = 6
		}
		if len(rest) < width || (rest[0] != '+' && rest[0] != '-') {
			return 0, fmt.Errorf("bad offset")
		}
		hh, _, err := readDigits(rest, 1, 2, 2)
		if err != nil {
			return 0, fmt.Errorf("bad offset: %w", err)
		}
		mmAt := 3
		if c == 'P' {
			if rest[3] != ':' {
				return 0, fmt.Errorf("bad offset")
			}
			mmAt = 4
		}
		mm, _, err := readDigits(rest, mmAt, 2, 2)
		if err != nil {
			return 0, fmt.Errorf("bad offset: %w", err)
		}
		if hh > 14 || mm > 59 {
			return 0, fmt.Errorf("offset %s out of range", rest[:width])
		}
		secs := hh*3600 + mm*60
		if rest[0] == '-' {
			secs = -secs
		}
		p.loc = time.FixedZone("", secs)
		return pos + width, nil
	}
	return 0, fmt.Errorf("unsupported token")
}

func (p *dateParts) toTime() (time.Time, error) {
	hour := p.hour
	if p.hasMeridiem && hour >= 1 && hour <= 12 {
		hour %= 12
		if p.pm {
			hour += 12
		}
	}
	t := time.Date(p.year, time.Month(p.month), p.day, hour, p.minute, p.second, 0, p.loc)
	if t.Day() != p.day || int(t.Month()) != p.month {
		return time.Time{}, fmt.Errorf("day %d out of range for %04d-%02d", p.day, p.year, p.month)
	}
	return t, nil
}

// readDigits reads between lo and hi ASCII digits starting at pos.
func readDigits(s string, pos, lo, hi int) (int, int, error) {
	n, end := 0, pos
	for end < len(s) && end-pos < hi && s[end] >= '0' && s[end] <= '9' {
		n = n*10 + int(s[end]-'0')
		end++
	}
	if end-pos < lo {
		return 0, pos, fmt.Errorf("want %d digits at offset %d", lo, pos)
	}
	return n, end, nil
}

// matchName matches a full or three letter name at the start of s and
// returns its index and the matched length.
func matchName(s string, names []string) (int, int) {
	for i, name := range names {
		if len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			return i, len(name)
		}
	}
	for i, name := range names {
		if len(s) >= 3 && strings.EqualFold(s[:3], name[:3]) {
			return i, 3
		}
	}
	return 0, 0
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
