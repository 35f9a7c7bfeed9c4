package product

// cast.go converts raw CSV strings into the scalar a backend type stores.
//
//   - datetime: parsed with the configured source format (PHP date() syntax),
//     rendered as "YYYY-MM-DD HH:MM:SS"
//   - float: float64
//   - int: int64, fractional input is truncated toward zero; values outside
//     the int64 range are an error even when LenientNumeric is set
//   - anything else: returned unchanged
//
// Empty numeric input casts to zero. Non-numeric input is an error unless
// LenientNumeric is set, in which case the leading numeric prefix is used and
// a value without one casts to zero.

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CanonicalDateTimeLayout is the layout datetime values are stored in.
const CanonicalDateTimeLayout = "2006-01-02 15:04:05"

// DefaultSourceDateFormat is the date format import files use unless configured otherwise.
const DefaultSourceDateFormat = "n/d/y, g:i A"

// numericPrefix matches the leading number of a string, the way a lenient
// numeric cast reads it.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// plainDecimal matches a number without an exponent, whose integer part can be
// read exactly.
var plainDecimal = regexp.MustCompile(`^([+-]?\d+)\.\d*$`)

// int64 bounds as float64; 2^63 itself does not fit.
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// CastOptions controls Cast.
type CastOptions struct {
	SourceDateFormat string
	LenientNumeric   bool
}

// Cast converts raw to the scalar for bt.
func Cast(bt BackendType, raw string, opts CastOptions) (any, error) {
	switch bt {
	case TypeDatetime:
		return castDatetime(raw, opts.SourceDateFormat)
	case TypeFloat:
		return castFloat(raw, opts.LenientNumeric)
	case TypeInt:
		return castInt(raw, opts.LenientNumeric)
	default:
		return raw, nil
	}
}

func castDatetime(raw, format string) (string, error) {
	if format == "" {
		format = DefaultSourceDateFormat
	}
	t, err := ParseDate(format, raw)
	if err != nil {
		return "", &DateParseError{Value: raw, Format: format, Err: err}
	}
	return t.Format(CanonicalDateTimeLayout), nil
}

func castInt(raw string, lenient bool) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	// Integers and plain decimals are read without a float64 round trip so
	// values above 2^53 keep their precision.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	} else if errors.Is(err, strconv.ErrRange) {
		return 0, &NumericParseError{Value: raw, Type: TypeInt, Err: err}
	}
	if m := plainDecimal.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, &NumericParseError{Value: raw, Type: TypeInt, Err: err}
		}
		return n, nil
	}

	f, err := castNumber(raw, TypeInt, lenient)
	if err != nil {
		return 0, err
	}
	t := math.Trunc(f)
	if t < minInt64Float || t >= maxInt64Float {
		return 0, &NumericParseError{Value: raw, Type: TypeInt, Err: strconv.ErrRange}
	}
	return int64(t), nil
}

func castFloat(raw string, lenient bool) (float64, error) {
	return castNumber(raw, TypeFloat, lenient)
}

func castNumber(raw string, bt BackendType, lenient bool) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f, nil
	}

	if !lenient {
		return 0, &NumericParseError{Value: raw, Type: bt, Err: err}
	}

	prefix := numericPrefix.FindString(s)
	if prefix == "" {
		return 0, nil
	}
	f, err = strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, nil
	}
	return f, nil
}
