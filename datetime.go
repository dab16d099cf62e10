package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeFormat selects how BindTime and ColumnTime store a time.Time.
type DateTimeFormat int

const (
	// ISO8601Text is TEXT of the form "2006-01-02 15:04:05.0000000Z07:00".
	// A trailing "Z" decodes as UTC; an offset decodes in time.Local.
	ISO8601Text DateTimeFormat = iota
	// JulianDateReal is a REAL Julian day number, as julianday() returns.
	JulianDateReal
	// UnixTimeInteger is INTEGER seconds since 1970-01-01 UTC, as
	// unixepoch() returns.
	UnixTimeInteger
)

func (f DateTimeFormat) valid() bool {
	return f >= ISO8601Text && f <= UnixTimeInteger
}

func (f DateTimeFormat) String() string {
	switch f {
	case ISO8601Text:
		return "ISO8601Text"
	case JulianDateReal:
		return "JulianDateReal"
	case UnixTimeInteger:
		return "UnixTimeInteger"
	default:
		return fmt.Sprintf("DateTimeFormat(%d)", int(f))
	}
}

func invalidFormat(f DateTimeFormat) error {
	return fmt.Errorf("%w: unknown %v", ErrInvalidArgument, f)
}

const iso8601Layout = "2006-01-02 15:04:05.0000000Z07:00"

// Parse layouts, most specific first. Fractional seconds are accepted
// after the seconds field without being named.
var iso8601ZoneLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04Z07:00",
}

var iso8601LocalLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// EncodeISO8601 formats t the way BindTime stores ISO8601Text.
func EncodeISO8601(t time.Time) string {
	return t.Format(iso8601Layout)
}

// DecodeISO8601 parses text written by EncodeISO8601 or by SQLite's
// datetime functions. A trailing "Z" is UTC, an explicit offset is
// converted to time.Local, and text with no zone is read as local time.
func DecodeISO8601(s string) (time.Time, error) {
	for _, layout := range iso8601ZoneLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if strings.HasSuffix(s, "Z") {
			return t.UTC(), nil
		}
		return t.In(time.Local), nil
	}
	for _, layout := range iso8601LocalLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("sqlite: cannot parse %q as an ISO-8601 time", s)
}

const (
	msPerDay  = 86400000
	msHalfDay = 43200000
)

// julianMillis is SQLite's computeJD: the Julian day of t, in
// milliseconds, using the same integer arithmetic as the date functions.
func julianMillis(t time.Time) int64 {
	t = t.UTC()
	y, m, d := t.Date()
	Y, M, D := int64(y), int64(m), int64(d)
	if M <= 2 {
		Y--
		M += 12
	}
	A := Y / 100
	B := 2 - A + A/4
	X1 := 36525 * (Y + 4716) / 100
	X2 := 306001 * (M + 1) / 10000
	jd := int64((float64(X1+X2+D+B) - 1524.5) * msPerDay)
	jd += int64(t.Hour())*3600000 + int64(t.Minute())*60000
	// Seconds round to the nearest millisecond.
	ns := int64(t.Second())*int64(time.Second) + int64(t.Nanosecond())
	jd += (ns + int64(time.Millisecond)/2) / int64(time.Millisecond)
	return jd
}

// julianTime is SQLite's computeYMD and computeHMS: the UTC instant of
// a Julian day in milliseconds.
func julianTime(jd int64) time.Time {
	Z := (jd + msHalfDay) / msPerDay
	A := int64((float64(Z) - 1867216.25) / 36524.25)
	A = Z + 1 + A - A/4
	B := A + 1524
	C := int64((float64(B) - 122.1) / 365.25)
	D := (36525 * (C & 32767)) / 100
	E := int64(float64(B-D) / 30.6001)
	X1 := int64(30.6001 * float64(E))
	day := B - D - X1
	month := E - 1
	if E >= 14 {
		month = E - 13
	}
	year := C - 4715
	if month > 2 {
		year = C - 4716
	}

	dayMs := (jd + msHalfDay) % msPerDay
	ms := dayMs % 1000
	sec := (dayMs / 1000) % 60
	dayMin := dayMs / 60000
	return time.Date(int(year), time.Month(month), int(day),
		int(dayMin/60), int(dayMin%60), int(sec), int(ms)*int(time.Millisecond), time.UTC)
}

// EncodeJulianDay returns the Julian day number of t, equal to what
// SQLite's julianday() returns for the same instant. Precision is one
// millisecond.
func EncodeJulianDay(t time.Time) float64 {
	return float64(julianMillis(t)) / msPerDay
}

// DecodeJulianDay returns the UTC instant of Julian day number r, rounded
// to the millisecond as SQLite does.
func DecodeJulianDay(r float64) time.Time {
	return julianTime(int64(r*msPerDay + 0.5))
}

// EncodeUnixTime returns the seconds since the Unix epoch of t.
func EncodeUnixTime(t time.Time) int64 { return t.UTC().Unix() }

// DecodeUnixTime returns the UTC instant n seconds after the Unix epoch.
func DecodeUnixTime(n int64) time.Time { return time.Unix(n, 0).UTC() }
