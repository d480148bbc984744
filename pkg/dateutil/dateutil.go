package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YearMonth is a calendar month of a specific year
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth creates a YearMonth, normalizing months outside 1..12
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{}.addTotal(year*12 + int(month) - 1)
}

// ParseYearMonth parses "MM/YYYY" (the format used on the command line) or "YYYY-MM"
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	var monthStr, yearStr string
	switch {
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		if len(parts) != 2 {
			return YearMonth{}, fmt.Errorf("invalid month format %q: use MM/YYYY", s)
		}
		monthStr, yearStr = parts[0], parts[1]
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return YearMonth{}, fmt.Errorf("invalid month format %q: use YYYY-MM", s)
		}
		yearStr, monthStr = parts[0], parts[1]
	default:
		return YearMonth{}, fmt.Errorf("invalid month format %q: use MM/YYYY", s)
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("invalid month %q in %q", monthStr, s)
	}
	if len(yearStr) != 4 {
		return YearMonth{}, fmt.Errorf("invalid year %q in %q", yearStr, s)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year %q in %q", yearStr, s)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// MustParseYearMonth is ParseYearMonth for literals; it panics on malformed input.
func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

func (ym YearMonth) total() int {
	return ym.Year*12 + int(ym.Month) - 1
}

func (ym YearMonth) addTotal(total int) YearMonth {
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

// AddMonths adds a specified number of months (negative values go back in time)
func (ym YearMonth) AddMonths(months int) YearMonth {
	return ym.addTotal(ym.total() + months)
}

// Next returns the following calendar month
func (ym YearMonth) Next() YearMonth { return ym.AddMonths(1) }

// Previous returns the preceding calendar month
func (ym YearMonth) Previous() YearMonth { return ym.AddMonths(-1) }

// MonthsBetween returns the number of whole months from `from` to `to` (negative if to is earlier)
func MonthsBetween(from, to YearMonth) int {
	return to.total() - from.total()
}

// Compare returns -1, 0 or +1 depending on whether ym is before, equal to or after other
func (ym YearMonth) Compare(other YearMonth) int {
	switch a, b := ym.total(), other.total(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (ym YearMonth) Before(other YearMonth) bool { return ym.Compare(other) < 0 }
func (ym YearMonth) After(other YearMonth) bool  { return ym.Compare(other) > 0 }
func (ym YearMonth) Equal(other YearMonth) bool  { return ym.Compare(other) == 0 }

// IsZero reports whether ym is the zero value
func (ym YearMonth) IsZero() bool { return ym.Year == 0 && ym.Month == 0 }

// IsQuarterEnd reports whether the month closes a calendar quarter (Mar, Jun, Sep, Dec)
func (ym YearMonth) IsQuarterEnd() bool { return ym.Month%3 == 0 }

// IsJanuary reports whether the month opens a calendar year
func (ym YearMonth) IsJanuary() bool { return ym.Month == time.January }

// Time returns the first instant of the month in UTC
func (ym YearMonth) Time() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as MM/YYYY
func (ym YearMonth) String() string {
	return fmt.Sprintf("%02d/%04d", int(ym.Month), ym.Year)
}

// MarshalText implements encoding.TextMarshaler (used by YAML and JSON)
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// EndOfYear returns December of the year ym falls in
func EndOfYear(ym YearMonth) YearMonth {
	return YearMonth{Year: ym.Year, Month: time.December}
}
