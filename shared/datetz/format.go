package datetz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tempo/shared/timezone"
)

// DefaultFormat is used when no parse format is configured.
const DefaultFormat = "YYYY-MM-DD HH:mm:ss.SS"

var ErrParse = errors.New("cannot parse datetz")

// tokens ordered longest first so that "YYYY" wins over "YY".
var formatTokens = []string{
	"YYYY", "SSS", "YY", "MM", "DD", "HH", "hh", "mm", "ss", "SS", "ZZ",
	"M", "D", "H", "h", "m", "s", "S", "A", "a", "Z",
}

type token struct {
	name    string
	literal string
}

func tokenize(format string) []token {
	var tokens []token

	for pos := 0; pos < len(format); {
		if format[pos] == '[' {
			end := strings.IndexByte(format[pos:], ']')
			if end > 0 {
				tokens = append(tokens, token{literal: format[pos+1 : pos+end]})
				pos += end + 1

				continue
			}
		}

		matched := false

		for _, name := range formatTokens {
			if strings.HasPrefix(format[pos:], name) {
				tokens = append(tokens, token{name: name})
				pos += len(name)
				matched = true

				break
			}
		}

		if !matched {
			tokens = append(tokens, token{literal: format[pos : pos+1]})
			pos++
		}
	}

	return tokens
}

type fields struct {
	year, month, day     int
	hour, minute, second int
	millis               int
	meridiem             string
	offset               *int
}

// Parse reads text strictly according to format and interprets the wall
// clock in zone. An explicit offset (Z, ZZ) in the text fixes the instant,
// the zone is still carried as display zone.
func Parse(text, format, zone string) (DateTz, error) {
	loc, err := timezone.Load(zone)
	if err != nil {
		return DateTz{}, fmt.Errorf("%w: %q", ErrUnknownTimezone, zone)
	}

	if format == "" {
		format = DefaultFormat
	}

	f := fields{year: 1970, month: 1, day: 1}
	rest := text

	for _, tok := range tokenize(format) {
		if tok.name == "" {
			if !strings.HasPrefix(rest, tok.literal) {
				return DateTz{}, parseError(text, format, "expected %q", tok.literal)
			}

			rest = rest[len(tok.literal):]

			continue
		}

		rest, err = f.consume(tok.name, rest)
		if err != nil {
			return DateTz{}, parseError(text, format, "%s: %v", tok.name, err)
		}
	}

	if rest != "" {
		return DateTz{}, parseError(text, format, "unexpected trailing text %q", rest)
	}

	if err := f.validate(); err != nil {
		return DateTz{}, parseError(text, format, "%v", err)
	}

	wallLoc := loc
	if f.offset != nil {
		wallLoc = time.FixedZone("", *f.offset)
	}

	t := time.Date(f.year, time.Month(f.month), f.day, f.hour, f.minute, f.second, f.millis*int(time.Millisecond), wallLoc)

	return New(t.UnixMilli(), zone)
}

func parseError(text, format, msg string, args ...any) error {
	return fmt.Errorf("%w %q with format %q: %s", ErrParse, text, format, fmt.Sprintf(msg, args...))
}

func (f *fields) consume(name, rest string) (string, error) {
	switch name {
	case "YYYY":
		return digits(rest, 4, 4, &f.year)
	case "YY":
		rest, err := digits(rest, 2, 2, &f.year)
		if err == nil {
			if f.year > 68 {
				f.year += 1900
			} else {
				f.year += 2000
			}
		}

		return rest, err
	case "MM":
		return digits(rest, 2, 2, &f.month)
	case "M":
		return digits(rest, 1, 2, &f.month)
	case "DD":
		return digits(rest, 2, 2, &f.day)
	case "D":
		return digits(rest, 1, 2, &f.day)
	case "HH", "hh":
		return digits(rest, 2, 2, &f.hour)
	case "H", "h":
		return digits(rest, 1, 2, &f.hour)
	case "mm":
		return digits(rest, 2, 2, &f.minute)
	case "m":
		return digits(rest, 1, 2, &f.minute)
	case "ss":
		return digits(rest, 2, 2, &f.second)
	case "s":
		return digits(rest, 1, 2, &f.second)
	case "SSS", "SS", "S":
		var frac int

		rest, err := digits(rest, len(name), len(name), &frac)
		for range 3 - len(name) {
			frac *= 10
		}

		f.millis = frac

		return rest, err
	case "A", "a":
		if len(rest) < 2 {
			return rest, errors.New("missing AM/PM")
		}

		f.meridiem = strings.ToUpper(rest[:2])
		if f.meridiem != "AM" && f.meridiem != "PM" {
			return rest, fmt.Errorf("invalid meridiem %q", rest[:2])
		}

		return rest[2:], nil
	case "Z", "ZZ":
		return f.consumeOffset(rest, name == "Z")
	}

	return rest, fmt.Errorf("unsupported token %q", name)
}

func (f *fields) consumeOffset(rest string, colon bool) (string, error) {
	if strings.HasPrefix(rest, "Z") {
		zero := 0
		f.offset = &zero

		return rest[1:], nil
	}

	if rest == "" || (rest[0] != '+' && rest[0] != '-') {
		return rest, errors.New("missing offset sign")
	}

	sign := 1
	if rest[0] == '-' {
		sign = -1
	}

	var hours, minutes int

	rest, err := digits(rest[1:], 2, 2, &hours)
	if err != nil {
		return rest, err
	}

	if colon {
		if !strings.HasPrefix(rest, ":") {
			return rest, errors.New("missing ':' in offset")
		}

		rest = rest[1:]
	}

	rest, err = digits(rest, 2, 2, &minutes)
	if err != nil {
		return rest, err
	}

	if hours > 23 || minutes > 59 {
		return rest, errors.New("offset out of range")
	}

	offset := sign * (hours*3600 + minutes*60)
	f.offset = &offset

	return rest, nil
}

func (f *fields) validate() error {
	if f.meridiem != "" {
		if f.hour < 1 || f.hour > 12 {
			return fmt.Errorf("hour %d out of range for 12-hour clock", f.hour)
		}

		switch {
		case f.meridiem == "AM" && f.hour == 12:
			f.hour = 0
		case f.meridiem == "PM" && f.hour != 12:
			f.hour += 12
		}
	}

	switch {
	case f.month < 1 || f.month > 12:
		return fmt.Errorf("month %d out of range", f.month)
	case f.day < 1 || f.day > daysIn(f.year, f.month):
		return fmt.Errorf("day %d out of range", f.day)
	case f.hour > 23:
		return fmt.Errorf("hour %d out of range", f.hour)
	case f.minute > 59:
		return fmt.Errorf("minute %d out of range", f.minute)
	case f.second > 59:
		return fmt.Errorf("second %d out of range", f.second)
	}

	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// digits reads between minLen and maxLen ASCII digits into dst.
func digits(s string, minLen, maxLen int, dst *int) (string, error) {
	n := 0
	for n < maxLen && n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}

	if n < minLen {
		return s, fmt.Errorf("expected %d digits", minLen)
	}

	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return s, err //nolint:wrapcheck
	}

	*dst = v

	return s[n:], nil
}

// Format renders the value in its own zone using the same tokens Parse
// understands. An empty layout means DefaultFormat.
func (d DateTz) Format(layout string) string {
	if layout == "" {
		layout = DefaultFormat
	}

	t := d.Time()

	var sb strings.Builder

	for _, tok := range tokenize(layout) {
		if tok.name == "" {
			sb.WriteString(tok.literal)

			continue
		}

		sb.WriteString(formatToken(t, tok.name))
	}

	return sb.String()
}

func formatToken(t time.Time, name string) string {
	hour12 := t.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}

	millis := t.Nanosecond() / int(time.Millisecond)

	switch name {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "HH":
		return fmt.Sprintf("%02d", t.Hour())
	case "H":
		return strconv.Itoa(t.Hour())
	case "hh":
		return fmt.Sprintf("%02d", hour12)
	case "h":
		return strconv.Itoa(hour12)
	case "mm":
		return fmt.Sprintf("%02d", t.Minute())
	case "m":
		return strconv.Itoa(t.Minute())
	case "ss":
		return fmt.Sprintf("%02d", t.Second())
	case "s":
		return strconv.Itoa(t.Second())
	case "SSS":
		return fmt.Sprintf("%03d", millis)
	case "SS":
		return fmt.Sprintf("%02d", millis/10)
	case "S":
		return strconv.Itoa(millis / 100)
	case "A":
		return t.Format("PM")
	case "a":
		return t.Format("pm")
	case "Z":
		return t.Format("-07:00")
	case "ZZ":
		return t.Format("-0700")
	}

	return name
}
