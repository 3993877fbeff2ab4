package entity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"portal/internal/errors"
)

// Amount is a money value in minor units (cents).
// It decodes from a JSON number, a numeric string or null.
type Amount int64

// AmountFromFloat converts a major-unit value, rounding to the nearest cent.
func AmountFromFloat(v float64) Amount {
	return Amount(math.Round(v * 100))
}

// Float returns the value in major units.
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String formats the amount with two decimals.
func (a Amount) String() string {
	return strconv.FormatFloat(a.Float(), 'f', 2, 64)
}

// MarshalJSON encodes the amount as a number in major units.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts 12.5, "12.50", "" and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0

		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode amount string")
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*a = 0

			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(err, "parse amount %q", raw)
	}
	*a = AmountFromFloat(v)

	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Date is a timestamp from the upstream API. The zero value means unknown.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate accepts RFC 3339, SQL datetime and plain date layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}

	return Date{}, errors.Errorf("unrecognised date %q", s)
}

// MarshalJSON encodes the date as RFC 3339 or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.Format(time.RFC3339))
}

// UnmarshalJSON accepts any of the supported layouts, an empty string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decode date")
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed

	return nil
}
