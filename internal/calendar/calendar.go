// Package calendar lays bookings out on a month grid.
package calendar

import (
	"encoding/json"
	"time"

	"portal/internal/domain/entity"
	"portal/internal/errors"
)

const (
	weeks       = 6
	daysPerWeek = 7
)

// Day is one cell of the grid.
type Day struct {
	Date     time.Time        `json:"-"`
	InMonth  bool             `json:"inMonth"`
	Today    bool             `json:"today"`
	Bookings []entity.Booking `json:"bookings"`
}

// MarshalJSON renders the date as YYYY-MM-DD.
func (d Day) MarshalJSON() ([]byte, error) {
	type alias Day

	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{
		Date:  d.Date.Format(time.DateOnly),
		alias: alias(d),
	})
}

// Month is a 6x7 grid starting on the configured weekday.
type Month struct {
	Year      int                     `json:"year"`
	Month     time.Month              `json:"month"`
	WeekStart time.Weekday            `json:"weekStart"`
	Weeks     [weeks][daysPerWeek]Day `json:"weeks"`
	Unplaced  []entity.Booking        `json:"unplaced,omitempty"`
}

// ParseMonth parses YYYY-MM. An empty value selects the month of now.
func ParseMonth(value string, now time.Time) (int, time.Month, error) {
	if value == "" {
		return now.Year(), now.Month(), nil
	}

	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "parse month %q", value)
	}

	return t.Year(), t.Month(), nil
}

// Build places bookings on the grid of year/month by booking date. Bookings with no
// date are returned in Unplaced; bookings outside the visible grid are dropped.
func Build(year int, month time.Month, weekStart time.Weekday, bookings []entity.Booking, today time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) - int(weekStart) + daysPerWeek) % daysPerWeek
	gridStart := first.AddDate(0, 0, -offset)
	todayKey := today.Format(time.DateOnly)

	m := Month{Year: year, Month: month, WeekStart: weekStart}
	index := make(map[string]*Day, weeks*daysPerWeek)

	for w := range weeks {
		for d := range daysPerWeek {
			date := gridStart.AddDate(0, 0, w*daysPerWeek+d)
			key := date.Format(time.DateOnly)
			m.Weeks[w][d] = Day{
				Date:     date,
				InMonth:  date.Month() == month,
				Today:    key == todayKey,
				Bookings: []entity.Booking{},
			}
			index[key] = &m.Weeks[w][d]
		}
	}

	for _, b := range bookings {
		if b.BookingDate.IsZero() {
			m.Unplaced = append(m.Unplaced, b)

			continue
		}
		if day, ok := index[b.BookingDate.Format(time.DateOnly)]; ok {
			day.Bookings = append(day.Bookings, b)
		}
	}

	return m
}
