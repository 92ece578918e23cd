package period

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("end must be after start")

const dayLayout = "2006-01-02"

// Period is a half-open event window [start, end) with end strictly after start.
type Period struct {
	start time.Time
	end   time.Time
}

func New(start, end time.Time) (Period, error) {
	if !end.After(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{start: start, end: end}, nil
}

// FromPointers returns nil when either bound is missing.
func FromPointers(start, end *time.Time) (*Period, error) {
	if start == nil || end == nil {
		return nil, nil
	}
	p, err := New(*start, *end)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p Period) Start() time.Time        { return p.start }
func (p Period) End() time.Time          { return p.end }
func (p Period) Duration() time.Duration { return p.end.Sub(p.start) }
func (p Period) Hours() float64          { return p.Duration().Hours() }

func (p Period) StartDay(loc *time.Location) Day { return DayOf(p.start, loc) }
func (p Period) EndDay(loc *time.Location) Day   { return DayOf(p.end, loc) }

// Days lists every calendar day touched by the period, both ends included.
func (p Period) Days(loc *time.Location) []Day {
	first, last := p.StartDay(loc), p.EndDay(loc)
	var days []Day
	for d := first; !d.After(last); d = d.Next() {
		days = append(days, d)
	}
	return days
}

// DaysOverlap compares calendar days only. Two events on the same date overlap
// even when their hours do not.
func (p Period) DaysOverlap(other Period, loc *time.Location) bool {
	return !other.StartDay(loc).After(p.EndDay(loc)) && !other.EndDay(loc).Before(p.StartDay(loc))
}

func (p Period) String() string {
	return fmt.Sprintf("%s/%s", p.start.Format(time.RFC3339), p.end.Format(time.RFC3339))
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

// Day is a calendar date without a zone. It is comparable and usable as a map key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t, time.UTC), nil
}

func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) Next() Day {
	return DayOf(time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, time.UTC), time.UTC)
}

func (d Day) Compare(other Day) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Day) Before(other Day) bool { return d.Compare(other) < 0 }
func (d Day) After(other Day) bool  { return d.Compare(other) > 0 }

func (d Day) String() string {
	return d.Time(time.UTC).Format(dayLayout)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
