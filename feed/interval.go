package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Interval is the duration between consecutive points of a price series
type Interval time.Duration

// Supported intervals
const (
	FiveMin    = Interval(5 * time.Minute)
	FifteenMin = Interval(15 * time.Minute)
	ThirtyMin  = Interval(30 * time.Minute)
	TwoHour    = Interval(2 * time.Hour)
	FourHour   = Interval(4 * time.Hour)
	OneDay     = Interval(24 * time.Hour)
)

var (
	errUnsupportedInterval = errors.New("unsupported interval")
	errInvalidTimeRange    = errors.New("end must be after start")

	supportedIntervals = []Interval{FiveMin, FifteenMin, ThirtyMin, TwoHour, FourHour, OneDay}
)

// SupportedIntervals returns every interval a price series can be stored at
func SupportedIntervals() []Interval {
	resp := make([]Interval, len(supportedIntervals))
	copy(resp, supportedIntervals)
	return resp
}

// Duration returns the interval as a time.Duration
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// Seconds returns the interval length in whole seconds
func (i Interval) Seconds() int64 {
	return int64(time.Duration(i) / time.Second)
}

// Short returns the compact form used in config files, eg 5m or 1d
func (i Interval) Short() string {
	switch i {
	case FiveMin:
		return "5m"
	case FifteenMin:
		return "15m"
	case ThirtyMin:
		return "30m"
	case TwoHour:
		return "2h"
	case FourHour:
		return "4h"
	case OneDay:
		return "1d"
	}
	return time.Duration(i).String()
}

// Word returns the human readable label of the interval
func (i Interval) Word() string {
	switch i {
	case FiveMin:
		return "5 min"
	case FifteenMin:
		return "15 min"
	case ThirtyMin:
		return "30 min"
	case TwoHour:
		return "2 hrs"
	case FourHour:
		return "4 hrs"
	case OneDay:
		return "1 day"
	}
	return "unsupported"
}

// String implements fmt.Stringer
func (i Interval) String() string {
	return i.Short()
}

// Validate returns an error if the interval is not supported
func (i Interval) Validate() error {
	for x := range supportedIntervals {
		if supportedIntervals[x] == i {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errUnsupportedInterval, time.Duration(i))
}

// NumberOfPeriods returns how many whole intervals fit between start and end
func (i Interval) NumberOfPeriods(start, end time.Time) (int64, error) {
	if err := i.Validate(); err != nil {
		return 0, err
	}
	if !end.After(start) {
		return 0, errInvalidTimeRange
	}
	return int64(end.Sub(start) / time.Duration(i)), nil
}

// ParseInterval converts the compact form (5m, 15m, 30m, 2h, 4h, 1d) into an
// Interval
func ParseInterval(s string) (Interval, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for x := range supportedIntervals {
		if supportedIntervals[x].Short() == s {
			return supportedIntervals[x], nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnsupportedInterval, s)
}

// MarshalJSON writes the compact form
func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Short())
}

// UnmarshalJSON reads the compact form
func (i *Interval) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseInterval(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}
