package services

import (
	"fmt"
	"time"
)

const DateLayout = time.DateOnly

type WeekBounds struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// GetWeekBounds returns [date 00:00:00.000, date+6 23:59:59.999] in date's
// location. The date is not moved to a Monday.
func GetWeekBounds(date time.Time) WeekBounds {
	start := startOfDay(date)
	end := time.Date(start.Year(), start.Month(), start.Day()+6, 23, 59, 59, int(999*time.Millisecond), start.Location())
	return WeekBounds{StartDate: start, EndDate: end}
}

func ValidateMonday(date time.Time) error {
	if date.Weekday() != time.Monday {
		return fmt.Errorf("%s is a %s: %w", date.Format(DateLayout), date.Weekday(), ErrInvalidWeekStart)
	}
	return nil
}

// ParseStartDate parses a YYYY-MM-DD or RFC 3339 start date without weekday
// correction. An empty param yields the Monday on or before now, at midnight.
func ParseStartDate(param string, now time.Time) (time.Time, error) {
	if param == "" {
		return MondayOnOrBefore(now), nil
	}

	if date, err := time.ParseInLocation(DateLayout, param, now.Location()); err == nil {
		return date, nil
	}
	if date, err := time.Parse(time.RFC3339Nano, param); err == nil {
		return date, nil
	}
	return time.Time{}, validationError(fmt.Sprintf("invalid start date %q", param))
}

func MondayOnOrBefore(date time.Time) time.Time {
	offset := int(date.Weekday()) - 1
	if date.Weekday() == time.Sunday {
		offset = 6
	}
	start := startOfDay(date)
	return time.Date(start.Year(), start.Month(), start.Day()-offset, 0, 0, 0, 0, start.Location())
}

// ParseWeekStart parses a YYYY-MM-DD path value and requires it to be a Monday.
func ParseWeekStart(param string) (time.Time, error) {
	date, err := time.Parse(DateLayout, param)
	if err != nil {
		return time.Time{}, validationError(fmt.Sprintf("invalid week start %q", param))
	}
	if err := ValidateMonday(date); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

func startOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
