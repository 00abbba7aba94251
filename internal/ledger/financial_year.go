package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FinancialYear identifies an April-to-March accounting year in the
// "2024-25" form used across vouchers and reports.
type FinancialYear string

// FinancialYearForDate returns the financial year containing d. January
// through March belong to the year that started the previous April.
func FinancialYearForDate(d time.Time) FinancialYear {
	start := d.Year()
	if d.Month() < time.April {
		start--
	}
	return FinancialYear(fmt.Sprintf("%d-%02d", start, (start+1)%100))
}

// CurrentFinancialYear returns the financial year containing now.
func CurrentFinancialYear(now time.Time) FinancialYear {
	return FinancialYearForDate(now)
}

// FinancialYearList returns the current and preceding financial years,
// newest first.
func FinancialYearList(now time.Time, count int) []FinancialYear {
	start := now.Year()
	if now.Month() < time.April {
		start--
	}
	years := make([]FinancialYear, 0, count)
	for i := 0; i < count; i++ {
		y := start - i
		years = append(years, FinancialYear(fmt.Sprintf("%d-%02d", y, (y+1)%100)))
	}
	return years
}

// StartDate returns April 1st of the financial year's opening year.
func (fy FinancialYear) StartDate() (time.Time, error) {
	year, err := fy.startYear()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC), nil
}

// EndDate returns March 31st of the financial year's closing year.
func (fy FinancialYear) EndDate() (time.Time, error) {
	year, err := fy.startYear()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year+1, time.March, 31, 0, 0, 0, 0, time.UTC), nil
}

// Contains reports whether d falls within the financial year.
func (fy FinancialYear) Contains(d time.Time) bool {
	start, err := fy.StartDate()
	if err != nil {
		return false
	}
	end, _ := fy.EndDate()
	return !d.Before(start) && !d.After(end)
}

func (fy FinancialYear) startYear() (int, error) {
	parts := strings.SplitN(string(fy), "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1900 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFinancialYear, fy)
	}
	return year, nil
}
