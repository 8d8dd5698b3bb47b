package timesheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"timesheet_tui/internal/constants"
)

var ErrInvalidHours = errors.New("hours must be a number between 0 and 24")

// Cents rounds hours to hundredths, half away from zero. Cells and totals both
// go through Cents so a total always equals the sum of the displayed cells.
func Cents(hours float64) int64 {
	return int64(math.Round(hours * 100))
}

// FormatCents renders hundredths of an hour with two decimals.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func FormatHours(hours float64) string {
	return FormatCents(Cents(hours))
}

// ParseHours parses a committed cell value. Blank input clears the cell and
// returns nil. Accepted values are rounded to hundredths.
func ParseHours(input string) (*float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrInvalidHours
	}
	if v < 0 || v > constants.MaxCellHours {
		return nil, ErrInvalidHours
	}
	rounded := float64(Cents(v)) / 100
	return &rounded, nil
}
