package validation

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/templui/goaltrack/internal/model"
)

const (
	MinDelta = -100
	MaxDelta = 100
	MinYear  = 2000
	MaxYear  = 2100
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func ValidateStatus(status string) error {
	if !slices.Contains(model.GoalStatuses, status) {
		return fmt.Errorf("invalid status %q", status)
	}
	return nil
}

func ValidateQuarter(quarter *string) error {
	if quarter == nil {
		return nil
	}
	if !slices.Contains(model.Quarters, *quarter) {
		return fmt.Errorf("invalid quarter %q (expected Q1 to Q4)", *quarter)
	}
	return nil
}

func ValidateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < MinYear || *year > MaxYear {
		return fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	}
	return nil
}

// ValidateColor accepts an empty color (meaning default) or #rrggbb.
func ValidateColor(color string) error {
	if color == "" || hexColor.MatchString(color) {
		return nil
	}
	return fmt.Errorf("invalid color %q (expected #rrggbb)", color)
}

func ValidatePercent(field string, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("%s must be between 0 and 100", field)
	}
	return nil
}

func ValidateDelta(delta int) error {
	if delta < MinDelta || delta > MaxDelta {
		return fmt.Errorf("progress delta must be between %d and %d", MinDelta, MaxDelta)
	}
	return nil
}
