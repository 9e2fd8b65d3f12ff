package validation

import (
	"fmt"
	"strings"
)

const (
	MaxTitleLength = 200
	MaxNameLength  = 100
)

// ValidateTitle validates goal, entry and milestone titles
func ValidateTitle(title string) error {
	return validateText("title", title, MaxTitleLength)
}

// ValidateName validates tag, goal type and progress type names
func ValidateName(name string) error {
	return validateText("name", name, MaxNameLength)
}

func validateText(field, value string, maxLength int) error {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}

	if len([]rune(trimmed)) > maxLength {
		return fmt.Errorf("%s is too long (max %d characters)", field, maxLength)
	}

	return nil
}
