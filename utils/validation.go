// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var nameRegex = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)

// ValidateName checks a person name field: 2 to 50 characters after
// trimming, letters and spaces only (Spanish accents allowed).
func ValidateName(name string) bool {
	trimmed := strings.TrimSpace(name)
	length := len([]rune(trimmed))
	if length < 2 || length > 50 {
		return false
	}
	return nameRegex.MatchString(trimmed)
}

// ValidatePhone checks if a phone number has 8 to 15 digits after stripping
// spaces, dashes and parentheses, with an optional leading +.
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	regex := `^\+?[0-9]{8,15}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}
