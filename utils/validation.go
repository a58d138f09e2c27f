// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[0-9]\d{6,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ValidSkinType reports whether s is one of the known skin types.
// Empty is allowed (the field is optional).
func ValidSkinType(s string) bool {
	switch s {
	case "", "dry", "oily", "combination", "sensitive", "normal":
		return true
	}
	return false
}
