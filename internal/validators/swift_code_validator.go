package validators

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zdziszkee/swiftatlas/internal/models"
)

const (
	// HeadquarterSuffix marks a headquarter code.
	HeadquarterSuffix = "XXX"

	swiftCodeLength = 11
	shortCodeLength = 8
)

// bank(4) country(2) location(2) branch(3)
var swiftCodeRegex = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}[A-Z0-9]{3}$`)
var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// NormalizeCode trims and uppercases a SWIFT code, pads 8-character codes
// with the headquarter suffix and checks the 11-character structure.
func NormalizeCode(raw string) (string, error) {
	original := raw
	code := strings.ToUpper(strings.TrimSpace(raw))

	if utf8.RuneCountInString(code) == shortCodeLength {
		code += HeadquarterSuffix
	}
	if utf8.RuneCountInString(code) != swiftCodeLength {
		return "", newValidationError("swiftCode", original, ErrInvalidLength,
			"swiftCode must be 8 or 11 characters long, got %q", original)
	}
	if !swiftCodeRegex.MatchString(code) {
		return "", newValidationError("swiftCode", original, ErrInvalidFormat,
			"swiftCode %q does not match the BIC format", original)
	}
	return code, nil
}

// NormalizeCountryISO2 trims and uppercases a two-letter country code.
func NormalizeCountryISO2(raw string) (string, error) {
	iso2 := strings.ToUpper(strings.TrimSpace(raw))

	if utf8.RuneCountInString(iso2) != 2 {
		return "", newValidationError("countryISO2", raw, ErrInvalidLength,
			"countryISO2 must be 2 characters long, got %q", raw)
	}
	if !countryCodeRegex.MatchString(iso2) {
		return "", newValidationError("countryISO2", raw, ErrInvalidFormat,
			"countryISO2 %q must consist of letters only", raw)
	}
	return iso2, nil
}

// NormalizeText trims a free-text field and rejects blank values.
func NormalizeText(field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", newValidationError(field, raw, ErrEmptyField, "%s cannot be empty", field)
	}
	return v, nil
}

// NormalizeCountryName trims and uppercases the country name.
func NormalizeCountryName(raw string) (string, error) {
	v, err := NormalizeText("countryName", raw)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(v), nil
}

// IsHeadquarterCode reports whether the code carries the headquarter suffix.
func IsHeadquarterCode(code string) bool {
	return strings.HasSuffix(code, HeadquarterSuffix)
}

// ValidateHeadquarterConsistency checks that a code ends in XXX exactly when
// it is flagged as a headquarter.
func ValidateHeadquarterConsistency(code string, isHeadquarter bool) error {
	endsInXXX := IsHeadquarterCode(code)
	switch {
	case endsInXXX && !isHeadquarter:
		return newValidationError("isHeadquarter", code, ErrHeadquarterMismatch,
			"swiftCode %q ends in XXX but isHeadquarter=false", code)
	case !endsInXXX && isHeadquarter:
		return newValidationError("isHeadquarter", code, ErrHeadquarterMismatch,
			"isHeadquarter=true but swiftCode %q does not end in XXX", code)
	}
	return nil
}

// ValidateBranchPrefixes stops at the first branch whose 8-character prefix
// differs from the headquarter's.
func ValidateBranchPrefixes(headquarterCode string, branches []models.SwiftCodeSummary) error {
	hq := models.SwiftCodeSummary{SwiftCode: headquarterCode}
	expected := hq.Prefix8()
	for _, branch := range branches {
		if branch.Prefix8() != expected {
			return newValidationError("branches", branch.SwiftCode, ErrPrefixMismatch,
				"branch swiftCode %q does not match the headquarter prefix %q", branch.SwiftCode, expected)
		}
	}
	return nil
}

// ValidateCountryMembership stops at the first member registered in a
// different country than the group.
func ValidateCountryMembership(groupISO2 string, members []models.SwiftCodeSummary) error {
	for _, member := range members {
		if member.CountryISO2 != groupISO2 {
			return newValidationError("swiftCodes", member.SwiftCode, ErrCountryMismatch,
				"swift code %q countryISO2 %q does not match the country group %q",
				member.SwiftCode, member.CountryISO2, groupISO2)
		}
	}
	return nil
}
