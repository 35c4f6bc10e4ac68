package store

import (
	"fmt"
	"reflect"

	"github.com/zdziszkee/swiftatlas/internal/models"
)

// FieldValue reads a document field by name.
func FieldValue(bank *models.SwiftBank, field string) (any, error) {
	switch field {
	case FieldID:
		return bank.ID, nil
	case FieldSwiftCode:
		return bank.SwiftCode, nil
	case FieldSwiftCodePrefix8:
		return bank.SwiftCodePrefix8, nil
	case FieldCountryISO2:
		return bank.CountryISO2, nil
	case FieldBankName:
		return bank.BankName, nil
	case FieldIsHeadquarter:
		return bank.IsHeadquarter, nil
	case FieldAddress:
		return bank.Address, nil
	case FieldCountryName:
		return bank.CountryName, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// SetField writes a document field by name. The identity cannot be patched.
func SetField(bank *models.SwiftBank, field string, value any) error {
	if field == FieldIsHeadquarter {
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s expects a bool, got %T", field, value)
		}
		bank.IsHeadquarter = b
		return nil
	}

	s, ok := value.(string)
	if !ok {
		if !IsKnownField(field) {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		return fmt.Errorf("field %s expects a string, got %T", field, value)
	}

	switch field {
	case FieldSwiftCode:
		bank.SwiftCode = s
	case FieldSwiftCodePrefix8:
		bank.SwiftCodePrefix8 = s
	case FieldCountryISO2:
		bank.CountryISO2 = s
	case FieldBankName:
		bank.BankName = s
	case FieldAddress:
		bank.Address = s
	case FieldCountryName:
		bank.CountryName = s
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Matches reports whether the document satisfies every filter entry.
func Matches(bank *models.SwiftBank, filter Filter) (bool, error) {
	for field, want := range filter {
		got, err := FieldValue(bank, field)
		if err != nil {
			return false, err
		}
		if !reflect.DeepEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

// ValidatePatch rejects patches touching unknown fields or the identity.
func ValidatePatch(patch Patch) error {
	for field := range patch {
		if field == FieldID || !IsKnownField(field) {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}
