package models

// SwiftBank is the stored shape of a SWIFT code: one document per code.
type SwiftBank struct {
	ID               string `db:"id" bson:"-" json:"-"`
	SwiftCode        string `db:"swift_code" bson:"swiftCode" json:"swiftCode"`
	SwiftCodePrefix8 string `db:"swift_code_prefix8" bson:"swiftCodePrefix8" json:"swiftCodePrefix8"`
	CountryISO2      string `db:"country_iso2" bson:"countryISO2" json:"countryISO2"`
	BankName         string `db:"bank_name" bson:"bankName" json:"bankName"`
	IsHeadquarter    bool   `db:"is_headquarter" bson:"isHeadquarter" json:"isHeadquarter"`
	Address          string `db:"address" bson:"address" json:"address"`
	CountryName      string `db:"country_name" bson:"countryName" json:"countryName"`
}

// SwiftCodeSummary is the shape of branch and country-member entries.
type SwiftCodeSummary struct {
	Address       string `json:"address"`
	BankName      string `json:"bankName"`
	CountryISO2   string `json:"countryISO2"`
	IsHeadquarter bool   `json:"isHeadquarter"`
	SwiftCode     string `json:"swiftCode"`
}

// SwiftCodeDetailed is a summary plus the country name.
type SwiftCodeDetailed struct {
	SwiftCodeSummary
	CountryName string `json:"countryName"`
}

// Details returns the detailed projection of the value.
func (d SwiftCodeDetailed) Details() SwiftCodeDetailed {
	return d
}

// Prefix8 returns the headquarter grouping key of the code.
func (s SwiftCodeSummary) Prefix8() string {
	if len(s.SwiftCode) < 8 {
		return s.SwiftCode
	}
	return s.SwiftCode[:8]
}

// HeadquarterGroup is a headquarter together with the branches sharing its prefix.
type HeadquarterGroup struct {
	SwiftCodeDetailed
	Branches []SwiftCodeSummary `json:"branches"`
}

// CountryGroup holds every SWIFT code registered for a country.
type CountryGroup struct {
	CountryISO2 string             `json:"countryISO2"`
	CountryName string             `json:"countryName"`
	SwiftCodes  []SwiftCodeSummary `json:"swiftCodes"`
}

// SwiftCodeDetails is returned by hierarchy lookups: either a plain
// SwiftCodeDetailed or a HeadquarterGroup.
type SwiftCodeDetails interface {
	Details() SwiftCodeDetailed
}

// ToBank converts a detailed code into its stored document form.
func (d SwiftCodeDetailed) ToBank() SwiftBank {
	return SwiftBank{
		SwiftCode:        d.SwiftCode,
		SwiftCodePrefix8: d.Prefix8(),
		CountryISO2:      d.CountryISO2,
		BankName:         d.BankName,
		IsHeadquarter:    d.IsHeadquarter,
		Address:          d.Address,
		CountryName:      d.CountryName,
	}
}

// Summary projects the stored document onto the summary fields.
func (b SwiftBank) Summary() SwiftCodeSummary {
	return SwiftCodeSummary{
		Address:       b.Address,
		BankName:      b.BankName,
		CountryISO2:   b.CountryISO2,
		IsHeadquarter: b.IsHeadquarter,
		SwiftCode:     b.SwiftCode,
	}
}

// Detailed projects the stored document onto the detailed fields.
func (b SwiftBank) Detailed() SwiftCodeDetailed {
	return SwiftCodeDetailed{SwiftCodeSummary: b.Summary(), CountryName: b.CountryName}
}
