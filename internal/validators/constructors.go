package validators

import (
	"github.com/zdziszkee/swiftatlas/internal/models"
)

// NewSummary normalizes raw summary fields and checks the headquarter flag
// against the code.
func NewSummary(raw models.SwiftCodeSummary) (models.SwiftCodeSummary, error) {
	var out models.SwiftCodeSummary
	var err error

	if out.Address, err = NormalizeText("address", raw.Address); err != nil {
		return models.SwiftCodeSummary{}, err
	}
	if out.BankName, err = NormalizeText("bankName", raw.BankName); err != nil {
		return models.SwiftCodeSummary{}, err
	}
	if out.SwiftCode, err = NormalizeCode(raw.SwiftCode); err != nil {
		return models.SwiftCodeSummary{}, err
	}
	if out.CountryISO2, err = NormalizeCountryISO2(raw.CountryISO2); err != nil {
		return models.SwiftCodeSummary{}, err
	}
	if err = ValidateHeadquarterConsistency(out.SwiftCode, raw.IsHeadquarter); err != nil {
		return models.SwiftCodeSummary{}, err
	}
	out.IsHeadquarter = raw.IsHeadquarter

	return out, nil
}

// NewDetailed builds a detailed code. The country name is normalized with the
// other free-text fields, before the code checks.
func NewDetailed(raw models.SwiftCodeDetailed) (models.SwiftCodeDetailed, error) {
	countryName, err := NormalizeCountryName(raw.CountryName)
	if err != nil {
		return models.SwiftCodeDetailed{}, err
	}
	summary, err := NewSummary(raw.SwiftCodeSummary)
	if err != nil {
		return models.SwiftCodeDetailed{}, err
	}
	return models.SwiftCodeDetailed{SwiftCodeSummary: summary, CountryName: countryName}, nil
}

// NewHeadquarterGroup builds the headquarter, each branch, and then checks
// that every branch shares the headquarter prefix.
func NewHeadquarterGroup(raw models.SwiftCodeDetailed, rawBranches []models.SwiftCodeSummary) (*models.HeadquarterGroup, error) {
	hq, err := NewDetailed(raw)
	if err != nil {
		return nil, err
	}

	branches := make([]models.SwiftCodeSummary, 0, len(rawBranches))
	for _, rb := range rawBranches {
		branch, err := NewSummary(rb)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}

	if err := ValidateBranchPrefixes(hq.SwiftCode, branches); err != nil {
		return nil, err
	}

	return &models.HeadquarterGroup{SwiftCodeDetailed: hq, Branches: branches}, nil
}

// NewCountryGroup builds a country grouping and checks every member belongs
// to it.
func NewCountryGroup(countryISO2, countryName string, rawMembers []models.SwiftCodeSummary) (*models.CountryGroup, error) {
	name, err := NormalizeCountryName(countryName)
	if err != nil {
		return nil, err
	}
	iso2, err := NormalizeCountryISO2(countryISO2)
	if err != nil {
		return nil, err
	}

	members := make([]models.SwiftCodeSummary, 0, len(rawMembers))
	for _, rm := range rawMembers {
		member, err := NewSummary(rm)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	if err := ValidateCountryMembership(iso2, members); err != nil {
		return nil, err
	}

	return &models.CountryGroup{CountryISO2: iso2, CountryName: name, SwiftCodes: members}, nil
}
