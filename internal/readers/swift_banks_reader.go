package reader

import (
	"io"
)

// SwiftBankRecord is one raw row of a SWIFT code export. Columns the service
// does not keep (code type, town name, time zone) are dropped.
type SwiftBankRecord struct {
	Index       int
	CountryISO2 string // COUNTRY ISO2 CODE
	SwiftCode   string // SWIFT CODE
	BankName    string // NAME
	Address     string // ADDRESS
	CountryName string // COUNTRY NAME
}

// SwiftBanksReader reads raw SWIFT code rows from a source.
type SwiftBanksReader interface {
	LoadSwiftBanks(reader io.Reader) ([]SwiftBankRecord, error)
}
