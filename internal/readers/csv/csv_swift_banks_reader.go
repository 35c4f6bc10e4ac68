package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	readers "github.com/zdziszkee/swiftatlas/internal/readers"
)

type CSVSwiftBanksReader struct {
}

const expectedHeader = "COUNTRY ISO2 CODE,SWIFT CODE,CODE TYPE,NAME,ADDRESS,TOWN NAME,COUNTRY NAME,TIME ZONE"

var expectedHeaders = strings.Split(expectedHeader, ",")

// LoadSwiftBanks reads every row after validating the header. Empty input
// yields no records.
func (c *CSVSwiftBanksReader) LoadSwiftBanks(reader io.Reader) ([]readers.SwiftBankRecord, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []readers.SwiftBankRecord{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	// Case-insensitive and space-trimmed comparison
	headerMap := make(map[string]int, len(header))
	for i, col := range header {
		normalized := strings.TrimSpace(strings.ToUpper(col))
		if normalized != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid header: expected '%s' at index %d, got '%s'", expectedHeaders[i], i, col)
		}
		headerMap[normalized] = i
	}

	records := []readers.SwiftBankRecord{}
	rowNum := 1
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if len(row) != len(expectedHeaders) {
			return nil, fmt.Errorf("row %d: invalid length", rowNum)
		}

		getVal := func(field string) string {
			return strings.TrimSpace(row[headerMap[field]])
		}

		records = append(records, readers.SwiftBankRecord{
			Index:       rowNum,
			CountryISO2: getVal("COUNTRY ISO2 CODE"),
			SwiftCode:   getVal("SWIFT CODE"),
			BankName:    getVal("NAME"),
			Address:     getVal("ADDRESS"),
			CountryName: getVal("COUNTRY NAME"),
		})
		rowNum++
	}

	return records, nil
}
