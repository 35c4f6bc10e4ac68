package parser

import (
	"strings"

	"go.uber.org/zap"

	models "github.com/zdziszkee/swiftatlas/internal/models"
	readers "github.com/zdziszkee/swiftatlas/internal/readers"
	"github.com/zdziszkee/swiftatlas/internal/validators"
)

// SkippedRecord is a row that could not be turned into a SWIFT code.
type SkippedRecord struct {
	Index     int
	SwiftCode string
	Err       error
}

type SwiftBanksParser interface {
	ParseSwiftBanks(swiftBankRecords []readers.SwiftBankRecord) ([]models.SwiftCodeDetailed, []SkippedRecord)
}

// DefaultSwiftBanksParser validates rows with the validators package. The
// headquarter flag is derived from the normalized code's suffix.
type DefaultSwiftBanksParser struct {
	Logger *zap.Logger
}

func (p DefaultSwiftBanksParser) ParseSwiftBanks(swiftBankRecords []readers.SwiftBankRecord) ([]models.SwiftCodeDetailed, []SkippedRecord) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	codes := make([]models.SwiftCodeDetailed, 0, len(swiftBankRecords))
	var skipped []SkippedRecord

	for _, record := range swiftBankRecords {
		code, err := parseRecord(record)
		if err != nil {
			logger.Warn("skipping invalid swift code record",
				zap.Int("index", record.Index),
				zap.String("swift_code", record.SwiftCode),
				zap.Error(err))
			skipped = append(skipped, SkippedRecord{Index: record.Index, SwiftCode: record.SwiftCode, Err: err})
			continue
		}
		codes = append(codes, code)
	}

	return codes, skipped
}

func parseRecord(record readers.SwiftBankRecord) (models.SwiftCodeDetailed, error) {
	// 8-character codes become headquarters once padded.
	normalized, err := validators.NormalizeCode(record.SwiftCode)
	if err != nil {
		return models.SwiftCodeDetailed{}, err
	}

	return validators.NewDetailed(models.SwiftCodeDetailed{
		SwiftCodeSummary: models.SwiftCodeSummary{
			Address:       record.Address,
			BankName:      record.BankName,
			CountryISO2:   strings.TrimSpace(record.CountryISO2),
			IsHeadquarter: validators.IsHeadquarterCode(normalized),
			SwiftCode:     normalized,
		},
		CountryName: record.CountryName,
	})
}
