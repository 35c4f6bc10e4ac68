// Package loader imports SWIFT code exports into the repository.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/zdziszkee/swiftatlas/internal/metrics"
	parser "github.com/zdziszkee/swiftatlas/internal/parsers"
	reader "github.com/zdziszkee/swiftatlas/internal/readers"
	repository "github.com/zdziszkee/swiftatlas/internal/repositories"
)

// Summary counts what happened to the rows of one import.
type Summary struct {
	Read       int
	Inserted   int
	Duplicates int
	Skipped    int
}

type Loader struct {
	reader  reader.SwiftBanksReader
	parser  parser.SwiftBanksParser
	repo    repository.SwiftRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(r reader.SwiftBanksReader, p parser.SwiftBanksParser, repo repository.SwiftRepository, logger *zap.Logger, m *metrics.Metrics) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{reader: r, parser: p, repo: repo, logger: logger.Named("loader"), metrics: m}
}

// LoadFile imports the export at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open swift codes file: %w", err)
	}
	defer f.Close()

	return l.Load(ctx, f)
}

// Load creates every valid row through the repository. Duplicates and
// invalid rows are counted and skipped; a store error aborts the import.
func (l *Loader) Load(ctx context.Context, src io.Reader) (Summary, error) {
	records, err := l.reader.LoadSwiftBanks(src)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read swift codes: %w", err)
	}

	codes, skipped := l.parser.ParseSwiftBanks(records)
	summary := Summary{Read: len(records), Skipped: len(skipped)}
	for range skipped {
		l.metrics.IncLoaded("skipped")
	}

	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := l.repo.Create(ctx, code)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			summary.Duplicates++
			l.metrics.IncLoaded("duplicate")
		case err != nil:
			return summary, fmt.Errorf("failed to store swift code %s: %w", code.SwiftCode, err)
		default:
			summary.Inserted++
			l.metrics.IncLoaded("inserted")
		}
	}

	l.logger.Info("swift codes imported",
		zap.Int("read", summary.Read),
		zap.Int("inserted", summary.Inserted),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}
