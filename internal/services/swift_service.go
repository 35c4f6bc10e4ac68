package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zdziszkee/swiftatlas/internal/metrics"
	models "github.com/zdziszkee/swiftatlas/internal/models"
	repository "github.com/zdziszkee/swiftatlas/internal/repositories"
	"github.com/zdziszkee/swiftatlas/internal/store"
	"github.com/zdziszkee/swiftatlas/internal/validators"
)

var (
	ErrNotFound      = errors.New("swift code not found")
	ErrInvalidInput  = errors.New("invalid input provided")
	ErrAlreadyExists = errors.New("swift code already exists")
)

// SwiftService handles business logic for SWIFT codes
type SwiftService interface {
	GetSwiftCodeDetails(ctx context.Context, code string) (models.SwiftCodeDetails, error)
	GetSwiftCodesByCountry(ctx context.Context, countryCode string) (*models.CountryGroup, error)
	CreateSwiftCode(ctx context.Context, code models.SwiftCodeDetailed) (string, error)
	UpdateSwiftCode(ctx context.Context, code string, patch store.Patch) (*models.SwiftCodeDetailed, error)
	ReplaceSwiftCode(ctx context.Context, id string, code models.SwiftCodeDetailed) error
	DeleteSwiftCode(ctx context.Context, code string) error
}

// swiftService implements SwiftService
type swiftService struct {
	repo    repository.SwiftRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSwiftService creates a new instance of the Swift service. logger and m
// may be nil.
func NewSwiftService(repo repository.SwiftRepository, logger *zap.Logger, m *metrics.Metrics) SwiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &swiftService{repo: repo, logger: logger.Named("service"), metrics: m}
}

// GetSwiftCodeDetails retrieves a code; headquarters come with their branches.
func (s *swiftService) GetSwiftCodeDetails(ctx context.Context, code string) (details models.SwiftCodeDetails, err error) {
	defer s.observe("get_details", time.Now(), &err)

	details, err = s.repo.GetWithHierarchy(ctx, code)
	if err != nil {
		s.logger.Debug("swift code lookup failed", zap.String("swift_code", code), zap.Error(err))
		return nil, translate(err)
	}
	if details == nil {
		s.logger.Debug("swift code not found", zap.String("swift_code", code))
		return nil, ErrNotFound
	}
	return details, nil
}

// GetSwiftCodesByCountry retrieves all SWIFT codes for a country
func (s *swiftService) GetSwiftCodesByCountry(ctx context.Context, countryCode string) (group *models.CountryGroup, err error) {
	defer s.observe("get_by_country", time.Now(), &err)

	group, err = s.repo.GetByCountry(ctx, countryCode)
	if err != nil {
		return nil, translate(err)
	}
	if group == nil {
		return nil, ErrNotFound
	}
	return group, nil
}

// CreateSwiftCode adds a new SWIFT code and returns its store identity.
func (s *swiftService) CreateSwiftCode(ctx context.Context, code models.SwiftCodeDetailed) (id string, err error) {
	defer s.observe("create", time.Now(), &err)

	receipt, err := s.repo.Create(ctx, code)
	if err != nil {
		return "", translate(err)
	}

	s.logger.Info("swift code created",
		zap.String("swift_code", code.SwiftCode),
		zap.String("id", receipt.InsertedID))
	return receipt.InsertedID, nil
}

// UpdateSwiftCode applies patch to a stored code. The merged document must
// still be valid; derived fields are recomputed and patched along.
func (s *swiftService) UpdateSwiftCode(ctx context.Context, code string, patch store.Patch) (updated *models.SwiftCodeDetailed, err error) {
	defer s.observe("update", time.Now(), &err)

	normalized, err := validators.NormalizeCode(code)
	if err != nil {
		return nil, translate(err)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}
	if err := store.ValidatePatch(patch); err != nil {
		return nil, translate(err)
	}
	if _, ok := patch[store.FieldSwiftCodePrefix8]; ok {
		return nil, fmt.Errorf("%w: %s is derived from swiftCode", ErrInvalidInput, store.FieldSwiftCodePrefix8)
	}

	existing, err := s.repo.GetByQuery(ctx, store.Filter{store.FieldSwiftCode: normalized})
	if err != nil {
		return nil, translate(err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	bank := existing.ToBank()
	for field, value := range patch {
		if err := store.SetField(&bank, field, value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	merged, err := validators.NewDetailed(bank.Detailed())
	if err != nil {
		return nil, translate(err)
	}

	if merged.SwiftCode != normalized {
		clash, err := s.repo.GetByQuery(ctx, store.Filter{store.FieldSwiftCode: merged.SwiftCode})
		if err != nil {
			return nil, translate(err)
		}
		if clash != nil {
			return nil, ErrAlreadyExists
		}
	}

	mergedBank := merged.ToBank()
	normalizedPatch := store.Patch{}
	for field := range patch {
		value, err := store.FieldValue(&mergedBank, field)
		if err != nil {
			return nil, translate(err)
		}
		normalizedPatch[field] = value
	}
	if _, ok := patch[store.FieldSwiftCode]; ok {
		normalizedPatch[store.FieldSwiftCodePrefix8] = mergedBank.SwiftCodePrefix8
	}

	receipt, err := s.repo.Update(ctx, store.Filter{store.FieldSwiftCode: normalized}, normalizedPatch)
	if err != nil {
		return nil, translate(err)
	}
	if receipt.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	s.logger.Info("swift code updated",
		zap.String("swift_code", normalized),
		zap.Int("fields", len(normalizedPatch)))
	return &merged, nil
}

// ReplaceSwiftCode overwrites the document with store identity id.
func (s *swiftService) ReplaceSwiftCode(ctx context.Context, id string, code models.SwiftCodeDetailed) (err error) {
	defer s.observe("replace", time.Now(), &err)

	receipt, err := s.repo.Replace(ctx, id, code)
	if err != nil {
		return translate(err)
	}
	if receipt.MatchedCount == 0 {
		return ErrNotFound
	}
	s.logger.Info("swift code replaced", zap.String("id", id))
	return nil
}

// DeleteSwiftCode removes a SWIFT code from the database
func (s *swiftService) DeleteSwiftCode(ctx context.Context, code string) (err error) {
	defer s.observe("delete", time.Now(), &err)

	normalized, err := validators.NormalizeCode(code)
	if err != nil {
		return translate(err)
	}

	receipt, err := s.repo.Delete(ctx, store.Filter{store.FieldSwiftCode: normalized})
	if err != nil {
		return translate(err)
	}
	if receipt.DeletedCount == 0 {
		return ErrNotFound
	}
	s.logger.Info("swift code deleted", zap.String("swift_code", normalized))
	return nil
}

func (s *swiftService) observe(operation string, start time.Time, err *error) {
	outcome := metrics.OutcomeOK
	switch {
	case *err == nil:
	case errors.Is(*err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(*err, ErrInvalidInput):
		outcome = metrics.OutcomeInvalid
	case errors.Is(*err, ErrAlreadyExists):
		outcome = metrics.OutcomeDuplicate
	default:
		outcome = metrics.OutcomeError
		s.logger.Error("swift code operation failed", zap.String("operation", operation), zap.Error(*err))
	}
	s.metrics.Observe(operation, outcome, start)
}

// translate maps validation, store and repository errors onto the service
// sentinels. The original error stays in the chain. Group mismatches can only
// come from stored documents, so they are not the caller's fault.
func translate(err error) error {
	var verr *validators.ValidationError
	switch {
	case errors.Is(err, validators.ErrPrefixMismatch),
		errors.Is(err, validators.ErrCountryMismatch):
		return fmt.Errorf("inconsistent stored data: %w", err)
	case errors.As(err, &verr),
		errors.Is(err, store.ErrUnknownField),
		errors.Is(err, store.ErrInvalidID):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, repository.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	}
	return err
}
