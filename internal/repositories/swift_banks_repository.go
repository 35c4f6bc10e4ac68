package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
	"github.com/zdziszkee/swiftatlas/internal/validators"
)

var ErrDuplicate = errors.New("swift code already exists")

// SwiftRepository defines the SWIFT code operations and the two computed views.
type SwiftRepository interface {
	Create(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error)
	GetByQuery(ctx context.Context, filter store.Filter) (*models.SwiftCodeDetailed, error)
	GetWithHierarchy(ctx context.Context, code string) (models.SwiftCodeDetails, error)
	GetByCountry(ctx context.Context, countryISO2 string) (*models.CountryGroup, error)
	Update(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error)
	Replace(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error)
	Delete(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error)
	Count(ctx context.Context, filter store.Filter) (int64, error)
}

// DocumentSwiftRepository builds SWIFT code views from a document collection.
type DocumentSwiftRepository struct {
	coll   store.Collection
	logger *zap.Logger
}

// NewSwiftRepository creates a repository over the given collection.
func NewSwiftRepository(coll store.Collection, logger *zap.Logger) *DocumentSwiftRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentSwiftRepository{coll: coll, logger: logger.Named("repository")}
}

// Create stores a new code unless one with the same swiftCode exists. The
// existence check and the insert are not atomic.
func (r *DocumentSwiftRepository) Create(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error) {
	detailed, err := validators.NewDetailed(code)
	if err != nil {
		return store.InsertReceipt{}, err
	}

	existing, err := r.GetByQuery(ctx, store.Filter{store.FieldSwiftCode: detailed.SwiftCode})
	if err != nil {
		return store.InsertReceipt{}, err
	}
	if existing != nil {
		r.logger.Debug("swift code already exists", zap.String("swift_code", detailed.SwiftCode))
		return store.InsertReceipt{}, ErrDuplicate
	}

	bank := detailed.ToBank()
	return r.coll.InsertOne(ctx, &bank)
}

// GetByQuery returns the first code matching filter, or nil when none does.
func (r *DocumentSwiftRepository) GetByQuery(ctx context.Context, filter store.Filter) (*models.SwiftCodeDetailed, error) {
	bank, err := r.coll.FindOne(ctx, filter)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	detailed := bank.Detailed()
	return &detailed, nil
}

// GetWithHierarchy returns a HeadquarterGroup for headquarter codes, a
// SwiftCodeDetailed for branches, or nil when the code is not stored.
// Malformed codes are rejected before the store is queried.
func (r *DocumentSwiftRepository) GetWithHierarchy(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
	normalized, err := validators.NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	bank, err := r.coll.FindOne(ctx, store.Filter{store.FieldSwiftCode: normalized})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !bank.IsHeadquarter {
		detailed, err := validators.NewDetailed(bank.Detailed())
		if err != nil {
			return nil, err
		}
		return detailed, nil
	}

	hq := models.SwiftCodeSummary{SwiftCode: bank.SwiftCode}
	branches, err := r.scan(ctx, store.Filter{
		store.FieldSwiftCodePrefix8: hq.Prefix8(),
		store.FieldIsHeadquarter:    false,
	})
	if err != nil {
		return nil, err
	}

	group, err := validators.NewHeadquarterGroup(bank.Detailed(), branches)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// GetByCountry groups every code registered for a country, or returns nil
// when there are none. The group's country name is taken from the first
// document the store returns. A value that is not a two-letter code cannot
// match any document and also yields nil.
func (r *DocumentSwiftRepository) GetByCountry(ctx context.Context, countryISO2 string) (*models.CountryGroup, error) {
	iso2, err := validators.NormalizeCountryISO2(countryISO2)
	if err != nil {
		r.logger.Debug("malformed country code", zap.String("country_iso2", countryISO2), zap.Error(err))
		return nil, nil
	}

	cur, err := r.coll.Find(ctx, store.Filter{store.FieldCountryISO2: iso2})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var (
		countryName string
		members     []models.SwiftCodeSummary
	)
	for cur.Next(ctx) {
		var bank models.SwiftBank
		if err := cur.Decode(&bank); err != nil {
			return nil, err
		}
		if members == nil {
			countryName = bank.CountryName
		}
		members = append(members, bank.Summary())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if len(members) == 0 {
		r.logger.Info("no swift codes found for country", zap.String("country_iso2", iso2))
		return nil, nil
	}

	return validators.NewCountryGroup(iso2, countryName, members)
}

// Update applies patch to the first code matching filter. The patch is not
// re-validated. Store errors are returned as is.
func (r *DocumentSwiftRepository) Update(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
	return r.coll.UpdateOne(ctx, filter, patch)
}

// Replace overwrites the whole document addressed by the store identity id.
// It returns ErrDuplicate when the new swiftCode belongs to another document.
// As with Create, the check and the write are not atomic.
func (r *DocumentSwiftRepository) Replace(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error) {
	detailed, err := validators.NewDetailed(code)
	if err != nil {
		return store.UpdateReceipt{}, err
	}

	filter, err := r.coll.IdentityFilter(id)
	if err != nil {
		return store.UpdateReceipt{}, err
	}

	holder, err := r.coll.FindOne(ctx, store.Filter{store.FieldSwiftCode: detailed.SwiftCode})
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return store.UpdateReceipt{}, err
	default:
		holderFilter, err := r.coll.IdentityFilter(holder.ID)
		if err != nil {
			return store.UpdateReceipt{}, err
		}
		if holderFilter[store.FieldID] != filter[store.FieldID] {
			r.logger.Debug("swift code held by another document",
				zap.String("swift_code", detailed.SwiftCode), zap.String("id", id))
			return store.UpdateReceipt{}, ErrDuplicate
		}
	}

	bank := detailed.ToBank()
	return r.coll.ReplaceOne(ctx, filter, &bank)
}

// Delete removes the first code matching filter. A zero DeletedCount means
// nothing matched.
func (r *DocumentSwiftRepository) Delete(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error) {
	return r.coll.DeleteOne(ctx, filter)
}

// Count returns how many codes match filter.
func (r *DocumentSwiftRepository) Count(ctx context.Context, filter store.Filter) (int64, error) {
	return r.coll.CountDocuments(ctx, filter)
}

// scan drains a cursor into summaries.
func (r *DocumentSwiftRepository) scan(ctx context.Context, filter store.Filter) ([]models.SwiftCodeSummary, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	banks, err := store.All(ctx, cur)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.SwiftCodeSummary, 0, len(banks))
	for _, bank := range banks {
		summaries = append(summaries, bank.Summary())
	}
	return summaries, nil
}
