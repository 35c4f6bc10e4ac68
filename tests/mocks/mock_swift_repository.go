package mocks

import (
	"context"

	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

// MockSwiftRepository implements repository.SwiftRepository.
type MockSwiftRepository struct {
	CreateFunc           func(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error)
	GetByQueryFunc       func(ctx context.Context, filter store.Filter) (*models.SwiftCodeDetailed, error)
	GetWithHierarchyFunc func(ctx context.Context, code string) (models.SwiftCodeDetails, error)
	GetByCountryFunc     func(ctx context.Context, countryISO2 string) (*models.CountryGroup, error)
	UpdateFunc           func(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error)
	ReplaceFunc          func(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error)
	DeleteFunc           func(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error)
	CountFunc            func(ctx context.Context, filter store.Filter) (int64, error)
}

func (m *MockSwiftRepository) Create(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error) {
	return m.CreateFunc(ctx, code)
}

func (m *MockSwiftRepository) GetByQuery(ctx context.Context, filter store.Filter) (*models.SwiftCodeDetailed, error) {
	return m.GetByQueryFunc(ctx, filter)
}

func (m *MockSwiftRepository) GetWithHierarchy(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
	return m.GetWithHierarchyFunc(ctx, code)
}

func (m *MockSwiftRepository) GetByCountry(ctx context.Context, countryISO2 string) (*models.CountryGroup, error) {
	return m.GetByCountryFunc(ctx, countryISO2)
}

func (m *MockSwiftRepository) Update(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
	return m.UpdateFunc(ctx, filter, patch)
}

func (m *MockSwiftRepository) Replace(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error) {
	return m.ReplaceFunc(ctx, id, code)
}

func (m *MockSwiftRepository) Delete(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error) {
	return m.DeleteFunc(ctx, filter)
}

func (m *MockSwiftRepository) Count(ctx context.Context, filter store.Filter) (int64, error) {
	return m.CountFunc(ctx, filter)
}
