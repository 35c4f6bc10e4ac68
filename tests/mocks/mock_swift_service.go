package mocks

import (
	"context"

	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

// MockSwiftService implements service.SwiftService.
type MockSwiftService struct {
	GetSwiftCodeDetailsFunc    func(ctx context.Context, code string) (models.SwiftCodeDetails, error)
	GetSwiftCodesByCountryFunc func(ctx context.Context, countryCode string) (*models.CountryGroup, error)
	CreateSwiftCodeFunc        func(ctx context.Context, code models.SwiftCodeDetailed) (string, error)
	UpdateSwiftCodeFunc        func(ctx context.Context, code string, patch store.Patch) (*models.SwiftCodeDetailed, error)
	ReplaceSwiftCodeFunc       func(ctx context.Context, id string, code models.SwiftCodeDetailed) error
	DeleteSwiftCodeFunc        func(ctx context.Context, code string) error
}

func (m *MockSwiftService) GetSwiftCodeDetails(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
	return m.GetSwiftCodeDetailsFunc(ctx, code)
}

func (m *MockSwiftService) GetSwiftCodesByCountry(ctx context.Context, countryCode string) (*models.CountryGroup, error) {
	return m.GetSwiftCodesByCountryFunc(ctx, countryCode)
}

func (m *MockSwiftService) CreateSwiftCode(ctx context.Context, code models.SwiftCodeDetailed) (string, error) {
	return m.CreateSwiftCodeFunc(ctx, code)
}

func (m *MockSwiftService) UpdateSwiftCode(ctx context.Context, code string, patch store.Patch) (*models.SwiftCodeDetailed, error) {
	return m.UpdateSwiftCodeFunc(ctx, code, patch)
}

func (m *MockSwiftService) ReplaceSwiftCode(ctx context.Context, id string, code models.SwiftCodeDetailed) error {
	return m.ReplaceSwiftCodeFunc(ctx, id, code)
}

func (m *MockSwiftService) DeleteSwiftCode(ctx context.Context, code string) error {
	return m.DeleteSwiftCodeFunc(ctx, code)
}
