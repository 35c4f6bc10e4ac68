package mocks

import (
	"context"

	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

// MockCollection implements store.Collection. Calls are forwarded to the
// matching func field when set, otherwise to Delegate. Every call is counted.
type MockCollection struct {
	Delegate store.Collection

	FindOneFunc        func(ctx context.Context, filter store.Filter) (*models.SwiftBank, error)
	InsertOneFunc      func(ctx context.Context, bank *models.SwiftBank) (store.InsertReceipt, error)
	FindFunc           func(ctx context.Context, filter store.Filter) (store.Cursor, error)
	UpdateOneFunc      func(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error)
	ReplaceOneFunc     func(ctx context.Context, filter store.Filter, bank *models.SwiftBank) (store.UpdateReceipt, error)
	DeleteOneFunc      func(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error)
	CountDocumentsFunc func(ctx context.Context, filter store.Filter) (int64, error)

	Calls map[string]int
}

func (m *MockCollection) record(name string) {
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[name]++
}

func (m *MockCollection) FindOne(ctx context.Context, filter store.Filter) (*models.SwiftBank, error) {
	m.record("FindOne")
	if m.FindOneFunc != nil {
		return m.FindOneFunc(ctx, filter)
	}
	return m.Delegate.FindOne(ctx, filter)
}

func (m *MockCollection) InsertOne(ctx context.Context, bank *models.SwiftBank) (store.InsertReceipt, error) {
	m.record("InsertOne")
	if m.InsertOneFunc != nil {
		return m.InsertOneFunc(ctx, bank)
	}
	return m.Delegate.InsertOne(ctx, bank)
}

func (m *MockCollection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	m.record("Find")
	if m.FindFunc != nil {
		return m.FindFunc(ctx, filter)
	}
	return m.Delegate.Find(ctx, filter)
}

func (m *MockCollection) UpdateOne(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
	m.record("UpdateOne")
	if m.UpdateOneFunc != nil {
		return m.UpdateOneFunc(ctx, filter, patch)
	}
	return m.Delegate.UpdateOne(ctx, filter, patch)
}

func (m *MockCollection) ReplaceOne(ctx context.Context, filter store.Filter, bank *models.SwiftBank) (store.UpdateReceipt, error) {
	m.record("ReplaceOne")
	if m.ReplaceOneFunc != nil {
		return m.ReplaceOneFunc(ctx, filter, bank)
	}
	return m.Delegate.ReplaceOne(ctx, filter, bank)
}

func (m *MockCollection) DeleteOne(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error) {
	m.record("DeleteOne")
	if m.DeleteOneFunc != nil {
		return m.DeleteOneFunc(ctx, filter)
	}
	return m.Delegate.DeleteOne(ctx, filter)
}

func (m *MockCollection) CountDocuments(ctx context.Context, filter store.Filter) (int64, error) {
	m.record("CountDocuments")
	if m.CountDocumentsFunc != nil {
		return m.CountDocumentsFunc(ctx, filter)
	}
	return m.Delegate.CountDocuments(ctx, filter)
}

func (m *MockCollection) IdentityFilter(id string) (store.Filter, error) {
	return m.Delegate.IdentityFilter(id)
}
