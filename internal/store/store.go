// Package store defines the minimal document-store contract the SWIFT code
// repository is built on. Backends live in the sub-packages.
package store

import (
	"context"
	"errors"

	"github.com/zdziszkee/swiftatlas/internal/models"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnknownField = errors.New("unknown document field")
	ErrInvalidID    = errors.New("invalid document id")
)

// Document field names shared by every backend.
const (
	FieldID               = "_id"
	FieldSwiftCode        = "swiftCode"
	FieldSwiftCodePrefix8 = "swiftCodePrefix8"
	FieldCountryISO2      = "countryISO2"
	FieldBankName         = "bankName"
	FieldIsHeadquarter    = "isHeadquarter"
	FieldAddress          = "address"
	FieldCountryName      = "countryName"
)

// Filter is an exact-match query: every field must equal its value. An empty
// filter matches all documents.
type Filter map[string]any

// Patch holds the fields an update sets.
type Patch map[string]any

type InsertReceipt struct {
	InsertedID string
}

type UpdateReceipt struct {
	MatchedCount  int64
	ModifiedCount int64
}

type DeleteReceipt struct {
	DeletedCount int64
}

// Cursor iterates documents sequentially.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(bank *models.SwiftBank) error
	Err() error
	Close(ctx context.Context) error
}

// Collection is a single collection of SWIFT code documents.
type Collection interface {
	// FindOne returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, filter Filter) (*models.SwiftBank, error)
	InsertOne(ctx context.Context, bank *models.SwiftBank) (InsertReceipt, error)
	Find(ctx context.Context, filter Filter) (Cursor, error)
	UpdateOne(ctx context.Context, filter Filter, patch Patch) (UpdateReceipt, error)
	ReplaceOne(ctx context.Context, filter Filter, bank *models.SwiftBank) (UpdateReceipt, error)
	DeleteOne(ctx context.Context, filter Filter) (DeleteReceipt, error)
	CountDocuments(ctx context.Context, filter Filter) (int64, error)
	// IdentityFilter resolves an external identifier string into a filter on
	// the backend's native document identity.
	IdentityFilter(id string) (Filter, error)
}

// KnownFields lists every addressable document field.
var KnownFields = []string{
	FieldID,
	FieldSwiftCode,
	FieldSwiftCodePrefix8,
	FieldCountryISO2,
	FieldBankName,
	FieldIsHeadquarter,
	FieldAddress,
	FieldCountryName,
}

// IsKnownField reports whether name is an addressable document field.
func IsKnownField(name string) bool {
	for _, f := range KnownFields {
		if f == name {
			return true
		}
	}
	return false
}

// All drains a cursor into a slice and closes it.
func All(ctx context.Context, cur Cursor) ([]models.SwiftBank, error) {
	defer cur.Close(ctx)

	var banks []models.SwiftBank
	for cur.Next(ctx) {
		var bank models.SwiftBank
		if err := cur.Decode(&bank); err != nil {
			return nil, err
		}
		banks = append(banks, bank)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return banks, nil
}
