// Package memstore is an in-process Collection that keeps documents in
// insertion order. It backs local runs and repository tests.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

type Collection struct {
	mu   sync.RWMutex
	docs []models.SwiftBank
}

func New() *Collection {
	return &Collection{}
}

func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (*models.SwiftBank, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	bank := c.docs[idx]
	return &bank, nil
}

func (c *Collection) InsertOne(ctx context.Context, bank *models.SwiftBank) (store.InsertReceipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := *bank
	doc.ID = uuid.NewString()
	c.docs = append(c.docs, doc)
	return store.InsertReceipt{InsertedID: doc.ID}, nil
}

func (c *Collection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []models.SwiftBank
	for i := range c.docs {
		ok, err := store.Matches(&c.docs[i], filter)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, c.docs[i])
		}
	}
	return &cursor{docs: matched, pos: -1}, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
	if err := store.ValidatePatch(patch); err != nil {
		return store.UpdateReceipt{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil || idx < 0 {
		return store.UpdateReceipt{}, err
	}

	updated := c.docs[idx]
	for field, value := range patch {
		if err := store.SetField(&updated, field, value); err != nil {
			return store.UpdateReceipt{}, err
		}
	}

	receipt := store.UpdateReceipt{MatchedCount: 1}
	if updated != c.docs[idx] {
		c.docs[idx] = updated
		receipt.ModifiedCount = 1
	}
	return receipt, nil
}

func (c *Collection) ReplaceOne(ctx context.Context, filter store.Filter, bank *models.SwiftBank) (store.UpdateReceipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil || idx < 0 {
		return store.UpdateReceipt{}, err
	}

	replacement := *bank
	replacement.ID = c.docs[idx].ID

	receipt := store.UpdateReceipt{MatchedCount: 1}
	if replacement != c.docs[idx] {
		c.docs[idx] = replacement
		receipt.ModifiedCount = 1
	}
	return receipt, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil || idx < 0 {
		return store.DeleteReceipt{}, err
	}
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)
	return store.DeleteReceipt{DeletedCount: 1}, nil
}

func (c *Collection) CountDocuments(ctx context.Context, filter store.Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for i := range c.docs {
		ok, err := store.Matches(&c.docs[i], filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (c *Collection) IdentityFilter(id string) (store.Filter, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return store.Filter{store.FieldID: parsed.String()}, nil
}

// indexOf returns the first matching document index or -1. Callers hold the lock.
func (c *Collection) indexOf(filter store.Filter) (int, error) {
	for i := range c.docs {
		ok, err := store.Matches(&c.docs[i], filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

type cursor struct {
	docs []models.SwiftBank
	pos  int
	err  error
}

func (c *cursor) Next(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	c.pos++
	return c.pos < len(c.docs)
}

func (c *cursor) Decode(bank *models.SwiftBank) error {
	if c.pos < 0 || c.pos >= len(c.docs) {
		return fmt.Errorf("memstore: decode called without a current document")
	}
	*bank = c.docs[c.pos]
	return nil
}

func (c *cursor) Err() error {
	return c.err
}

func (c *cursor) Close(ctx context.Context) error {
	c.docs = nil
	return nil
}
