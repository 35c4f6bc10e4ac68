// Package mongostore implements store.Collection on a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/zdziszkee/swiftatlas/internal/database"
	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
)

// document is the stored BSON shape; the identity is a native ObjectID.
type document struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	models.SwiftBank `bson:",inline"`
}

func (d document) bank() *models.SwiftBank {
	bank := d.SwiftBank
	bank.ID = d.ID.Hex()
	return &bank
}

// Collection wraps a *mongo.Collection.
type Collection struct {
	coll *mongo.Collection
}

func NewWithCollection(coll *mongo.Collection) *Collection {
	return &Collection{coll: coll}
}

// Connect opens a client, verifies it and ensures the lookup indexes exist.
// Schema names the database and TableName the collection.
func Connect(ctx context.Context, cfg database.Config, logger *zap.Logger) (*Collection, func(context.Context) error, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.ServerURI)
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(cfg.Schema).Collection(cfg.TableName)
	if err := ensureIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("connected to mongodb",
		zap.String("database", cfg.Schema),
		zap.String("collection", cfg.TableName))

	return NewWithCollection(coll), client.Disconnect, nil
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: store.FieldSwiftCode, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: store.FieldSwiftCodePrefix8, Value: 1}, {Key: store.FieldIsHeadquarter, Value: 1}}},
		{Keys: bson.D{{Key: store.FieldCountryISO2, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create mongodb indexes: %w", err)
	}
	return nil
}

func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (*models.SwiftBank, error) {
	q, err := toBSON(filter)
	if err != nil {
		return nil, err
	}

	var doc document
	err = c.coll.FindOne(ctx, q).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find failed: %w", err)
	}
	return doc.bank(), nil
}

func (c *Collection) InsertOne(ctx context.Context, bank *models.SwiftBank) (store.InsertReceipt, error) {
	res, err := c.coll.InsertOne(ctx, document{SwiftBank: *bank})
	if err != nil {
		return store.InsertReceipt{}, fmt.Errorf("mongodb insert failed: %w", err)
	}
	receipt := store.InsertReceipt{}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		receipt.InsertedID = oid.Hex()
	} else {
		receipt.InsertedID = fmt.Sprint(res.InsertedID)
	}
	return receipt, nil
}

func (c *Collection) Find(ctx context.Context, filter store.Filter) (store.Cursor, error) {
	q, err := toBSON(filter)
	if err != nil {
		return nil, err
	}

	cur, err := c.coll.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mongodb find failed: %w", err)
	}
	return &cursor{cur: cur}, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
	if err := store.ValidatePatch(patch); err != nil {
		return store.UpdateReceipt{}, err
	}
	q, err := toBSON(filter)
	if err != nil {
		return store.UpdateReceipt{}, err
	}

	res, err := c.coll.UpdateOne(ctx, q, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return store.UpdateReceipt{}, fmt.Errorf("mongodb update failed: %w", err)
	}
	return store.UpdateReceipt{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (c *Collection) ReplaceOne(ctx context.Context, filter store.Filter, bank *models.SwiftBank) (store.UpdateReceipt, error) {
	q, err := toBSON(filter)
	if err != nil {
		return store.UpdateReceipt{}, err
	}

	res, err := c.coll.ReplaceOne(ctx, q, document{SwiftBank: *bank})
	if err != nil {
		return store.UpdateReceipt{}, fmt.Errorf("mongodb replace failed: %w", err)
	}
	return store.UpdateReceipt{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (store.DeleteReceipt, error) {
	q, err := toBSON(filter)
	if err != nil {
		return store.DeleteReceipt{}, err
	}

	res, err := c.coll.DeleteOne(ctx, q)
	if err != nil {
		return store.DeleteReceipt{}, fmt.Errorf("mongodb delete failed: %w", err)
	}
	return store.DeleteReceipt{DeletedCount: res.DeletedCount}, nil
}

func (c *Collection) CountDocuments(ctx context.Context, filter store.Filter) (int64, error) {
	q, err := toBSON(filter)
	if err != nil {
		return 0, err
	}

	n, err := c.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("mongodb count failed: %w", err)
	}
	return n, nil
}

func (c *Collection) IdentityFilter(id string) (store.Filter, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return store.Filter{store.FieldID: oid}, nil
}

// toBSON checks field names and converts hex identities to ObjectIDs.
func toBSON(filter store.Filter) (bson.M, error) {
	q := bson.M{}
	for field, value := range filter {
		if !store.IsKnownField(field) {
			return nil, fmt.Errorf("%w: %s", store.ErrUnknownField, field)
		}
		if field == store.FieldID {
			if hex, ok := value.(string); ok {
				oid, err := primitive.ObjectIDFromHex(hex)
				if err != nil {
					return nil, fmt.Errorf("%w: %q", store.ErrInvalidID, hex)
				}
				value = oid
			}
		}
		q[field] = value
	}
	return q, nil
}

type cursor struct {
	cur *mongo.Cursor
}

func (c *cursor) Next(ctx context.Context) bool {
	return c.cur.Next(ctx)
}

func (c *cursor) Decode(bank *models.SwiftBank) error {
	var doc document
	if err := c.cur.Decode(&doc); err != nil {
		return fmt.Errorf("mongodb decode failed: %w", err)
	}
	*bank = *doc.bank()
	return nil
}

func (c *cursor) Err() error {
	return c.cur.Err()
}

func (c *cursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
