package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/minishop-api/internal/model"
)

// ItemRepository defines the interface for item-related database operations.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *model.Item) (*model.Item, error)
	GetItemByName(ctx context.Context, name string) (*model.Item, error)
	ListItems(ctx context.Context) ([]*model.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID string) ([]*model.Item, error)
	DeleteItem(ctx context.Context, id string) (*model.Item, error)
}

const itemCollection = "items"

type itemMongoRepository struct {
	db *mongo.Database
}

// NewItemMongoRepository creates a new MongoDB repository for items.
func NewItemMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ItemRepository {
	collection := db.Collection(itemCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create item indexes")
	}

	return &itemMongoRepository{db: db}
}

func (r *itemMongoRepository) CreateItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := r.db.Collection(itemCollection).InsertOne(ctx, item)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		item.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return item, nil
}

func (r *itemMongoRepository) GetItemByName(ctx context.Context, name string) (*model.Item, error) {
	result := r.db.Collection(itemCollection).FindOne(ctx, bson.M{"name": name})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var item model.Item
	if err := result.Decode(&item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *itemMongoRepository) ListItems(ctx context.Context) ([]*model.Item, error) {
	return r.findItems(ctx, bson.M{})
}

func (r *itemMongoRepository) ListItemsByCategory(ctx context.Context, categoryID string) ([]*model.Item, error) {
	return r.findItems(ctx, bson.M{"category_id": categoryID})
}

func (r *itemMongoRepository) findItems(ctx context.Context, filter bson.M) ([]*model.Item, error) {
	cursor, err := r.db.Collection(itemCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.Item
	for cursor.Next(ctx) {
		var item model.Item
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *itemMongoRepository) DeleteItem(ctx context.Context, id string) (*model.Item, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(itemCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var item model.Item
	if err := result.Decode(&item); err != nil {
		return nil, err
	}

	return &item, nil
}
