// internal/repository/mongodb/reference_repo.go
package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventora-service/internal/domain/event"
)

// CategoryRepository reads event categories for reference expansion.
type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(CollCategories)}
}

func (r *CategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]event.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var cats []event.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, mapError(err)
	}
	return cats, nil
}

// LocationRepository reads venue documents for reference expansion.
type LocationRepository struct {
	col *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{col: db.Collection(CollLocations)}
}

func (r *LocationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]event.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var locs []event.Location
	if err := cur.All(ctx, &locs); err != nil {
		return nil, mapError(err)
	}
	return locs, nil
}
