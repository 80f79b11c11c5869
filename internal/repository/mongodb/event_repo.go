// internal/repository/mongodb/event_repo.go
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventora-service/internal/domain/event"
)

type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(CollEvents)}
}

// Create inserts a new event and fills in its generated id.
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		return mapError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = id
	}
	return nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]event.Event, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	events := []event.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*event.Event, error) {
	var e event.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

func (r *EventRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]event.Event, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	events := []event.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

// GeoNear runs a $geoNear aggregation around the given point. Results carry
// the computed distance in dist.calculated and come back ordered by
// ascending distance. The optional match filter is applied after the geo
// stage, before expansion.
func (r *EventRepository) GeoNear(ctx context.Context, lng, lat, maxDistance float64, match bson.M) ([]event.Event, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: bson.A{lng, lat}},
			}},
			{Key: "key", Value: "eventLocation"},
			{Key: "distanceField", Value: "dist.calculated"},
			{Key: "maxDistance", Value: maxDistance},
			{Key: "spherical", Value: true},
		}}},
	}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	events := []event.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

// Update applies the given field set and returns the updated document.
func (r *EventRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*event.Event, error) {
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e event.Event
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&e)
	if err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

// Save replaces the stored document with the given one.
func (r *EventRepository) Save(ctx context.Context, e *event.Event) error {
	e.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	return mapError(err)
}

// Delete removes the event and returns the removed document.
func (r *EventRepository) Delete(ctx context.Context, id primitive.ObjectID) (*event.Event, error) {
	var e event.Event
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}
