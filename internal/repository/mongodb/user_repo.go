// internal/repository/mongodb/user_repo.go
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventora-service/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(CollUsers)}
}

// Create inserts a new user and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return mapError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	var u user.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	users := []user.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var users []user.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// Update applies the given field set and returns the updated document.
func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*user.User, error) {
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u user.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&u)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// Delete removes the user and returns the removed document.
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	var u user.User
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}
