// internal/repository/mongodb/company_repo.go
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventora-service/internal/domain/company"
)

type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection(CollCompanies)}
}

// Create inserts a new company and fills in its generated id.
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return mapError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*company.Company, error) {
	var c company.Company
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CompanyRepository) FindByCompanyEmail(ctx context.Context, email string) (*company.Company, error) {
	var c company.Company
	if err := r.col.FindOne(ctx, bson.M{"companyEmail": email}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (*company.Company, error) {
	var c company.Company
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *CompanyRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]company.Company, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var companies []company.Company
	if err := cur.All(ctx, &companies); err != nil {
		return nil, mapError(err)
	}
	return companies, nil
}

// FindExpiring returns companies whose local period end is at or before the
// cutoff and whose subscription is still active or canceling.
func (r *CompanyRepository) FindExpiring(ctx context.Context, cutoff time.Time) ([]company.Company, error) {
	filter := bson.M{
		"activeSubscription.currentPeriodEnd": bson.M{"$lte": cutoff},
		"activeSubscription.status": bson.M{
			"$in": []company.SubscriptionStatus{company.StatusActive, company.StatusCanceling},
		},
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var companies []company.Company
	if err := cur.All(ctx, &companies); err != nil {
		return nil, mapError(err)
	}
	return companies, nil
}

// Save replaces the stored document with the given one.
func (r *CompanyRepository) Save(ctx context.Context, c *company.Company) error {
	c.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	return mapError(err)
}

// Update applies the given field set and returns the updated document.
func (r *CompanyRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*company.Company, error) {
	fields["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c company.Company
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&c)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Delete removes the company and returns the removed document.
func (r *CompanyRepository) Delete(ctx context.Context, id primitive.ObjectID) (*company.Company, error) {
	var c company.Company
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}
