// internal/repository/mongodb/plan_repo.go
package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventora-service/internal/domain/plan"
)

// PlanRepository reads subscription plan tiers.
type PlanRepository struct {
	col *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{col: db.Collection(CollPlans)}
}

func (r *PlanRepository) FindAll(ctx context.Context) ([]plan.Plan, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	plans := []plan.Plan{}
	if err := cur.All(ctx, &plans); err != nil {
		return nil, mapError(err)
	}
	return plans, nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*plan.Plan, error) {
	var p plan.Plan
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *PlanRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]plan.Plan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var plans []plan.Plan
	if err := cur.All(ctx, &plans); err != nil {
		return nil, mapError(err)
	}
	return plans, nil
}

// FindByName looks a plan up by its tier name.
func (r *PlanRepository) FindByName(ctx context.Context, name string) (*plan.Plan, error) {
	var p plan.Plan
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}
