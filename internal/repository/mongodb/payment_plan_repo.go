// internal/repository/mongodb/payment_plan_repo.go
package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventora-service/internal/domain/plan"
)

// PaymentPlanRepository reads one-off payment tiers for events.
type PaymentPlanRepository struct {
	col *mongo.Collection
}

func NewPaymentPlanRepository(db *mongo.Database) *PaymentPlanRepository {
	return &PaymentPlanRepository{col: db.Collection(CollPayments)}
}

func (r *PaymentPlanRepository) FindAll(ctx context.Context) ([]plan.PaymentPlan, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	plans := []plan.PaymentPlan{}
	if err := cur.All(ctx, &plans); err != nil {
		return nil, mapError(err)
	}
	return plans, nil
}

func (r *PaymentPlanRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]plan.PaymentPlan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mapError(err)
	}
	defer cur.Close(ctx)

	var plans []plan.PaymentPlan
	if err := cur.All(ctx, &plans); err != nil {
		return nil, mapError(err)
	}
	return plans, nil
}

// FindByName looks a payment tier up by name.
func (r *PaymentPlanRepository) FindByName(ctx context.Context, name string) (*plan.PaymentPlan, error) {
	var p plan.PaymentPlan
	if err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}
