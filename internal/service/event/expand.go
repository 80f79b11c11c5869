// internal/service/event/expand.go
package event

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventora-service/internal/domain/event"
	"eventora-service/internal/domain/plan"
)

// expand resolves the reference fields of a result set in batches, one
// query per referenced collection. With full=false only categories and
// locations are expanded, the shape used for per-user listings.
func (s *EventService) expand(ctx context.Context, events []event.Event, full bool) ([]event.EventResponse, error) {
	catSet := map[primitive.ObjectID]struct{}{}
	locSet := map[primitive.ObjectID]struct{}{}
	ownerSet := map[primitive.ObjectID]struct{}{}
	paySet := map[primitive.ObjectID]struct{}{}
	subSet := map[primitive.ObjectID]struct{}{}

	for i := range events {
		e := &events[i]
		for _, c := range e.Categories {
			catSet[c] = struct{}{}
		}
		if e.Location != nil {
			locSet[*e.Location] = struct{}{}
		}
		if full {
			ownerSet[e.UserID] = struct{}{}
			if e.Payment != nil {
				paySet[*e.Payment] = struct{}{}
			}
			if e.Subscription != nil {
				subSet[*e.Subscription] = struct{}{}
			}
		}
	}

	cats, err := s.categoryRepo.FindByIDs(ctx, keys(catSet))
	if err != nil {
		return nil, err
	}
	locs, err := s.locationRepo.FindByIDs(ctx, keys(locSet))
	if err != nil {
		return nil, err
	}

	catByID := map[primitive.ObjectID]event.Category{}
	for _, c := range cats {
		catByID[c.ID] = c
	}
	locByID := map[primitive.ObjectID]event.Location{}
	for _, l := range locs {
		locByID[l.ID] = l
	}

	ownerByID := map[primitive.ObjectID]event.OwnerSummary{}
	payByID := map[primitive.ObjectID]plan.PaymentPlan{}
	subByID := map[primitive.ObjectID]plan.Plan{}
	if full {
		ownerIDs := keys(ownerSet)

		users, err := s.userRepo.FindByIDs(ctx, ownerIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			ownerByID[u.ID] = event.OwnerSummary{
				ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role,
			}
		}

		// Owners may live in the companies collection instead.
		companies, err := s.companyRepo.FindByIDs(ctx, ownerIDs)
		if err != nil {
			return nil, err
		}
		for _, c := range companies {
			ownerByID[c.ID] = event.OwnerSummary{
				ID: c.ID, Name: c.Name, Email: c.Email, Role: c.Role,
				CompanyName: c.CompanyName,
			}
		}

		pays, err := s.paymentRepo.FindByIDs(ctx, keys(paySet))
		if err != nil {
			return nil, err
		}
		for _, p := range pays {
			payByID[p.ID] = p
		}

		subs, err := s.planRepo.FindByIDs(ctx, keys(subSet))
		if err != nil {
			return nil, err
		}
		for _, p := range subs {
			subByID[p.ID] = p
		}
	}

	out := make([]event.EventResponse, 0, len(events))
	for i := range events {
		e := &events[i]
		resp := event.EventResponse{
			ID:            e.ID,
			Name:          e.Name,
			Description:   e.Description,
			EventType:     e.EventType,
			Status:        e.Status,
			EventLocation: e.EventLocation,
			Categories:    []event.Category{},
			StartDate:     e.StartDate,
			EndDate:       e.EndDate,
			CreatedAt:     e.CreatedAt,
			UpdatedAt:     e.UpdatedAt,
		}

		for _, cid := range e.Categories {
			if c, ok := catByID[cid]; ok {
				resp.Categories = append(resp.Categories, c)
			}
		}
		if e.Location != nil {
			if l, ok := locByID[*e.Location]; ok {
				resp.Location = &l
			}
		}
		if full {
			if o, ok := ownerByID[e.UserID]; ok {
				resp.User = &o
			}
			if e.Payment != nil {
				if p, ok := payByID[*e.Payment]; ok {
					resp.Payment = &p
				}
			}
			if e.Subscription != nil {
				if p, ok := subByID[*e.Subscription]; ok {
					resp.Subscription = &p
				}
			}
		}
		if e.Dist != nil {
			d := e.Dist.Calculated
			resp.Distance = &d
		}

		out = append(out, resp)
	}
	return out, nil
}

func keys(set map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
