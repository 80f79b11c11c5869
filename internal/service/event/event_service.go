// internal/service/event/event_service.go
package event

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eventora-service/internal/domain/company"
	"eventora-service/internal/domain/event"
	"eventora-service/internal/domain/plan"
	"eventora-service/internal/domain/user"
	xerrors "eventora-service/internal/pkg/errors"
)

// Proximity query radii in meters.
const (
	MaxDistanceAll    = 100000
	MaxDistanceNearby = 5000
)

type EventStore interface {
	Create(ctx context.Context, e *event.Event) error
	FindAll(ctx context.Context) ([]event.Event, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*event.Event, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]event.Event, error)
	GeoNear(ctx context.Context, lng, lat, maxDistance float64, match bson.M) ([]event.Event, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*event.Event, error)
	Save(ctx context.Context, e *event.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) (*event.Event, error)
}

type CompanyStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*company.Company, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]company.Company, error)
}

type UserStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error)
}

type PlanStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]plan.Plan, error)
	FindByName(ctx context.Context, name string) (*plan.Plan, error)
}

type PaymentPlanStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]plan.PaymentPlan, error)
	FindByName(ctx context.Context, name string) (*plan.PaymentPlan, error)
}

type CategoryStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]event.Category, error)
}

type LocationStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]event.Location, error)
}

// EventService retrieves and mutates events. Proximity queries run a
// nearest-neighbor search at the storage layer and expand references only
// on the filtered result set.
type EventService struct {
	eventRepo    EventStore
	companyRepo  CompanyStore
	userRepo     UserStore
	planRepo     PlanStore
	paymentRepo  PaymentPlanStore
	categoryRepo CategoryStore
	locationRepo LocationStore
	logger       *zap.Logger

	now func() time.Time
}

func NewEventService(
	eventRepo EventStore,
	companyRepo CompanyStore,
	userRepo UserStore,
	planRepo PlanStore,
	paymentRepo PaymentPlanStore,
	categoryRepo CategoryStore,
	locationRepo LocationStore,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		companyRepo:  companyRepo,
		userRepo:     userRepo,
		planRepo:     planRepo,
		paymentRepo:  paymentRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Create inserts a new event. The promotion flag forces the promotion type
// regardless of what the request carries.
func (s *EventService) Create(ctx context.Context, req *event.CreateEventRequest, promotion bool) (*event.Event, error) {
	e, err := s.fromCreateRequest(req)
	if err != nil {
		return nil, err
	}
	if promotion {
		e.EventType = event.TypePromotion
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetAll returns every event with references expanded.
func (s *EventService) GetAll(ctx context.Context) ([]event.EventResponse, error) {
	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, events, true)
}

// GetAllNear returns events within MaxDistanceAll meters of the point,
// distance-annotated and ordered nearest first. Expansion runs on the
// filtered set only.
func (s *EventService) GetAllNear(ctx context.Context, lat, lng float64) ([]event.EventResponse, error) {
	events, err := s.eventRepo.GeoNear(ctx, lng, lat, MaxDistanceAll, nil)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, events, true)
}

// GetByID returns a single event with references expanded.
func (s *EventService) GetByID(ctx context.Context, id string) (*event.EventResponse, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid event id")
	}

	e, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	expanded, err := s.expand(ctx, []event.Event{*e}, true)
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// GetByUserID lists a user's events with categories and location expanded.
// No events is an empty result, not an error.
func (s *EventService) GetByUserID(ctx context.Context, userID string) ([]event.EventResponse, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid user id")
	}

	events, err := s.eventRepo.FindByUserID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, events, false)
}

// SearchNearby returns published events of the given type within
// MaxDistanceNearby meters, nearest first. The type defaults to promotion.
func (s *EventService) SearchNearby(ctx context.Context, lat, lng float64, eventType event.Type) ([]event.EventResponse, error) {
	if eventType == "" {
		eventType = event.TypePromotion
	}

	match := bson.M{
		"eventType": eventType,
		"status":    event.StatusPublished,
	}
	events, err := s.eventRepo.GeoNear(ctx, lng, lat, MaxDistanceNearby, match)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, events, true)
}

// Update patches an event. Promotions get their subscription tier recomputed
// from the owning company's current billing status: an entitled company keeps
// its plan, everything else falls back to the basic tier.
func (s *EventService) Update(ctx context.Context, id string, req *event.UpdateEventRequest) (*event.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid event id")
	}

	fields := s.fromUpdateRequest(req)
	e, err := s.eventRepo.Update(ctx, oid, fields)
	if err != nil {
		return nil, err
	}

	if e.EventType == event.TypePromotion {
		c, err := s.companyRepo.FindByID(ctx, e.UserID)
		if err != nil {
			return nil, xerrors.Wrap(err, "company not found")
		}

		if c.Entitled(s.now()) {
			e.Subscription = c.ActiveSubscription.Plan
		} else {
			basic, err := s.planRepo.FindByName(ctx, plan.NameBasic)
			if err != nil {
				return nil, xerrors.Wrap(xerrors.ErrStorage, "basic subscription plan not found")
			}
			e.Subscription = &basic.ID
		}

		if err := s.eventRepo.Save(ctx, e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// UpdateByAdmin publishes an event on the optima tier: promotions get the
// optima subscription plan, events the optima plus payment plan.
func (s *EventService) UpdateByAdmin(ctx context.Context, id string) (*event.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid event id")
	}

	optima, err := s.planRepo.FindByName(ctx, plan.NameOptima)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrStorage, "optima subscription plan not found")
	}

	e, err := s.eventRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	switch e.EventType {
	case event.TypePromotion:
		e.Subscription = &optima.ID
	case event.TypeEvent:
		optimaPlus, err := s.paymentRepo.FindByName(ctx, plan.NameOptimaPlus)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrStorage, "optima plus payment plan not found")
		}
		e.Payment = &optimaPlus.ID
	}
	e.Status = event.StatusPublished

	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an event and returns the removed document.
func (s *EventService) Delete(ctx context.Context, id string) (*event.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid event id")
	}
	return s.eventRepo.Delete(ctx, oid)
}

// ---------- request mapping ----------

func (s *EventService) fromCreateRequest(req *event.CreateEventRequest) (*event.Event, error) {
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid user id")
	}

	e := &event.Event{
		Name:          req.Name,
		Description:   req.Description,
		EventType:     req.EventType,
		Status:        event.StatusDraft,
		UserID:        userID,
		EventLocation: event.NewGeoPoint(req.Longitude, req.Latitude),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	if e.EventType == "" {
		e.EventType = event.TypeEvent
	}

	if req.Location != "" {
		locID, err := primitive.ObjectIDFromHex(req.Location)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid location id")
		}
		e.Location = &locID
	}

	for _, c := range req.Categories {
		catID, err := primitive.ObjectIDFromHex(c)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid category id")
		}
		e.Categories = append(e.Categories, catID)
	}

	return e, nil
}

func (s *EventService) fromUpdateRequest(req *event.UpdateEventRequest) bson.M {
	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Latitude != nil && req.Longitude != nil {
		fields["eventLocation"] = event.NewGeoPoint(*req.Longitude, *req.Latitude)
	}
	if req.Location != nil {
		if locID, err := primitive.ObjectIDFromHex(*req.Location); err == nil {
			fields["location"] = locID
		}
	}
	if req.Categories != nil {
		var cats []primitive.ObjectID
		for _, c := range req.Categories {
			if catID, err := primitive.ObjectIDFromHex(c); err == nil {
				cats = append(cats, catID)
			}
		}
		fields["categories"] = cats
	}
	if req.StartDate != nil {
		fields["startDate"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["endDate"] = *req.EndDate
	}
	return fields
}
