// internal/service/subscription/subscription_service_test.go
package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eventora-service/internal/billing"
	"eventora-service/internal/domain/company"
	"eventora-service/internal/domain/plan"
	"eventora-service/internal/domain/subscription"
	"eventora-service/internal/domain/user"
	xerrors "eventora-service/internal/pkg/errors"
)

// ----- fakes -----

type fakeCompanyStore struct {
	companies  map[primitive.ObjectID]*company.Company
	saveErrOn  map[primitive.ObjectID]error
	saved      []primitive.ObjectID
	lastCutoff *time.Time
}

func newFakeCompanyStore(companies ...*company.Company) *fakeCompanyStore {
	s := &fakeCompanyStore{
		companies: make(map[primitive.ObjectID]*company.Company),
		saveErrOn: make(map[primitive.ObjectID]error),
	}
	for _, c := range companies {
		s.companies[c.ID] = c
	}
	return s
}

func (s *fakeCompanyStore) FindByID(_ context.Context, id primitive.ObjectID) (*company.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCompanyStore) Save(_ context.Context, c *company.Company) error {
	if err, ok := s.saveErrOn[c.ID]; ok {
		return err
	}
	cp := *c
	s.companies[c.ID] = &cp
	s.saved = append(s.saved, c.ID)
	return nil
}

// FindExpiring mirrors the storage-side query: currentPeriodEnd <= cutoff
// and a status of active or canceling.
func (s *fakeCompanyStore) FindExpiring(_ context.Context, cutoff time.Time) ([]company.Company, error) {
	s.lastCutoff = &cutoff
	var out []company.Company
	for _, c := range s.companies {
		sub := c.ActiveSubscription
		if sub.Status != company.StatusActive && sub.Status != company.StatusCanceling {
			continue
		}
		if sub.CurrentPeriodEnd.After(cutoff) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

type fakePlanStore struct {
	plans map[primitive.ObjectID]*plan.Plan
}

func newFakePlanStore(plans ...*plan.Plan) *fakePlanStore {
	s := &fakePlanStore{plans: make(map[primitive.ObjectID]*plan.Plan)}
	for _, p := range plans {
		s.plans[p.ID] = p
	}
	return s
}

func (s *fakePlanStore) FindAll(_ context.Context) ([]plan.Plan, error) {
	var out []plan.Plan
	for _, p := range s.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakePlanStore) FindByID(_ context.Context, id primitive.ObjectID) (*plan.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func newTestService(companies *fakeCompanyStore, plans *fakePlanStore, provider billing.Provider, now time.Time) *SubscriptionService {
	svc := NewSubscriptionService(companies, plans, provider, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func testCompany() *company.Company {
	return &company.Company{
		ID:           primitive.NewObjectID(),
		Name:         "Acme Events",
		Email:        "owner@acme.test",
		Role:         user.RoleCompany,
		CompanyName:  "Acme",
		CompanyEmail: "billing@acme.test",
	}
}

func testPlan(name string) *plan.Plan {
	return &plan.Plan{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Price:         29.99,
		Currency:      "eur",
		StripePriceID: "price_" + name,
	}
}

// ----- tests -----

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates customer and checkout session", func(t *testing.T) {
		c := testCompany()
		p := testPlan(plan.NameOptima)
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		svc := newTestService(companies, newFakePlanStore(p), provider, now)

		resp, err := svc.Create(ctx, &subscription.CreateSubscriptionRequest{
			UserID: c.ID.Hex(),
			Email:  c.Email,
			PlanID: p.ID.Hex(),
		})
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.NotEmpty(t, resp.SessionID)
		assert.NotEmpty(t, resp.URL)

		stored := companies.companies[c.ID]
		assert.NotEmpty(t, stored.Stripe.CustomerID, "customer id should be recorded")
		assert.NotEmpty(t, stored.Stripe.SubscriptionID, "subscription id should be recorded")
	})

	t.Run("reuses an existing customer", func(t *testing.T) {
		c := testCompany()
		c.Stripe.CustomerID = "cus_existing"
		p := testPlan(plan.NameOptima)
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		svc := newTestService(companies, newFakePlanStore(p), provider, now)

		_, err := svc.Create(ctx, &subscription.CreateSubscriptionRequest{
			UserID: c.ID.Hex(),
			Email:  c.Email,
			PlanID: p.ID.Hex(),
		})
		require.NoError(t, err)
		assert.Empty(t, provider.Customers, "no new customer should be created")
		assert.Equal(t, "cus_existing", companies.companies[c.ID].Stripe.CustomerID)
	})

	t.Run("unknown company", func(t *testing.T) {
		p := testPlan(plan.NameOptima)
		svc := newTestService(newFakeCompanyStore(), newFakePlanStore(p), billing.NewMockProvider(), now)

		_, err := svc.Create(ctx, &subscription.CreateSubscriptionRequest{
			UserID: primitive.NewObjectID().Hex(),
			Email:  "nobody@acme.test",
			PlanID: p.ID.Hex(),
		})
		assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
	})

	t.Run("invalid company id", func(t *testing.T) {
		svc := newTestService(newFakeCompanyStore(), newFakePlanStore(), billing.NewMockProvider(), now)

		_, err := svc.Create(ctx, &subscription.CreateSubscriptionRequest{
			UserID: "not-an-object-id",
			PlanID: primitive.NewObjectID().Hex(),
		})
		assert.True(t, xerrors.Is(err, xerrors.ErrValidation))
	})

	t.Run("provider failure surfaces as provider error", func(t *testing.T) {
		c := testCompany()
		p := testPlan(plan.NameOptima)
		provider := billing.NewMockProvider()
		provider.CheckoutSessionErr = errors.New("stripe down")
		svc := newTestService(newFakeCompanyStore(c), newFakePlanStore(p), provider, now)

		_, err := svc.Create(ctx, &subscription.CreateSubscriptionRequest{
			UserID: c.ID.Hex(),
			Email:  c.Email,
			PlanID: p.ID.Hex(),
		})
		assert.True(t, xerrors.Is(err, xerrors.ErrProvider))
	})
}

func TestCancelSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	periodEnd := now.AddDate(0, 1, 0)

	t.Run("marks the snapshot canceling", func(t *testing.T) {
		c := testCompany()
		c.Stripe.CustomerID = "cus_1"
		c.Stripe.SubscriptionID = "sub_1"
		c.ActiveSubscription.Status = company.StatusActive
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		provider.PeriodEnd = periodEnd
		provider.Seed("cus_1", "sub_1", "si_1")
		svc := newTestService(companies, newFakePlanStore(), provider, now)

		resp, err := svc.Cancel(ctx, c.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, periodEnd, resp.CancelDate)

		stored := companies.companies[c.ID]
		assert.Equal(t, company.StatusCanceling, stored.ActiveSubscription.Status)
		assert.True(t, stored.ActiveSubscription.CancelAtPeriodEnd)
		require.NotNil(t, stored.ActiveSubscription.CanceledAt)
		assert.Equal(t, now, *stored.ActiveSubscription.CanceledAt)
	})

	t.Run("no subscription on file", func(t *testing.T) {
		c := testCompany()
		svc := newTestService(newFakeCompanyStore(c), newFakePlanStore(), billing.NewMockProvider(), now)

		_, err := svc.Cancel(ctx, c.ID.Hex())
		assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
	})

	t.Run("provider failure leaves the snapshot untouched", func(t *testing.T) {
		c := testCompany()
		c.Stripe.SubscriptionID = "sub_1"
		c.ActiveSubscription.Status = company.StatusActive
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		provider.CancelErr = errors.New("stripe down")
		svc := newTestService(companies, newFakePlanStore(), provider, now)

		_, err := svc.Cancel(ctx, c.ID.Hex())
		assert.True(t, xerrors.Is(err, xerrors.ErrProvider))
		assert.Equal(t, company.StatusActive, companies.companies[c.ID].ActiveSubscription.Status)
	})
}

func TestReactivateSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("is the inverse of cancel", func(t *testing.T) {
		c := testCompany()
		c.Stripe.CustomerID = "cus_1"
		c.Stripe.SubscriptionID = "sub_1"
		c.ActiveSubscription.Status = company.StatusActive
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		provider.Seed("cus_1", "sub_1", "si_1")
		svc := newTestService(companies, newFakePlanStore(), provider, now)

		_, err := svc.Cancel(ctx, c.ID.Hex())
		require.NoError(t, err)

		reactivated, err := svc.Reactivate(ctx, c.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, company.StatusActive, reactivated.ActiveSubscription.Status)
		assert.False(t, reactivated.ActiveSubscription.CancelAtPeriodEnd)
		assert.Nil(t, reactivated.ActiveSubscription.CanceledAt)

		stored := companies.companies[c.ID]
		assert.Equal(t, company.StatusActive, stored.ActiveSubscription.Status)
	})

	t.Run("no subscription on file", func(t *testing.T) {
		c := testCompany()
		svc := newTestService(newFakeCompanyStore(c), newFakePlanStore(), billing.NewMockProvider(), now)

		_, err := svc.Reactivate(ctx, c.ID.Hex())
		assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
	})
}

func TestUpgradeSubscription(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no active subscription yields a payment link and no local change", func(t *testing.T) {
		c := testCompany()
		p := testPlan(plan.NameOptimaPlus)
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		svc := newTestService(companies, newFakePlanStore(p), provider, now)

		resp, err := svc.Upgrade(ctx, c.ID.Hex(), &subscription.UpgradeSubscriptionRequest{NewPlanID: p.ID.Hex()})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.PaymentLink)
		assert.Nil(t, resp.Company)
		assert.Equal(t, []string{p.StripePriceID}, provider.PaymentLinks)
		assert.Empty(t, companies.saved, "deferred upgrade must not mutate the company")
	})

	t.Run("active subscription is swapped and the snapshot overwritten", func(t *testing.T) {
		c := testCompany()
		c.Stripe.CustomerID = "cus_1"
		c.Stripe.SubscriptionID = "sub_old"
		c.ActiveSubscription = company.ActiveSubscription{
			Status:            company.StatusCanceling,
			CancelAtPeriodEnd: true,
		}
		p := testPlan(plan.NameOptimaPlus)
		companies := newFakeCompanyStore(c)
		provider := billing.NewMockProvider()
		provider.PeriodStart = now
		provider.PeriodEnd = now.AddDate(0, 1, 0)
		provider.Seed("cus_1", "sub_old", "si_old")
		svc := newTestService(companies, newFakePlanStore(p), provider, now)

		resp, err := svc.Upgrade(ctx, c.ID.Hex(), &subscription.UpgradeSubscriptionRequest{NewPlanID: p.ID.Hex()})
		require.NoError(t, err)
		assert.Empty(t, resp.PaymentLink)
		require.NotNil(t, resp.Company)

		stored := companies.companies[c.ID]
		assert.Equal(t, company.StatusActive, stored.ActiveSubscription.Status)
		require.NotNil(t, stored.ActiveSubscription.Plan)
		assert.Equal(t, p.ID, *stored.ActiveSubscription.Plan)
		assert.Equal(t, provider.PeriodStart, stored.ActiveSubscription.CurrentPeriodStart)
		assert.Equal(t, provider.PeriodEnd, stored.ActiveSubscription.CurrentPeriodEnd)
		assert.False(t, stored.ActiveSubscription.CancelAtPeriodEnd)
		assert.Equal(t, "sub_old", stored.Stripe.SubscriptionID)
		assert.Equal(t, []string{p.StripePriceID}, provider.SwappedPrices)
	})

	t.Run("unknown plan", func(t *testing.T) {
		c := testCompany()
		svc := newTestService(newFakeCompanyStore(c), newFakePlanStore(), billing.NewMockProvider(), now)

		_, err := svc.Upgrade(ctx, c.ID.Hex(), &subscription.UpgradeSubscriptionRequest{NewPlanID: primitive.NewObjectID().Hex()})
		assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
	})
}

func TestExpireOverdue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expires overdue companies and downgrades their role", func(t *testing.T) {
		c1 := testCompany()
		c1.ActiveSubscription.Status = company.StatusActive
		c1.ActiveSubscription.CurrentPeriodEnd = now.AddDate(0, 0, -3)
		c2 := testCompany()
		c2.ActiveSubscription.Status = company.StatusCanceling
		c2.ActiveSubscription.CurrentPeriodEnd = now.AddDate(0, 0, -1)
		companies := newFakeCompanyStore(c1, c2)
		svc := newTestService(companies, newFakePlanStore(), billing.NewMockProvider(), now)

		expired, err := svc.ExpireOverdue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, expired)

		for _, id := range []primitive.ObjectID{c1.ID, c2.ID} {
			stored := companies.companies[id]
			assert.Equal(t, company.StatusCanceled, stored.ActiveSubscription.Status)
			assert.Equal(t, user.RoleBasic, stored.Role)
		}
	})

	t.Run("cuts off at midnight and leaves later period ends untouched", func(t *testing.T) {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		atCutoff := testCompany()
		atCutoff.ActiveSubscription.Status = company.StatusActive
		atCutoff.ActiveSubscription.CurrentPeriodEnd = midnight
		laterToday := testCompany()
		laterToday.ActiveSubscription.Status = company.StatusActive
		laterToday.ActiveSubscription.CurrentPeriodEnd = now
		nextMonth := testCompany()
		nextMonth.ActiveSubscription.Status = company.StatusCanceling
		nextMonth.ActiveSubscription.CurrentPeriodEnd = now.AddDate(0, 1, 0)
		companies := newFakeCompanyStore(atCutoff, laterToday, nextMonth)
		svc := newTestService(companies, newFakePlanStore(), billing.NewMockProvider(), now)

		expired, err := svc.ExpireOverdue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		require.NotNil(t, companies.lastCutoff)
		assert.Equal(t, midnight, *companies.lastCutoff)

		assert.Equal(t, company.StatusCanceled, companies.companies[atCutoff.ID].ActiveSubscription.Status)
		assert.Equal(t, company.StatusActive, companies.companies[laterToday.ID].ActiveSubscription.Status)
		assert.Equal(t, company.StatusCanceling, companies.companies[nextMonth.ID].ActiveSubscription.Status)
		assert.Equal(t, user.RoleCompany, companies.companies[laterToday.ID].Role)
	})

	t.Run("already canceled companies are not reprocessed", func(t *testing.T) {
		c := testCompany()
		c.ActiveSubscription.Status = company.StatusCanceled
		c.ActiveSubscription.CurrentPeriodEnd = now.AddDate(0, 0, -5)
		companies := newFakeCompanyStore(c)
		svc := newTestService(companies, newFakePlanStore(), billing.NewMockProvider(), now)

		expired, err := svc.ExpireOverdue(ctx)
		require.NoError(t, err)
		assert.Zero(t, expired)
		assert.Equal(t, user.RoleCompany, companies.companies[c.ID].Role)
	})

	t.Run("nothing to expire", func(t *testing.T) {
		companies := newFakeCompanyStore()
		svc := newTestService(companies, newFakePlanStore(), billing.NewMockProvider(), now)

		expired, err := svc.ExpireOverdue(ctx)
		require.NoError(t, err)
		assert.Zero(t, expired)
	})

	t.Run("a failing save does not abort the sweep", func(t *testing.T) {
		c1 := testCompany()
		c1.ActiveSubscription.Status = company.StatusActive
		c1.ActiveSubscription.CurrentPeriodEnd = now.AddDate(0, 0, -1)
		c2 := testCompany()
		c2.ActiveSubscription.Status = company.StatusActive
		c2.ActiveSubscription.CurrentPeriodEnd = now.AddDate(0, 0, -1)
		companies := newFakeCompanyStore(c1, c2)
		companies.saveErrOn[c1.ID] = errors.New("write conflict")
		svc := newTestService(companies, newFakePlanStore(), billing.NewMockProvider(), now)

		expired, err := svc.ExpireOverdue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)
		assert.Equal(t, company.StatusCanceled, companies.companies[c2.ID].ActiveSubscription.Status)
	})
}

func TestEntitled(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		sub  company.ActiveSubscription
		want bool
	}{
		{"active", company.ActiveSubscription{Status: company.StatusActive}, true},
		{"canceling before cancel date", company.ActiveSubscription{Status: company.StatusCanceling, CanceledAt: &future}, true},
		{"canceling past cancel date", company.ActiveSubscription{Status: company.StatusCanceling, CanceledAt: &past}, false},
		{"canceling without cancel date", company.ActiveSubscription{Status: company.StatusCanceling}, false},
		{"canceled", company.ActiveSubscription{Status: company.StatusCanceled, CanceledAt: &future}, false},
		{"no subscription", company.ActiveSubscription{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCompany()
			c.ActiveSubscription = tt.sub
			assert.Equal(t, tt.want, c.Entitled(now))
		})
	}
}
