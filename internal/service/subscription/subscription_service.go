// internal/service/subscription/subscription_service.go
package subscription

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"eventora-service/internal/billing"
	"eventora-service/internal/domain/company"
	"eventora-service/internal/domain/plan"
	"eventora-service/internal/domain/subscription"
	"eventora-service/internal/domain/user"
	xerrors "eventora-service/internal/pkg/errors"
)

// CompanyStore is the slice of the company repository the reconciliation
// logic needs.
type CompanyStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*company.Company, error)
	Save(ctx context.Context, c *company.Company) error
	FindExpiring(ctx context.Context, cutoff time.Time) ([]company.Company, error)
}

// PlanStore resolves plan documents to their provider price ids.
type PlanStore interface {
	FindAll(ctx context.Context) ([]plan.Plan, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*plan.Plan, error)
}

// SubscriptionService keeps a company's local subscription snapshot in
// lockstep with the billing provider. Every write path reads the company,
// calls the provider, then writes the company back; there is no transaction
// spanning the two, the expiry sweep is the only convergence mechanism.
type SubscriptionService struct {
	companyRepo CompanyStore
	planRepo    PlanStore
	provider    billing.Provider
	logger      *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewSubscriptionService(
	companyRepo CompanyStore,
	planRepo PlanStore,
	provider billing.Provider,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		companyRepo: companyRepo,
		planRepo:    planRepo,
		provider:    provider,
		logger:      logger,
		now:         time.Now,
	}
}

// ListPlans returns all subscription plan documents.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]plan.Plan, error) {
	return s.planRepo.FindAll(ctx)
}

// Create ensures a provider customer exists for the company, opens a
// checkout session for the plan and records the resulting provider
// subscription id locally.
func (s *SubscriptionService) Create(ctx context.Context, req *subscription.CreateSubscriptionRequest) (*subscription.CheckoutResponse, error) {
	companyID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid company id")
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid plan id")
	}

	c, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, xerrors.Wrap(err, "company not found")
	}
	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, xerrors.Wrap(err, "plan not found")
	}

	customerID := c.Stripe.CustomerID
	if customerID == "" {
		customerID, err = s.provider.CreateCustomer(ctx, c.ID.Hex(), req.Email)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
		}
		c.Stripe.CustomerID = customerID
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, customerID, p.StripePriceID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
	}

	c.Stripe.SubscriptionID = sess.SubscriptionID
	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("company_id", c.ID.Hex()),
		zap.String("session_id", sess.ID),
	)

	return &subscription.CheckoutResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// Cancel asks the provider to cancel at period end and marks the local
// snapshot canceling.
func (s *SubscriptionService) Cancel(ctx context.Context, companyID string) (*subscription.CancelResponse, error) {
	c, err := s.loadSubscribedCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	canceled, err := s.provider.CancelAtPeriodEnd(ctx, c.Stripe.SubscriptionID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
	}

	now := s.now()
	c.ActiveSubscription.Status = company.StatusCanceling
	c.ActiveSubscription.CancelAtPeriodEnd = true
	c.ActiveSubscription.CanceledAt = &now

	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("subscription scheduled for cancellation",
		zap.String("company_id", c.ID.Hex()),
		zap.Time("cancel_date", canceled.CurrentPeriodEnd),
	)

	return &subscription.CancelResponse{CancelDate: canceled.CurrentPeriodEnd}, nil
}

// Reactivate clears a pending cancellation, the inverse of Cancel.
func (s *SubscriptionService) Reactivate(ctx context.Context, companyID string) (*company.Company, error) {
	c, err := s.loadSubscribedCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if _, err := s.provider.Reactivate(ctx, c.Stripe.SubscriptionID); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
	}

	c.ActiveSubscription.Status = company.StatusActive
	c.ActiveSubscription.CancelAtPeriodEnd = false
	c.ActiveSubscription.CanceledAt = nil

	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("subscription reactivated", zap.String("company_id", c.ID.Hex()))
	return c, nil
}

// Upgrade swaps the provider subscription to a new plan. Without an active
// provider subscription it issues a one-off payment link instead and leaves
// the local snapshot alone.
func (s *SubscriptionService) Upgrade(ctx context.Context, companyID string, req *subscription.UpgradeSubscriptionRequest) (*subscription.UpgradeResponse, error) {
	id, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid company id")
	}
	planID, err := primitive.ObjectIDFromHex(req.NewPlanID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid plan id")
	}

	c, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, xerrors.Wrap(err, "company not found")
	}
	newPlan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, xerrors.Wrap(err, "plan not found")
	}

	var active *billing.Subscription
	if c.Stripe.CustomerID != "" {
		subs, err := s.provider.ListActiveSubscriptions(ctx, c.Stripe.CustomerID, 1)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
		}
		if len(subs) > 0 {
			active = &subs[0]
		}
	}

	if active == nil {
		// Deferred activation: the link completes the purchase later,
		// nothing changes locally until then.
		link, err := s.provider.CreatePaymentLink(ctx, newPlan.StripePriceID)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
		}
		s.logger.Info("payment link created for new subscription",
			zap.String("company_id", c.ID.Hex()),
			zap.String("plan", newPlan.Name),
		)
		return &subscription.UpgradeResponse{PaymentLink: link.URL}, nil
	}

	updated, err := s.provider.SwapSubscriptionItem(ctx, active.ID, active.ItemID, newPlan.StripePriceID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrProvider, err.Error())
	}

	// Overwrite the local snapshot from the provider's period boundaries.
	c.ActiveSubscription = company.ActiveSubscription{
		Status:             company.StatusActive,
		Plan:               &newPlan.ID,
		CurrentPeriodStart: updated.CurrentPeriodStart,
		CurrentPeriodEnd:   updated.CurrentPeriodEnd,
	}
	c.Stripe.SubscriptionID = updated.ID
	c.Stripe.SubscriptionItemID = updated.ItemID

	if err := s.companyRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("subscription upgraded",
		zap.String("company_id", c.ID.Hex()),
		zap.String("plan", newPlan.Name),
	)

	return &subscription.UpgradeResponse{Company: c}, nil
}

// ExpireOverdue force-cancels companies whose local period end has passed.
// It never calls the provider; the local snapshot is an eventually
// consistent cache of provider truth. A failure on one company does not
// abort the rest. Returns the number of companies expired.
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	expiring, err := s.companyRepo.FindExpiring(ctx, today)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range expiring {
		c := &expiring[i]
		c.ActiveSubscription.Status = company.StatusCanceled
		c.Role = user.RoleBasic

		if err := s.companyRepo.Save(ctx, c); err != nil {
			s.logger.Error("failed to expire company subscription",
				zap.String("company_id", c.ID.Hex()),
				zap.Error(err),
			)
			continue
		}
		expired++
		s.logger.Info("company subscription expired, role set to basic",
			zap.String("company_id", c.ID.Hex()),
		)
	}
	return expired, nil
}

// loadSubscribedCompany fetches a company that has a provider subscription
// on file, the precondition for cancel and reactivate.
func (s *SubscriptionService) loadSubscribedCompany(ctx context.Context, companyID string) (*company.Company, error) {
	id, err := primitive.ObjectIDFromHex(companyID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid company id")
	}

	c, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, xerrors.Wrap(err, "no active subscription found")
	}
	if c.Stripe.SubscriptionID == "" {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "no active subscription found")
	}
	return c, nil
}
