// internal/service/user/user_service.go
package user

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eventora-service/internal/domain/company"
	"eventora-service/internal/domain/plan"
	"eventora-service/internal/domain/user"
	xerrors "eventora-service/internal/pkg/errors"
	"eventora-service/internal/pkg/jwt"
)

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindAll(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*user.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*user.User, error)
}

type CompanyStore interface {
	Create(ctx context.Context, c *company.Company) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*company.Company, error)
	FindByCompanyEmail(ctx context.Context, email string) (*company.Company, error)
	FindByEmail(ctx context.Context, email string) (*company.Company, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*company.Company, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*company.Company, error)
}

type PlanStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*plan.Plan, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]plan.Plan, error)
}

type RateLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

// UserService manages accounts. Regular users and companies live in
// separate collections; role changes migrate the document between them.
type UserService struct {
	userRepo    UserStore
	companyRepo CompanyStore
	planRepo    PlanStore
	jwtManager  *jwt.Manager
	rateLimiter RateLimiter
	logger      *zap.Logger
}

func NewUserService(
	userRepo UserStore,
	companyRepo CompanyStore,
	planRepo PlanStore,
	jwtManager *jwt.Manager,
	rateLimiter RateLimiter,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		planRepo:    planRepo,
		jwtManager:  jwtManager,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Create registers a new account. Company signups require the company
// fields and a free company email.
func (s *UserService) Create(ctx context.Context, req *user.CreateUserRequest) (interface{}, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to hash password")
	}

	if req.Role == user.RoleCompany {
		if req.CompanyName == "" || req.Phone == "" || req.Sector == "" {
			return nil, xerrors.Wrap(xerrors.ErrValidation, "missing required fields for company user")
		}
		companyEmail := req.CompanyEmail
		if companyEmail == "" {
			companyEmail = req.Email
		}

		if _, err := s.companyRepo.FindByCompanyEmail(ctx, companyEmail); err == nil {
			return nil, xerrors.Wrap(xerrors.ErrDuplicate, "a company with this email already exists")
		} else if !errors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}

		c := &company.Company{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         user.RoleCompany,
			CompanyName:  req.CompanyName,
			CompanyEmail: companyEmail,
			Phone:        req.Phone,
			Sector:       req.Sector,
		}
		if err := s.companyRepo.Create(ctx, c); err != nil {
			return nil, err
		}
		s.logger.Info("company created", zap.String("company_id", c.ID.Hex()))
		return c, nil
	}

	role := req.Role
	if role == "" {
		role = user.RoleBasic
	}
	u := &user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", u.ID.Hex()))
	return u, nil
}

// GetAll returns every regular user with the subscription reference expanded.
func (s *UserService) GetAll(ctx context.Context) ([]user.PopulatedUser, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	subSet := map[primitive.ObjectID]struct{}{}
	for i := range users {
		if users[i].Subscription != nil {
			subSet[*users[i].Subscription] = struct{}{}
		}
	}
	subIDs := make([]primitive.ObjectID, 0, len(subSet))
	for id := range subSet {
		subIDs = append(subIDs, id)
	}

	plans, err := s.planRepo.FindByIDs(ctx, subIDs)
	if err != nil {
		return nil, err
	}
	planByID := map[primitive.ObjectID]plan.Plan{}
	for _, p := range plans {
		planByID[p.ID] = p
	}

	out := make([]user.PopulatedUser, 0, len(users))
	for i := range users {
		u := &users[i]
		pu := user.PopulatedUser{User: u}
		if u.Subscription != nil {
			if p, ok := planByID[*u.Subscription]; ok {
				pu.Subscription = &p
			}
		}
		out = append(out, pu)
	}
	return out, nil
}

// GetByID returns the account regardless of which collection holds it.
func (s *UserService) GetByID(ctx context.Context, id string) (interface{}, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid user id")
	}

	if u, err := s.userRepo.FindByID(ctx, oid); err == nil {
		return u, nil
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}
	return s.companyRepo.FindByID(ctx, oid)
}

// GetByEmail returns the account with the given login email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (interface{}, error) {
	if u, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}
	return s.companyRepo.FindByEmail(ctx, email)
}

// Update patches an account. Changing the role to or from company moves the
// document between collections, keeping its id.
func (s *UserService) Update(ctx context.Context, id string, req *user.UpdateUserRequest) (interface{}, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid user id")
	}

	fields, err := s.fromUpdateRequest(req)
	if err != nil {
		return nil, err
	}

	u, uerr := s.userRepo.FindByID(ctx, oid)
	if uerr == nil {
		if req.Role != nil && *req.Role == user.RoleCompany {
			return s.migrateToCompany(ctx, u, req)
		}
		return s.userRepo.Update(ctx, oid, fields)
	}
	if !errors.Is(uerr, xerrors.ErrNotFound) {
		return nil, uerr
	}

	c, err := s.companyRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if req.Role != nil && *req.Role != user.RoleCompany {
		return s.migrateToUser(ctx, c, req)
	}
	return s.companyRepo.Update(ctx, oid, fields)
}

// UpdateSubscription assigns a subscription plan reference to a company
// account. Regular users cannot hold subscriptions.
func (s *UserService) UpdateSubscription(ctx context.Context, id string, subscriptionID string) (*company.PopulatedCompany, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid user id")
	}
	subID, err := primitive.ObjectIDFromHex(subscriptionID)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid subscription id")
	}

	if _, err := s.userRepo.FindByID(ctx, oid); err == nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "only company users can have subscriptions")
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	c, err := s.companyRepo.Update(ctx, oid, bson.M{"subscription": subID})
	if err != nil {
		return nil, err
	}

	populated := &company.PopulatedCompany{Company: c}
	if p, err := s.planRepo.FindByID(ctx, subID); err == nil {
		populated.Subscription = p
	}
	return populated, nil
}

// Delete removes the account from whichever collection holds it.
func (s *UserService) Delete(ctx context.Context, id string) (interface{}, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "invalid user id")
	}

	if u, err := s.userRepo.Delete(ctx, oid); err == nil {
		return u, nil
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}
	return s.companyRepo.Delete(ctx, oid)
}

// Login verifies credentials and issues an access token. Attempts are
// rate-limited per IP and email.
func (s *UserService) Login(ctx context.Context, ip string, req *user.LoginRequest) (*user.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, ip, req.Email)
	if err != nil {
		s.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts")
	}

	var (
		id     string
		hash   string
		role   user.Role
		result interface{}
	)
	if u, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		id, hash, role, result = u.ID.Hex(), u.PasswordHash, u.Role, u
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	} else {
		c, err := s.companyRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid credentials")
		}
		id, hash, role, result = c.ID.Hex(), c.PasswordHash, c.Role, c
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid credentials")
	}

	token, _, err := s.jwtManager.Generate(id, req.Email, []string{string(role)})
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to issue token")
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, ip, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return &user.LoginResponse{Token: token, User: result}, nil
}

// ---------- role migration ----------

func (s *UserService) migrateToCompany(ctx context.Context, u *user.User, req *user.UpdateUserRequest) (*company.Company, error) {
	c := &company.Company{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         user.RoleCompany,
		Subscription: u.Subscription,
		CreatedAt:    u.CreatedAt,
	}
	applyCompanyFields(c, req)
	if c.CompanyEmail == "" {
		c.CompanyEmail = c.Email
	}

	if _, err := s.userRepo.Delete(ctx, u.ID); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *UserService) migrateToUser(ctx context.Context, c *company.Company, req *user.UpdateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         *req.Role,
		Subscription: c.Subscription,
		CreatedAt:    c.CreatedAt,
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}

	if _, err := s.companyRepo.Delete(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func applyCompanyFields(c *company.Company, req *user.UpdateUserRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.CompanyName != nil {
		c.CompanyName = *req.CompanyName
	}
	if req.CompanyEmail != nil {
		c.CompanyEmail = *req.CompanyEmail
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Sector != nil {
		c.Sector = *req.Sector
	}
}

func (s *UserService) fromUpdateRequest(req *user.UpdateUserRequest) (bson.M, error) {
	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, xerrors.Wrap(err, "failed to hash password")
		}
		fields["password"] = string(hash)
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.CompanyName != nil {
		fields["companyName"] = *req.CompanyName
	}
	if req.CompanyEmail != nil {
		fields["companyEmail"] = *req.CompanyEmail
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Sector != nil {
		fields["sector"] = *req.Sector
	}
	return fields, nil
}
