// internal/service/user/user_service_test.go
package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// ----- fakes -----

type fakeUserStore struct {
	users map[primitive.ObjectID]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*user.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u *user.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return xerrors.ErrDuplicate
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *fakeUserStore) FindAll(_ context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if name, ok := fields["name"]; ok {
		u.Name = name.(string)
	}
	if email, ok := fields["email"]; ok {
		u.Email = email.(string)
	}
	if role, ok := fields["role"]; ok {
		u.Role = role.(user.Role)
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	delete(s.users, id)
	return u, nil
}

type fakeCompanyStore struct {
	companies map[primitive.ObjectID]*company.Company
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: make(map[primitive.ObjectID]*company.Company)}
}

func (s *fakeCompanyStore) Create(_ context.Context, c *company.Company) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	for _, existing := range s.companies {
		if existing.CompanyEmail == c.CompanyEmail {
			return xerrors.ErrDuplicate
		}
	}
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *fakeCompanyStore) FindByID(_ context.Context, id primitive.ObjectID) (*company.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCompanyStore) FindByCompanyEmail(_ context.Context, email string) (*company.Company, error) {
	for _, c := range s.companies {
		if c.CompanyEmail == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *fakeCompanyStore) FindByEmail(_ context.Context, email string) (*company.Company, error) {
	for _, c := range s.companies {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *fakeCompanyStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*company.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if name, ok := fields["name"]; ok {
		c.Name = name.(string)
	}
	if sub, ok := fields["subscription"]; ok {
		id := sub.(primitive.ObjectID)
		c.Subscription = &id
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCompanyStore) Delete(_ context.Context, id primitive.ObjectID) (*company.Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	delete(s.companies, id)
	return c, nil
}

type fakePlanStore struct {
	plans map[primitive.ObjectID]*plan.Plan
}

func (s *fakePlanStore) FindByID(_ context.Context, id primitive.ObjectID) (*plan.Plan, error) {
	p, ok := s.plans[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePlanStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]plan.Plan, error) {
	var out []plan.Plan
	for _, id := range ids {
		if p, ok := s.plans[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeRateLimiter struct {
	allowed bool
	resets  int
}

func (r *fakeRateLimiter) CheckLoginAttempt(_ context.Context, _, _ string) (bool, int64, error) {
	return r.allowed, 1, nil
}

func (r *fakeRateLimiter) ResetLoginAttempts(_ context.Context, _, _ string) error {
	r.resets++
	return nil
}

type fixture struct {
	users     *fakeUserStore
	companies *fakeCompanyStore
	plans     *fakePlanStore
	limiter   *fakeRateLimiter
	svc       *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	manager, err := jwt.NewManager(jwt.Config{
		Secret:   "test-secret",
		Issuer:   "eventora",
		Audience: "eventora-api",
		TTL:      time.Hour,
	})
	require.NoError(t, err)

	f := &fixture{
		users:     newFakeUserStore(),
		companies: newFakeCompanyStore(),
		plans:     &fakePlanStore{plans: map[primitive.ObjectID]*plan.Plan{}},
		limiter:   &fakeRateLimiter{allowed: true},
	}
	f.svc = NewUserService(f.users, f.companies, f.plans, manager, f.limiter, zap.NewNop())
	return f
}

// ----- tests -----

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("basic user", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Create(ctx, &user.CreateUserRequest{
			Name:     "Alex",
			Email:    "alex@test",
			Password: "secret-password",
		})
		require.NoError(t, err)

		u, ok := result.(*user.User)
		require.True(t, ok)
		assert.Equal(t, user.RoleBasic, u.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-password")))
	})

	t.Run("company user lands in the companies collection", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.svc.Create(ctx, &user.CreateUserRequest{
			Name:        "Acme Owner",
			Email:       "owner@acme.test",
			Password:    "secret-password",
			Role:        user.RoleCompany,
			CompanyName: "Acme",
			Phone:       "+49123456",
			Sector:      "events",
		})
		require.NoError(t, err)

		c, ok := result.(*company.Company)
		require.True(t, ok)
		assert.Equal(t, user.RoleCompany, c.Role)
		assert.Equal(t, "owner@acme.test", c.CompanyEmail, "company email defaults to the login email")
		assert.Empty(t, f.users.users)
		assert.Len(t, f.companies.companies, 1)
	})

	t.Run("company signup without the company fields", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, &user.CreateUserRequest{
			Name:     "Acme Owner",
			Email:    "owner@acme.test",
			Password: "secret-password",
			Role:     user.RoleCompany,
		})
		assert.True(t, xerrors.Is(err, xerrors.ErrValidation))
	})

	t.Run("duplicate company email", func(t *testing.T) {
		f := newFixture(t)
		req := &user.CreateUserRequest{
			Name:        "Acme Owner",
			Email:       "owner@acme.test",
			Password:    "secret-password",
			Role:        user.RoleCompany,
			CompanyName: "Acme",
			Phone:       "+49123456",
			Sector:      "events",
		}
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, req)
		assert.True(t, xerrors.Is(err, xerrors.ErrDuplicate))
	})
}

func TestGetAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := &plan.Plan{ID: primitive.NewObjectID(), Name: plan.NameOptima}
	f.plans.plans[p.ID] = p

	subscribed := &user.User{ID: primitive.NewObjectID(), Name: "Sam", Email: "sam@test", Subscription: &p.ID}
	plain := &user.User{ID: primitive.NewObjectID(), Name: "Kim", Email: "kim@test"}
	require.NoError(t, f.users.Create(ctx, subscribed))
	require.NoError(t, f.users.Create(ctx, plain))

	got, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byName := map[string]user.PopulatedUser{}
	for _, pu := range got {
		byName[pu.Name] = pu
	}
	require.NotNil(t, byName["Sam"].Subscription)
	assert.Equal(t, plan.NameOptima, byName["Sam"].Subscription.Name)
	assert.Nil(t, byName["Kim"].Subscription)
}

func TestGetByIDAcrossCollections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := &user.User{ID: primitive.NewObjectID(), Name: "Alex", Email: "alex@test"}
	require.NoError(t, f.users.Create(ctx, u))
	c := &company.Company{ID: primitive.NewObjectID(), Name: "Acme", Email: "acme@test", CompanyEmail: "acme@test"}
	require.NoError(t, f.companies.Create(ctx, c))

	gotUser, err := f.svc.GetByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.IsType(t, &user.User{}, gotUser)

	gotCompany, err := f.svc.GetByID(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.IsType(t, &company.Company{}, gotCompany)

	_, err = f.svc.GetByID(ctx, primitive.NewObjectID().Hex())
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}

func TestUpdateRoleMigration(t *testing.T) {
	ctx := context.Background()

	t.Run("user to company keeps the id", func(t *testing.T) {
		f := newFixture(t)
		u := &user.User{ID: primitive.NewObjectID(), Name: "Alex", Email: "alex@test", Role: user.RoleBasic}
		require.NoError(t, f.users.Create(ctx, u))

		role := user.RoleCompany
		companyName := "Alex Events"
		result, err := f.svc.Update(ctx, u.ID.Hex(), &user.UpdateUserRequest{
			Role:        &role,
			CompanyName: &companyName,
		})
		require.NoError(t, err)

		c, ok := result.(*company.Company)
		require.True(t, ok)
		assert.Equal(t, u.ID, c.ID)
		assert.Equal(t, "Alex Events", c.CompanyName)
		assert.Equal(t, "alex@test", c.CompanyEmail)
		assert.Empty(t, f.users.users)
		assert.Len(t, f.companies.companies, 1)
	})

	t.Run("company to user keeps the id", func(t *testing.T) {
		f := newFixture(t)
		c := &company.Company{ID: primitive.NewObjectID(), Name: "Acme", Email: "acme@test", CompanyEmail: "acme@test", Role: user.RoleCompany}
		require.NoError(t, f.companies.Create(ctx, c))

		role := user.RoleBasic
		result, err := f.svc.Update(ctx, c.ID.Hex(), &user.UpdateUserRequest{Role: &role})
		require.NoError(t, err)

		u, ok := result.(*user.User)
		require.True(t, ok)
		assert.Equal(t, c.ID, u.ID)
		assert.Equal(t, user.RoleBasic, u.Role)
		assert.Empty(t, f.companies.companies)
		assert.Len(t, f.users.users, 1)
	})

	t.Run("plain field update stays in place", func(t *testing.T) {
		f := newFixture(t)
		u := &user.User{ID: primitive.NewObjectID(), Name: "Alex", Email: "alex@test"}
		require.NoError(t, f.users.Create(ctx, u))

		name := "Alexandra"
		result, err := f.svc.Update(ctx, u.ID.Hex(), &user.UpdateUserRequest{Name: &name})
		require.NoError(t, err)

		updated, ok := result.(*user.User)
		require.True(t, ok)
		assert.Equal(t, "Alexandra", updated.Name)
		assert.Len(t, f.users.users, 1)
	})
}

func TestUpdateSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the plan to a company", func(t *testing.T) {
		f := newFixture(t)
		p := &plan.Plan{ID: primitive.NewObjectID(), Name: plan.NameOptima}
		f.plans.plans[p.ID] = p
		c := &company.Company{ID: primitive.NewObjectID(), Name: "Acme", Email: "acme@test", CompanyEmail: "acme@test"}
		require.NoError(t, f.companies.Create(ctx, c))

		got, err := f.svc.UpdateSubscription(ctx, c.ID.Hex(), p.ID.Hex())
		require.NoError(t, err)
		require.NotNil(t, got.Subscription)
		assert.Equal(t, plan.NameOptima, got.Subscription.Name)
		require.NotNil(t, got.Company.Subscription)
		assert.Equal(t, p.ID, *got.Company.Subscription)
	})

	t.Run("regular users cannot hold subscriptions", func(t *testing.T) {
		f := newFixture(t)
		u := &user.User{ID: primitive.NewObjectID(), Name: "Alex", Email: "alex@test"}
		require.NoError(t, f.users.Create(ctx, u))

		_, err := f.svc.UpdateSubscription(ctx, u.ID.Hex(), primitive.NewObjectID().Hex())
		assert.True(t, xerrors.Is(err, xerrors.ErrValidation))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		f := newFixture(t)
		u := &user.User{ID: primitive.NewObjectID(), Name: "Alex", Email: "alex@test", PasswordHash: string(hash), Role: user.RoleBasic}
		require.NoError(t, f.users.Create(ctx, u))

		resp, err := f.svc.Login(ctx, "127.0.0.1", &user.LoginRequest{Email: "alex@test", Password: "secret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 1, f.limiter.resets)
	})

	t.Run("company accounts can log in too", func(t *testing.T) {
		f := newFixture(t)
		c := &company.Company{ID: primitive.NewObjectID(), Name: "Acme", Email: "acme@test", CompanyEmail: "acme@test", PasswordHash: string(hash), Role: user.RoleCompany}
		require.NoError(t, f.companies.Create(ctx, c))

		resp, err := f.svc.Login(ctx, "127.0.0.1", &user.LoginRequest{Email: "acme@test", Password: "secret-password"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		u := &user.User{ID: primitive.NewObjectID(), Email: "alex@test", PasswordHash: string(hash)}
		require.NoError(t, f.users.Create(ctx, u))

		_, err := f.svc.Login(ctx, "127.0.0.1", &user.LoginRequest{Email: "alex@test", Password: "wrong"})
		assert.True(t, xerrors.Is(err, xerrors.ErrUnauthorized))
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Login(ctx, "127.0.0.1", &user.LoginRequest{Email: "ghost@test", Password: "whatever"})
		assert.True(t, xerrors.Is(err, xerrors.ErrUnauthorized))
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newFixture(t)
		f.limiter.allowed = false
		_, err := f.svc.Login(ctx, "127.0.0.1", &user.LoginRequest{Email: "alex@test", Password: "secret-password"})
		assert.True(t, xerrors.Is(err, xerrors.ErrRateLimited))
	})
}
