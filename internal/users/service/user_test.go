package service

import (
	"context"
	"testing"
	"time"

	userserrors "hostelhub/internal/users/errors"
	"hostelhub/internal/users/validator"
	"hostelhub/pkg/config"
	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/logger"
	"hostelhub/pkg/model"
)

const (
	adminID = "656f1e6a2c94f8a3b4d1e111"
	selfID  = "656f1e6a2c94f8a3b4d1e222"
	otherID = "656f1e6a2c94f8a3b4d1e333"
)

var (
	adminActor = model.Actor{ID: adminID, Role: model.RoleAdmin}
	selfActor  = model.Actor{ID: selfID, Role: model.RoleUser}
	otherActor = model.Actor{ID: otherID, Role: model.RoleUser}
)

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	findAllFunc     func(ctx context.Context, filter *model.UserFilter, limit int, offset int64) ([]*model.User, error)
	countFunc       func(ctx context.Context, filter *model.UserFilter) (int64, error)
	updateFunc      func(ctx context.Context, id string, user *model.User) error
	setActiveFunc   func(ctx context.Context, id string, active bool) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = selfID
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, filter *model.UserFilter, limit int, offset int64) ([]*model.User, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, filter, limit, offset)
	}
	return []*model.User{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context, filter *model.UserFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, user)
	}
	return nil
}

func (m *mockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newService(repo *mockUserRepository, t *testing.T) UserService {
	return NewUserService(repo, validator.NewUserValidator(), testConfig(t))
}

func existingUser() *model.User {
	return &model.User{
		ID:         selfID,
		Name:       "Jordan Reyes",
		Email:      "jordan@example.com",
		Phone:      "+14155550123",
		Role:       model.RoleUser,
		IsActive:   true,
		IsVerified: true,
		CreatedAt:  time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestCreate_AnonymousRegistrationAndDefaults(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			stored = user
			user.ID = otherID
			return nil
		},
	}
	svc := newService(repo, t)

	user := &model.User{
		Name:       "Sam Okafor",
		Email:      "  Sam.Okafor@Example.COM ",
		Phone:      "+2348012345678",
		IsVerified: true, // must be reset
	}

	if err := svc.Create(context.Background(), model.Anonymous(), user); err != nil {
		t.Fatalf("anonymous registration must succeed, got %v", err)
	}
	if stored.Role != model.RoleUser {
		t.Errorf("default role must be user, got %s", stored.Role)
	}
	if stored.Email != "sam.okafor@example.com" {
		t.Errorf("email must be lowercased and trimmed, got %q", stored.Email)
	}
	if !stored.IsActive || stored.IsVerified {
		t.Errorf("new users must start active and unverified, got active=%v verified=%v", stored.IsActive, stored.IsVerified)
	}
}

func TestCreate_RoleSeedingIsAdministrative(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			stored = user
			user.ID = otherID
			return nil
		},
	}
	svc := newService(repo, t)

	request := func() *model.User {
		return &model.User{
			Name:  "Sam Okafor",
			Email: "sam.okafor@example.com",
			Phone: "+2348012345678",
			Role:  model.RoleAdmin,
		}
	}

	for _, actor := range []model.Actor{model.Anonymous(), selfActor} {
		if err := svc.Create(context.Background(), actor, request()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Role != model.RoleUser {
			t.Errorf("non-admin caller must not seed role admin, got %s", stored.Role)
		}
	}

	if err := svc.Create(context.Background(), adminActor, request()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Role != model.RoleAdmin {
		t.Errorf("admin may seed role admin, got %s", stored.Role)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	createCalled := false
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return existingUser(), nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			createCalled = true
			return nil
		},
	}
	svc := newService(repo, t)

	user := existingUser()
	user.ID = ""

	err := svc.Create(context.Background(), adminActor, user)
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", code)
	}
	if createCalled {
		t.Error("insert must not be attempted when the email is taken")
	}
}

func TestCreate_DuplicateEmailRace(t *testing.T) {
	// FindByEmail sees nothing but a concurrent registration wins the insert;
	// the unique index surfaces it.
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc := newService(repo, t)

	user := existingUser()
	user.ID = ""

	err := svc.Create(context.Background(), adminActor, user)
	if code := appErrCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", code)
	}
}

func TestGetByID_SelfOrAdmin(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return existingUser(), nil
		},
	}
	svc := newService(repo, t)

	if _, err := svc.GetByID(context.Background(), selfActor, selfID); err != nil {
		t.Errorf("self read should succeed, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), adminActor, selfID); err != nil {
		t.Errorf("admin read should succeed, got %v", err)
	}

	_, err := svc.GetByID(context.Background(), otherActor, selfID)
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN for other user, got %s", code)
	}

	_, err = svc.GetByID(context.Background(), model.Anonymous(), selfID)
	if code := appErrCode(t, err); code != apperrors.CodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED for anonymous, got %s", code)
	}
}

func TestList_AdminOnly(t *testing.T) {
	svc := newService(&mockUserRepository{}, t)

	_, _, err := svc.List(context.Background(), selfActor, nil, 10, 0)
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %s", code)
	}

	if _, _, err := svc.List(context.Background(), adminActor, nil, 10, 0); err != nil {
		t.Errorf("admin list should succeed, got %v", err)
	}
}

func TestUpdate_RoleChangeIsAdministrative(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return existingUser(), nil
		},
	}
	svc := newService(repo, t)

	_, err := svc.Update(context.Background(), selfActor, selfID, &model.UserUpdate{Role: model.RoleAdmin})
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN for self role escalation, got %s", code)
	}

	updated, err := svc.Update(context.Background(), adminActor, selfID, &model.UserUpdate{Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("admin role change should succeed, got %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Errorf("role not merged, got %s", updated.Role)
	}
}

func TestUpdate_MergePreservesImmutableFields(t *testing.T) {
	existing := existingUser()
	existing.PasswordHash = "argon2id$opaque"

	var stored *model.User
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			copied := *existing
			return &copied, nil
		},
		updateFunc: func(ctx context.Context, id string, user *model.User) error {
			stored = user
			return nil
		},
	}
	svc := newService(repo, t)

	_, err := svc.Update(context.Background(), selfActor, selfID, &model.UserUpdate{Name: "Jordan R Reyes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Name != "Jordan R Reyes" {
		t.Errorf("name not merged, got %q", stored.Name)
	}
	if stored.Email != existing.Email {
		t.Error("unset fields must keep existing values")
	}
	if stored.PasswordHash != existing.PasswordHash || !stored.CreatedAt.Equal(existing.CreatedAt) {
		t.Error("password hash and created_at must be immutable through updates")
	}
}

func TestDeactivate_AdminOnly(t *testing.T) {
	var gotActive *bool
	repo := &mockUserRepository{
		setActiveFunc: func(ctx context.Context, id string, active bool) error {
			gotActive = &active
			return nil
		},
	}
	svc := newService(repo, t)

	if err := svc.Deactivate(context.Background(), adminActor, selfID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotActive == nil || *gotActive {
		t.Error("deactivate must set is_active to false")
	}

	err := svc.Deactivate(context.Background(), selfActor, selfID)
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN for self-deactivation, got %s", code)
	}

	err = svc.Deactivate(context.Background(), otherActor, selfID)
	if code := appErrCode(t, err); code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN for other user, got %s", code)
	}
}
