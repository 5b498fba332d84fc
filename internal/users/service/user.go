package service

import (
	"context"
	"errors"
	"strings"

	userserrors "hostelhub/internal/users/errors"
	"hostelhub/internal/users/repository"
	"hostelhub/internal/users/validator"
	"hostelhub/pkg/config"
	apperrors "hostelhub/pkg/errors"
	"hostelhub/pkg/model"
	"hostelhub/pkg/policy"
	"hostelhub/pkg/sanitizer"
)

type UserService interface {
	Create(ctx context.Context, actor model.Actor, user *model.User) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.User, error)
	List(ctx context.Context, actor model.Actor, filter *model.UserFilter, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.UserUpdate) (*model.User, error)
	Deactivate(ctx context.Context, actor model.Actor, id string) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Create is public registration. Only administrators may seed a non-default
// role; everyone else becomes a regular user no matter what the request says.
func (s *userService) Create(ctx context.Context, actor model.Actor, user *model.User) error {
	if err := policy.Authorize(actor, policy.UserRegister, policy.Target{}); err != nil {
		return err
	}

	s.sanitize(user)
	if user.Role == "" || !actor.IsAdmin() {
		user.Role = model.RoleUser
	}
	user.IsActive = true
	user.IsVerified = false

	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed",
			"email", user.Email,
			"error", err,
		)
		return apperrors.Validation("User validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return apperrors.Conflict("A user with this email already exists")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check email availability",
			"email", user.Email,
			"error", err,
		)
		return apperrors.Internal("Failed to create user", err)
	}

	// The unique email index is the backstop for concurrent registrations.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return apperrors.Conflict("A user with this email already exists")
		}
		s.cfg.Log.Error("Failed to create user",
			"email", user.Email,
			"error", err,
		)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created",
		"id", user.ID,
		"role", user.Role,
	)

	return nil
}

func (s *userService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.User, error) {
	if err := s.authorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}

	return s.findUser(ctx, id)
}

func (s *userService) List(ctx context.Context, actor model.Actor, filter *model.UserFilter, limit int, offset int64) ([]*model.User, int64, error) {
	if err := policy.Authorize(actor, policy.UserManage, policy.Target{}); err != nil {
		return nil, 0, err
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	users, err := s.repo.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, 0, apperrors.Internal("Failed to list users", err)
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count users", "error", err)
		return nil, 0, apperrors.Internal("Failed to count users", err)
	}

	return users, count, nil
}

func (s *userService) Update(ctx context.Context, actor model.Actor, id string, updates *model.UserUpdate) (*model.User, error) {
	if err := s.authorizeSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}

	// Role and verification flips are administrative even on one's own record.
	if (updates.Role != "" || updates.IsVerified != nil) && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("Administrator privileges required to change role or verification")
	}

	existing, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := s.mergeUserUpdates(existing, updates)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("User validation failed",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Validation("User validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("A user with this email already exists")
		}
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to update user",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User updated", "id", id)

	return merged, nil
}

// Deactivate is administrative; users cannot retire their own account.
func (s *userService) Deactivate(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := policy.Authorize(actor, policy.UserManage, policy.Target{}); err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to deactivate user",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to deactivate user", err)
	}

	s.cfg.Log.Info("User deactivated", "id", id)

	return nil
}

func (s *userService) authorizeSelfOrAdmin(actor model.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if !actor.IsAnonymous() && actor.ID == id {
		return nil
	}
	return policy.Authorize(actor, policy.UserManage, policy.Target{})
}

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to get user by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) sanitize(user *model.User) {
	user.Name = sanitizer.SanitizeName(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Phone = sanitizer.SanitizePhone(user.Phone)
}

func (s *userService) mergeUserUpdates(existing *model.User, updates *model.UserUpdate) *model.User {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.IsVerified != nil {
		merged.IsVerified = *updates.IsVerified
	}

	merged.ID = existing.ID
	merged.PasswordHash = existing.PasswordHash
	merged.CreatedAt = existing.CreatedAt

	return &merged
}
