package identity

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the users of one tenant. Platform users are managed
// through the nil tenant.
type UserService struct {
	userRepo       identity.UserRepository
	blacklist      auth.TokenBlacklist
	sessionTTL     time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new UserService. sessionTTL bounds how long a
// forced sign-out must be remembered, normally the refresh token lifetime.
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, sessionTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a user in the tenant
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	role, ok := identity.ParseUserRole(req.Role)
	if !ok {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}
	if err := user.SetProfile(req.DisplayName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if actorID != nil {
		user.SetCreatedBy(*actorID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	resp := ToUserResponse(user, false)
	return &resp, nil
}

// GetByID retrieves a user of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, true)
	return &resp, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i], false)
	}
	return out, total, nil
}

// Update changes the profile and, when given, the role. A role change
// signs the user out because their tokens carry the old permissions.
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.SetProfile(req.DisplayName, req.Email, req.Phone); err != nil {
		return nil, err
	}

	roleChanged := false
	if req.Role != "" {
		role, ok := identity.ParseUserRole(req.Role)
		if !ok {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
		}
		roleChanged = role != user.Role
		if err := user.ChangeRole(role); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		s.revokeSessions(ctx, user)
	}
	s.publish(ctx, user)

	resp := ToUserResponse(user, false)
	return &resp, nil
}

// Activate re-enables a user
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, false)
	return &resp, nil
}

// Deactivate disables a user and ends their sessions
func (s *UserService) Deactivate(ctx context.Context, tenantID, id, actorID uuid.UUID) (*UserResponse, error) {
	if id == actorID {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user)

	resp := ToUserResponse(user, false)
	return &resp, nil
}

// ResetPassword sets a new password without the old one, for admins
func (s *UserService) ResetPassword(ctx context.Context, tenantID, id uuid.UUID, newPassword string) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revokeSessions(ctx, user)
	return nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, user)
	return nil
}

// Roles lists the roles that can be assigned to SPPG users
func (s *UserService) Roles() []identity.RoleOption {
	return identity.AssignableRoles()
}

func (s *UserService) revokeSessions(ctx context.Context, user *identity.User) {
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.sessionTTL); err != nil {
		s.logger.Error("Failed to revoke user sessions",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		user.ClearDomainEvents()
		return
	}
	if events := user.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		user.ClearDomainEvents()
	}
}
