package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/RMF112018/project-controls/pkg/eventbus"
	"github.com/RMF112018/project-controls/pkg/events"
	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/resolver"
)

// Role manages role configurations. Every mutation passes the escalation guard
// and the rate limiter before it is persisted, and emits an audit event after.
type Role struct {
	persistence persistence.Persistence
	permissions *resolver.PermissionResolver
	limiter     *guard.RateLimiter
	bus         eventbus.EventPublisher
	validate    *validator.Validate
	logger      *slog.Logger
	now         func() time.Time
}

// NewRole creates a role service.
func NewRole(
	p persistence.Persistence,
	permissions *resolver.PermissionResolver,
	limiter *guard.RateLimiter,
	bus eventbus.EventPublisher,
	logger *slog.Logger,
) *Role {
	return &Role{
		persistence: p,
		permissions: permissions,
		limiter:     limiter,
		bus:         bus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRoleRequest carries a new role configuration.
type CreateRoleRequest struct {
	RoleName           string   `json:"role_name"    validate:"required"`
	DisplayName        string   `json:"display_name" validate:"required"`
	Description        string   `json:"description"`
	DefaultPermissions []string `json:"default_permissions"`
	Actor              string   `json:"actor"        validate:"required,email"`
}

// Create persists a new role after the guards pass. The acting principal may
// only grant permissions it already holds; callers can never create system roles.
func (s *Role) Create(ctx context.Context, req CreateRoleRequest) (*models.RoleConfiguration, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ServiceError{Op: "Create", Message: err.Error(), Err: ErrInvalidRequest}
	}

	if err := s.limiter.Check(req.Actor, "role.create"); err != nil {
		return nil, err
	}

	if err := s.assertNoEscalation(ctx, req.Actor, req.DefaultPermissions); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	role := &models.RoleConfiguration{
		ID:                 uuid.NewString(),
		RoleName:           req.RoleName,
		DisplayName:        req.DisplayName,
		Description:        req.Description,
		DefaultPermissions: req.DefaultPermissions,
		IsSystem:           false,
		IsActive:           true,
		CreatedAt:          now,
		CreatedBy:          req.Actor,
		ModifiedAt:         now,
		ModifiedBy:         req.Actor,
	}

	if err := s.persistence.Roles().Save(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to save role %s: %w", role.RoleName, err)
	}

	event := events.RoleCreated{BaseEvent: events.NewBaseEvent(events.RoleCreatedEvent, "role", role.ID, req.Actor)}
	event.After = snapshot(role)
	publishAudit(ctx, s.bus, s.logger, role.ID, event)

	return role, nil
}

// UpdateRoleRequest carries a partial role update. Only the allow-listed fields
// are applied; protected fields (RoleName, IsSystem, IsActive) in the incoming
// payload are discarded, not errored.
type UpdateRoleRequest struct {
	DisplayName        *string  `json:"display_name,omitempty" validate:"omitempty,min=1"`
	Description        *string  `json:"description,omitempty"`
	DefaultPermissions []string `json:"default_permissions,omitempty"`
	Actor              string   `json:"actor" validate:"required,email"`
}

// Update applies the mutable fields of a role. Referencing a role id that does
// not exist is a caller bug and returns the lookup error unchanged.
func (s *Role) Update(ctx context.Context, roleID string, req UpdateRoleRequest) (*models.RoleConfiguration, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ServiceError{Op: "Update", Message: err.Error(), Err: ErrInvalidRequest}
	}

	role, err := s.persistence.Roles().ByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Check(req.Actor, "role.update"); err != nil {
		return nil, err
	}

	if req.DefaultPermissions != nil {
		if err := s.assertNoEscalation(ctx, req.Actor, req.DefaultPermissions); err != nil {
			return nil, err
		}
	}

	before := snapshot(role)

	// Allow-listed mutable fields only. IsSystem and IsActive are enforced by
	// construction: this path cannot touch them.
	if req.DisplayName != nil {
		role.DisplayName = *req.DisplayName
	}

	if req.Description != nil {
		role.Description = *req.Description
	}

	if req.DefaultPermissions != nil {
		role.DefaultPermissions = req.DefaultPermissions
	}

	role.ModifiedAt = s.now().UTC()
	role.ModifiedBy = req.Actor

	if err := s.persistence.Roles().Save(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to save role %s: %w", roleID, err)
	}

	event := events.RoleUpdated{BaseEvent: events.NewBaseEvent(events.RoleUpdatedEvent, "role", role.ID, req.Actor)}
	event.Before = before
	event.After = snapshot(role)
	publishAudit(ctx, s.bus, s.logger, role.ID, event)

	return role, nil
}

// Deactivate soft-deletes a role: it disappears from active listings but stays
// readable by id. System roles refuse.
func (s *Role) Deactivate(ctx context.Context, roleID, actor string) error {
	if actor == "" {
		return &ServiceError{Op: "Deactivate", Err: ErrActorRequired}
	}

	role, err := s.persistence.Roles().ByID(ctx, roleID)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return &ServiceError{Op: "Deactivate", Message: role.RoleName, Err: ErrSystemRoleImmutable}
	}

	if err := s.limiter.Check(actor, "role.deactivate"); err != nil {
		return err
	}

	before := snapshot(role)
	role.IsActive = false
	role.ModifiedAt = s.now().UTC()
	role.ModifiedBy = actor

	if err := s.persistence.Roles().Save(ctx, role); err != nil {
		return fmt.Errorf("failed to save role %s: %w", roleID, err)
	}

	event := events.RoleDeactivated{BaseEvent: events.NewBaseEvent(events.RoleDeactivatedEvent, "role", role.ID, actor)}
	event.Before = before
	event.After = snapshot(role)
	publishAudit(ctx, s.bus, s.logger, role.ID, event)

	return nil
}

// Get returns a role by id, soft-deleted or not.
func (s *Role) Get(ctx context.Context, roleID string) (*models.RoleConfiguration, error) {
	return s.persistence.Roles().ByID(ctx, roleID)
}

// ListActive returns the roles that have not been soft-deleted.
func (s *Role) ListActive(ctx context.Context) ([]*models.RoleConfiguration, error) {
	return s.persistence.Roles().ListActive(ctx)
}

func (s *Role) assertNoEscalation(ctx context.Context, actor string, requested []string) error {
	held, err := s.permissions.ResolvePermissions(ctx, actor, "")
	if err != nil {
		return fmt.Errorf("failed to resolve permissions for %s: %w", actor, err)
	}

	return guard.AssertNotSelfEscalation(actor, held.Permissions, requested)
}
