package services

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/guard"
	"github.com/RMF112018/project-controls/pkg/mocks"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
	"github.com/RMF112018/project-controls/pkg/persistence/file"
	"github.com/RMF112018/project-controls/pkg/resolver"
	"github.com/RMF112018/project-controls/pkg/testutil"
)

const adminActor = "admin@example.com"

func newRoleService(t *testing.T) (*Role, *file.Persistence, *mocks.MockEventBus) {
	t.Helper()

	testDir := t.TempDir()
	p := file.NewPersistence(testDir)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	// The acting administrator holds lead read/write via its group template.
	testutil.SeedUsers(t, testDir, models.UserAccount{
		Email:         adminActor,
		SecurityGroup: "governance-admins",
		IsActive:      true,
	})
	testutil.SeedGroupMappings(t, testDir, models.SecurityGroupMapping{
		GroupName:         "governance-admins",
		DefaultTemplateID: "tpl-admin",
		IsActive:          true,
	})
	testutil.SeedPermissionTemplates(t, testDir,
		testutil.CreateTestPermissionTemplate("tpl-admin", "Governance Admin",
			models.ToolAccess{ToolKey: "lead", Level: models.AccessStandard},
		),
	)

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	permResolver := resolver.NewPermissionResolver(p, logger)
	service := NewRole(p, permResolver, guard.NewDefaultRateLimiter(), bus, logger)

	return service, p, bus
}

func TestRole_Create(t *testing.T) {
	service, p, bus := newRoleService(t)

	role, err := service.Create(t.Context(), CreateRoleRequest{
		RoleName:           "estimator",
		DisplayName:        "Estimator",
		Description:        "Prepares pursuit estimates",
		DefaultPermissions: []string{"lead:read"},
		Actor:              adminActor,
	})
	require.NoError(t, err)
	require.NotNil(t, role)

	assert.NotEmpty(t, role.ID)
	assert.True(t, role.IsActive)
	assert.False(t, role.IsSystem)
	assert.Equal(t, adminActor, role.CreatedBy)
	assert.False(t, role.CreatedAt.IsZero())

	saved, err := p.Roles().ByID(t.Context(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, "estimator", saved.RoleName)

	bus.AssertCalled(t, "Publish", mock.Anything, role.ID, mock.Anything)
}

func TestRole_CreateRejectsEscalation(t *testing.T) {
	service, p, bus := newRoleService(t)

	// The admin holds lead:read and lead:write only.
	_, err := service.Create(t.Context(), CreateRoleRequest{
		RoleName:           "super",
		DisplayName:        "Super Role",
		DefaultPermissions: []string{"lead:read", "lead:delete"},
		Actor:              adminActor,
	})
	require.Error(t, err)
	assert.True(t, guard.IsEscalation(err))

	var escErr *guard.PermissionEscalationError

	require.ErrorAs(t, err, &escErr)
	assert.Equal(t, []string{"lead:delete"}, escErr.Escalated)

	// Nothing was persisted and nothing was audited.
	roles, listErr := p.Roles().ListActive(t.Context())
	require.NoError(t, listErr)
	assert.Empty(t, roles)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestRole_CreateValidation(t *testing.T) {
	service, _, _ := newRoleService(t)

	_, err := service.Create(t.Context(), CreateRoleRequest{
		DisplayName: "Missing Name",
		Actor:       adminActor,
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = service.Create(t.Context(), CreateRoleRequest{
		RoleName:    "estimator",
		DisplayName: "Estimator",
		Actor:       "not-an-email",
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestRole_CreateRateLimited(t *testing.T) {
	service, _, _ := newRoleService(t)

	for i := 0; i < guard.DefaultRateLimit; i++ {
		_, err := service.Create(t.Context(), CreateRoleRequest{
			RoleName:    "role",
			DisplayName: "Role",
			Actor:       adminActor,
		})
		require.NoError(t, err)
	}

	_, err := service.Create(t.Context(), CreateRoleRequest{
		RoleName:    "role",
		DisplayName: "Role",
		Actor:       adminActor,
	})
	require.Error(t, err)
	assert.True(t, guard.IsRateLimited(err))
}

func TestRole_UpdateAllowListedFieldsOnly(t *testing.T) {
	service, p, _ := newRoleService(t)

	created, err := service.Create(t.Context(), CreateRoleRequest{
		RoleName:    "estimator",
		DisplayName: "Estimator",
		Actor:       adminActor,
	})
	require.NoError(t, err)

	newName := "Senior Estimator"
	updated, err := service.Update(t.Context(), created.ID, UpdateRoleRequest{
		DisplayName:        &newName,
		DefaultPermissions: []string{"lead:read"},
		Actor:              adminActor,
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Estimator", updated.DisplayName)
	assert.Equal(t, []string{"lead:read"}, updated.DefaultPermissions)
	// Protected fields survive untouched.
	assert.Equal(t, "estimator", updated.RoleName)
	assert.False(t, updated.IsSystem)
	assert.True(t, updated.IsActive)

	saved, err := p.Roles().ByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Estimator", saved.DisplayName)
}

func TestRole_UpdateRejectsEscalation(t *testing.T) {
	service, _, _ := newRoleService(t)

	created, err := service.Create(t.Context(), CreateRoleRequest{
		RoleName:    "estimator",
		DisplayName: "Estimator",
		Actor:       adminActor,
	})
	require.NoError(t, err)

	_, err = service.Update(t.Context(), created.ID, UpdateRoleRequest{
		DefaultPermissions: []string{"budget:admin"},
		Actor:              adminActor,
	})
	require.Error(t, err)
	assert.True(t, guard.IsEscalation(err))
}

func TestRole_UpdateUnknownRole(t *testing.T) {
	service, _, _ := newRoleService(t)

	_, err := service.Update(t.Context(), "missing-id", UpdateRoleRequest{Actor: adminActor})
	require.Error(t, err)
	assert.True(t, persistence.IsRoleNotFound(err))
}

func TestRole_DeactivateSoftDeletes(t *testing.T) {
	service, _, _ := newRoleService(t)

	created, err := service.Create(t.Context(), CreateRoleRequest{
		RoleName:    "estimator",
		DisplayName: "Estimator",
		Actor:       adminActor,
	})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(t.Context(), created.ID, adminActor))

	// Gone from active listings, still readable by id.
	active, err := service.ListActive(t.Context())
	require.NoError(t, err)
	assert.Empty(t, active)

	fetched, err := service.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
	assert.Equal(t, adminActor, fetched.ModifiedBy)
}

func TestRole_DeactivateSystemRoleRefused(t *testing.T) {
	service, p, _ := newRoleService(t)

	system := &models.RoleConfiguration{
		ID:       "role-system",
		RoleName: "platform_admin",
		IsSystem: true,
		IsActive: true,
	}
	require.NoError(t, p.Roles().Save(t.Context(), system))

	err := service.Deactivate(t.Context(), system.ID, adminActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSystemRoleImmutable)
	assert.True(t, IsConflictError(err))

	fetched, getErr := service.Get(t.Context(), system.ID)
	require.NoError(t, getErr)
	assert.True(t, fetched.IsActive)
}

func TestRole_DeactivateRequiresActor(t *testing.T) {
	service, _, _ := newRoleService(t)

	err := service.Deactivate(t.Context(), "any-id", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActorRequired)
}
