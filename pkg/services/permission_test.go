package services

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence/file"
	"github.com/RMF112018/project-controls/pkg/resolver"
	"github.com/RMF112018/project-controls/pkg/testutil"
)

func newPermissionService(t *testing.T) (*Permission, string) {
	t.Helper()

	testDir := t.TempDir()
	p := file.NewPersistence(testDir)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewPermission(resolver.NewPermissionResolver(p, logger)), testDir
}

func TestPermission_CheckAccess(t *testing.T) {
	service, testDir := newPermissionService(t)

	testutil.SeedUsers(t, testDir, models.UserAccount{
		Email:         "pm@example.com",
		SecurityGroup: "project-managers",
		IsActive:      true,
	})
	testutil.SeedGroupMappings(t, testDir, models.SecurityGroupMapping{
		GroupName:         "project-managers",
		DefaultTemplateID: "tpl-standard",
		IsActive:          true,
	})
	testutil.SeedPermissionTemplates(t, testDir,
		testutil.CreateTestPermissionTemplate("tpl-standard", "Standard PM",
			models.ToolAccess{ToolKey: "lead", Level: models.AccessReadOnly},
		),
	)

	assert.True(t, service.CheckAccess(t.Context(), "pm@example.com", "", "lead:read"))
	assert.False(t, service.CheckAccess(t.Context(), "pm@example.com", "", "lead:delete"))

	// Unknown principals fail closed.
	assert.False(t, service.CheckAccess(t.Context(), "stranger@example.com", "", "lead:read"))
}

func TestPermission_ResolveDelegates(t *testing.T) {
	service, _ := newPermissionService(t)

	resolved, err := service.Resolve(t.Context(), "nobody@example.com", "")
	require.NoError(t, err)
	assert.Empty(t, resolved.Permissions)

	projects, err := service.AccessibleProjects(t.Context(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, projects)
}
