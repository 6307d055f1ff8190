package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/channels/gochannel"
	"github.com/RMF112018/project-controls/pkg/eventbus"
	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence/file"
	"github.com/RMF112018/project-controls/pkg/testutil"
)

func setupTestApp(t *testing.T, tempDir string) *fiber.App {
	t.Helper()

	persistence := file.NewPersistence(tempDir)

	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	api := NewAPI(
		slog.Default(),
		persistence,
		eventbus.NewWatermillEventBus(pub, sub),
		"",
	)

	return api.App(t.Context())
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Governance API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_HealthEndpoint(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_ResolveWorkflowSteps(t *testing.T) {
	tempDir := t.TempDir()
	persistence := file.NewPersistence(tempDir)

	definition := testutil.CreateTestDefinition(models.WorkflowGoNoGo, testutil.CreateTestStep())
	require.NoError(t, persistence.Workflows().Save(t.Context(), definition))

	app := setupTestApp(t, tempDir)

	req := httptest.NewRequest(http.MethodGet, "/workflows/go-no-go/steps?project=PRJ-001", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		WorkflowKey string                        `json:"workflow_key"`
		ProjectCode string                        `json:"project_code"`
		Steps       []models.ResolvedWorkflowStep `json:"steps"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "go-no-go", payload.WorkflowKey)
	assert.Equal(t, "PRJ-001", payload.ProjectCode)
	require.Len(t, payload.Steps, 1)
	assert.Equal(t, models.SourceDefault, payload.Steps[0].Source)
}

func TestAPI_ResolveWorkflowSteps_MissingProject(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/workflows/go-no-go/steps", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ResolvePermissions(t *testing.T) {
	tempDir := t.TempDir()

	testutil.SeedUsers(t, tempDir, models.UserAccount{
		Email:         "pm@example.com",
		SecurityGroup: "project-managers",
		IsActive:      true,
	})
	testutil.SeedGroupMappings(t, tempDir, models.SecurityGroupMapping{
		GroupName:         "project-managers",
		DefaultTemplateID: "tpl-standard",
		IsActive:          true,
	})
	testutil.SeedPermissionTemplates(t, tempDir,
		testutil.CreateTestPermissionTemplate("tpl-standard", "Standard PM",
			models.ToolAccess{ToolKey: "lead", Level: models.AccessReadOnly},
		),
	)

	app := setupTestApp(t, tempDir)

	req := httptest.NewRequest(http.MethodGet, "/permissions/pm@example.com", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var resolved models.ResolvedPermissions

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&resolved))
	assert.Equal(t, "tpl-standard", resolved.TemplateID)
	assert.Equal(t, []string{"lead:read"}, resolved.Permissions)
}

func TestAPI_CreateRole_EscalationRefused(t *testing.T) {
	tempDir := t.TempDir()

	// The actor resolves to an empty permission set, so any grant escalates.
	app := setupTestApp(t, tempDir)

	payload := `{
		"role_name": "super",
		"display_name": "Super Role",
		"default_permissions": ["lead:admin"],
		"actor": "nobody@example.com"
	}`

	req := httptest.NewRequest(http.MethodPost, "/roles/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_ListRoles_Empty(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/roles/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Roles []models.RoleConfiguration `json:"roles"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Empty(t, payload.Roles)
}

func TestAPI_SyncTemplate_InsufficientApprovals(t *testing.T) {
	tempDir := t.TempDir()
	persistence := file.NewPersistence(tempDir)

	template := testutil.CreateTestSharedTemplate()
	require.NoError(t, persistence.SharedTemplates().Save(t.Context(), template))

	app := setupTestApp(t, tempDir)

	payload := `{
		"actor": "admin@example.com",
		"approvals": [{"approver_email": "alice@example.com"}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/templates/"+template.ID+"/sync", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
}

func TestAPI_GetTemplate_NotFound(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/templates/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
