package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/models"
)

// The read-only collections (teams, leads, users, templates, mappings, flags)
// have no write path through the repositories, so tests seed them as collection
// documents directly.

func seedCollection[T any](t *testing.T, dir, name string, items []T) {
	t.Helper()

	data, err := json.Marshal(items)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644))
}

// SeedTeams writes a teams collection into dir.
func SeedTeams(t *testing.T, dir string, teams ...models.ProjectTeamAssignment) {
	seedCollection(t, dir, "teams", teams)
}

// SeedLeads writes a leads collection into dir.
func SeedLeads(t *testing.T, dir string, leads ...models.LeadRecord) {
	seedCollection(t, dir, "leads", leads)
}

// SeedUsers writes a users collection into dir.
func SeedUsers(t *testing.T, dir string, users ...models.UserAccount) {
	seedCollection(t, dir, "users", users)
}

// SeedPermissionTemplates writes a permission templates collection into dir.
func SeedPermissionTemplates(t *testing.T, dir string, templates ...models.PermissionTemplate) {
	seedCollection(t, dir, "templates", templates)
}

// SeedGroupMappings writes a security-group mapping collection into dir.
func SeedGroupMappings(t *testing.T, dir string, mappings ...models.SecurityGroupMapping) {
	seedCollection(t, dir, "group_mappings", mappings)
}

// SeedFeatureFlags writes a feature flag collection into dir.
func SeedFeatureFlags(t *testing.T, dir string, flags ...models.FeatureFlag) {
	seedCollection(t, dir, "feature_flags", flags)
}
