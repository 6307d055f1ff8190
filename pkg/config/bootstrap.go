// Package config provides bootstrap configuration loading for the governance
// engine. A bootstrap file seeds the writable collections (roles, shared
// templates) on first start of a fresh environment.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
)

// BootstrapFile is the structure of the bootstrap YAML document.
type BootstrapFile struct {
	Roles           []RoleSeed           `yaml:"roles"`
	SharedTemplates []SharedTemplateSeed `yaml:"shared_templates"`
}

// RoleSeed declares one role configuration to create at bootstrap.
type RoleSeed struct {
	RoleName           string   `yaml:"role_name"`
	DisplayName        string   `yaml:"display_name"`
	Description        string   `yaml:"description"`
	DefaultPermissions []string `yaml:"default_permissions"`
	IsSystem           bool     `yaml:"is_system"`
}

// SharedTemplateSeed declares one shared template record to create at bootstrap.
type SharedTemplateSeed struct {
	ID              string `yaml:"id"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	TemplateSiteURL string `yaml:"template_site_url"`
	GitRepoURL      string `yaml:"git_repo_url"`
}

// LoadBootstrap parses a bootstrap YAML file.
func LoadBootstrap(path string) (*BootstrapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap file %s: %w", path, err)
	}

	var file BootstrapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bootstrap YAML: %w", err)
	}

	return &file, nil
}

// Apply writes the declared entities into persistence. Roles that already exist
// by name are left untouched so a bootstrap file can be applied repeatedly.
func (f *BootstrapFile) Apply(ctx context.Context, p persistence.Persistence, actor string) error {
	now := time.Now().UTC()

	for _, seed := range f.Roles {
		if _, err := p.Roles().ByName(ctx, seed.RoleName); err == nil {
			continue
		}

		role := &models.RoleConfiguration{
			ID:                 uuid.NewString(),
			RoleName:           seed.RoleName,
			DisplayName:        seed.DisplayName,
			Description:        seed.Description,
			DefaultPermissions: seed.DefaultPermissions,
			IsSystem:           seed.IsSystem,
			IsActive:           true,
			CreatedAt:          now,
			CreatedBy:          actor,
			ModifiedAt:         now,
			ModifiedBy:         actor,
		}

		if err := p.Roles().Save(ctx, role); err != nil {
			return fmt.Errorf("failed to bootstrap role %s: %w", seed.RoleName, err)
		}
	}

	for _, seed := range f.SharedTemplates {
		if _, err := p.SharedTemplates().ByID(ctx, seed.ID); err == nil {
			continue
		}

		template := &models.SharedTemplate{
			ID:              seed.ID,
			Title:           seed.Title,
			Description:     seed.Description,
			TemplateSiteURL: seed.TemplateSiteURL,
			GitRepoURL:      seed.GitRepoURL,
			SyncStatus:      models.SyncIdle,
			Version:         1,
			ModifiedAt:      now,
			ModifiedBy:      actor,
		}

		if err := p.SharedTemplates().Save(ctx, template); err != nil {
			return fmt.Errorf("failed to bootstrap shared template %s: %w", seed.ID, err)
		}
	}

	return nil
}
