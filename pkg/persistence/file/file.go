// Package file provides a file-based persistence implementation backed by one
// JSON document per collection.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/RMF112018/project-controls/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	store *store

	workflows       *workflowRepository
	overrides       *overrideRepository
	teams           *teamRepository
	leads           *leadRepository
	users           *userRepository
	templates       *templateRepository
	groupMappings   *groupMappingRepository
	roles           *roleRepository
	featureFlags    *featureFlagRepository
	sharedTemplates *sharedTemplateRepository
}

// NewPersistence creates a file persistence rooted at the given directory. The
// root may carry a file:// scheme prefix.
func NewPersistence(root string) *Persistence {
	s := &store{root: strings.Replace(root, "file://", "", 1)}

	return &Persistence{
		store:           s,
		workflows:       &workflowRepository{store: s},
		overrides:       &overrideRepository{store: s},
		teams:           &teamRepository{store: s},
		leads:           &leadRepository{store: s},
		users:           &userRepository{store: s},
		templates:       &templateRepository{store: s},
		groupMappings:   &groupMappingRepository{store: s},
		roles:           &roleRepository{store: s},
		featureFlags:    &featureFlagRepository{store: s},
		sharedTemplates: &sharedTemplateRepository{store: s},
	}
}

func (p *Persistence) Workflows() persistence.WorkflowRepository             { return p.workflows }
func (p *Persistence) Overrides() persistence.OverrideRepository             { return p.overrides }
func (p *Persistence) Teams() persistence.TeamRepository                     { return p.teams }
func (p *Persistence) Leads() persistence.LeadRepository                     { return p.leads }
func (p *Persistence) Users() persistence.UserRepository                     { return p.users }
func (p *Persistence) Templates() persistence.TemplateRepository             { return p.templates }
func (p *Persistence) GroupMappings() persistence.GroupMappingRepository     { return p.groupMappings }
func (p *Persistence) Roles() persistence.RoleRepository                     { return p.roles }
func (p *Persistence) FeatureFlags() persistence.FeatureFlagRepository       { return p.featureFlags }
func (p *Persistence) SharedTemplates() persistence.SharedTemplateRepository { return p.sharedTemplates }

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.store.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. Nothing to release for files.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// store serializes collection reads and writes. Writes are whole-document, so a
// single mutex keeps concurrent Save calls from interleaving partial files.
type store struct {
	root string
	mu   sync.Mutex
}

func readCollection[T any](s *store, name string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", name, err)
	}

	return items, nil
}

func writeCollection[T any](s *store, name string, items []T) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create root directory: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(s.root, name+".json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}

	return nil
}
