package file

import (
	"context"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
)

const (
	workflowsFile       = "workflows"
	overridesFile       = "overrides"
	teamsFile           = "teams"
	leadsFile           = "leads"
	usersFile           = "users"
	templatesFile       = "templates"
	groupMappingsFile   = "group_mappings"
	rolesFile           = "roles"
	featureFlagsFile    = "feature_flags"
	sharedTemplatesFile = "shared_templates"
)

type workflowRepository struct {
	store *store
}

func (r *workflowRepository) ByKey(_ context.Context, key models.WorkflowKey) (*models.WorkflowDefinition, error) {
	definitions, err := readCollection[models.WorkflowDefinition](r.store, workflowsFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByKey", "workflow", string(key), err)
	}

	for i := range definitions {
		if definitions[i].Key == key {
			return &definitions[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByKey", "workflow", string(key), persistence.ErrWorkflowNotFound)
}

func (r *workflowRepository) List(_ context.Context) ([]*models.WorkflowDefinition, error) {
	definitions, err := readCollection[models.WorkflowDefinition](r.store, workflowsFile)
	if err != nil {
		return nil, persistence.NewConfigError("List", "workflow", "", err)
	}

	result := make([]*models.WorkflowDefinition, 0, len(definitions))
	for i := range definitions {
		result = append(result, &definitions[i])
	}

	return result, nil
}

func (r *workflowRepository) Save(_ context.Context, definition *models.WorkflowDefinition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	definitions, err := readCollection[models.WorkflowDefinition](r.store, workflowsFile)
	if err != nil {
		return persistence.NewConfigError("Save", "workflow", definition.ID, err)
	}

	replaced := false

	for i := range definitions {
		if definitions[i].ID == definition.ID {
			definitions[i] = *definition
			replaced = true

			break
		}
	}

	if !replaced {
		definitions = append(definitions, *definition)
	}

	if err := writeCollection(r.store, workflowsFile, definitions); err != nil {
		return persistence.NewConfigError("Save", "workflow", definition.ID, err)
	}

	return nil
}

type overrideRepository struct {
	store *store
}

func (r *overrideRepository) ByProjectStep(_ context.Context, projectCode, stepID string) (*models.WorkflowStepOverride, error) {
	overrides, err := readCollection[models.WorkflowStepOverride](r.store, overridesFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByProjectStep", "override", projectCode+"/"+stepID, err)
	}

	for i := range overrides {
		if overrides[i].ProjectCode == projectCode && overrides[i].StepID == stepID {
			return &overrides[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByProjectStep", "override", projectCode+"/"+stepID, persistence.ErrOverrideNotFound)
}

func (r *overrideRepository) Save(_ context.Context, override *models.WorkflowStepOverride) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	overrides, err := readCollection[models.WorkflowStepOverride](r.store, overridesFile)
	if err != nil {
		return persistence.NewConfigError("Save", "override", override.ProjectCode+"/"+override.StepID, err)
	}

	replaced := false

	for i := range overrides {
		if overrides[i].ProjectCode == override.ProjectCode && overrides[i].StepID == override.StepID {
			overrides[i] = *override
			replaced = true

			break
		}
	}

	if !replaced {
		overrides = append(overrides, *override)
	}

	if err := writeCollection(r.store, overridesFile, overrides); err != nil {
		return persistence.NewConfigError("Save", "override", override.ProjectCode+"/"+override.StepID, err)
	}

	return nil
}

func (r *overrideRepository) Delete(_ context.Context, projectCode, stepID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	overrides, err := readCollection[models.WorkflowStepOverride](r.store, overridesFile)
	if err != nil {
		return persistence.NewConfigError("Delete", "override", projectCode+"/"+stepID, err)
	}

	kept := overrides[:0]

	for _, o := range overrides {
		if o.ProjectCode == projectCode && o.StepID == stepID {
			continue
		}

		kept = append(kept, o)
	}

	if err := writeCollection(r.store, overridesFile, kept); err != nil {
		return persistence.NewConfigError("Delete", "override", projectCode+"/"+stepID, err)
	}

	return nil
}

type teamRepository struct {
	store *store
}

func (r *teamRepository) MemberByRole(_ context.Context, projectCode, role string) (*models.ProjectTeamAssignment, error) {
	assignments, err := readCollection[models.ProjectTeamAssignment](r.store, teamsFile)
	if err != nil {
		return nil, persistence.NewConfigError("MemberByRole", "assignment", projectCode+"/"+role, err)
	}

	for i := range assignments {
		a := &assignments[i]
		if a.IsActive && a.ProjectCode == projectCode && a.AssignedRole == role {
			return a, nil
		}
	}

	return nil, persistence.NewConfigError("MemberByRole", "assignment", projectCode+"/"+role, persistence.ErrAssignmentNotFound)
}

func (r *teamRepository) Assignment(_ context.Context, userEmail, projectCode string) (*models.ProjectTeamAssignment, error) {
	assignments, err := readCollection[models.ProjectTeamAssignment](r.store, teamsFile)
	if err != nil {
		return nil, persistence.NewConfigError("Assignment", "assignment", userEmail+"/"+projectCode, err)
	}

	for i := range assignments {
		a := &assignments[i]
		if a.UserEmail == userEmail && a.ProjectCode == projectCode {
			return a, nil
		}
	}

	return nil, persistence.NewConfigError("Assignment", "assignment", userEmail+"/"+projectCode, persistence.ErrAssignmentNotFound)
}

func (r *teamRepository) AssignmentsByEmail(_ context.Context, userEmail string) ([]*models.ProjectTeamAssignment, error) {
	assignments, err := readCollection[models.ProjectTeamAssignment](r.store, teamsFile)
	if err != nil {
		return nil, persistence.NewConfigError("AssignmentsByEmail", "assignment", userEmail, err)
	}

	result := make([]*models.ProjectTeamAssignment, 0)

	for i := range assignments {
		if assignments[i].UserEmail == userEmail {
			result = append(result, &assignments[i])
		}
	}

	return result, nil
}

type leadRepository struct {
	store *store
}

func (r *leadRepository) ByProjectCode(_ context.Context, projectCode string) (*models.LeadRecord, error) {
	leads, err := readCollection[models.LeadRecord](r.store, leadsFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByProjectCode", "lead", projectCode, err)
	}

	for i := range leads {
		if leads[i].ProjectCode == projectCode {
			return &leads[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByProjectCode", "lead", projectCode, persistence.ErrLeadNotFound)
}

func (r *leadRepository) List(_ context.Context) ([]*models.LeadRecord, error) {
	leads, err := readCollection[models.LeadRecord](r.store, leadsFile)
	if err != nil {
		return nil, persistence.NewConfigError("List", "lead", "", err)
	}

	result := make([]*models.LeadRecord, 0, len(leads))
	for i := range leads {
		result = append(result, &leads[i])
	}

	return result, nil
}

type userRepository struct {
	store *store
}

func (r *userRepository) ByEmail(_ context.Context, email string) (*models.UserAccount, error) {
	users, err := readCollection[models.UserAccount](r.store, usersFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByEmail", "user", email, err)
	}

	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByEmail", "user", email, persistence.ErrUserNotFound)
}

type templateRepository struct {
	store *store
}

func (r *templateRepository) ByID(_ context.Context, id string) (*models.PermissionTemplate, error) {
	templates, err := readCollection[models.PermissionTemplate](r.store, templatesFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByID", "template", id, err)
	}

	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByID", "template", id, persistence.ErrTemplateNotFound)
}

func (r *templateRepository) Default(_ context.Context) (*models.PermissionTemplate, error) {
	templates, err := readCollection[models.PermissionTemplate](r.store, templatesFile)
	if err != nil {
		return nil, persistence.NewConfigError("Default", "template", "", err)
	}

	for i := range templates {
		if templates[i].IsDefault && templates[i].IsActive {
			return &templates[i], nil
		}
	}

	return nil, persistence.NewConfigError("Default", "template", "", persistence.ErrTemplateNotFound)
}

type groupMappingRepository struct {
	store *store
}

func (r *groupMappingRepository) ByGroup(_ context.Context, groupName string) (*models.SecurityGroupMapping, error) {
	mappings, err := readCollection[models.SecurityGroupMapping](r.store, groupMappingsFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByGroup", "group mapping", groupName, err)
	}

	for i := range mappings {
		if mappings[i].GroupName == groupName {
			return &mappings[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByGroup", "group mapping", groupName, persistence.ErrGroupMappingNotFound)
}

type roleRepository struct {
	store *store
}

func (r *roleRepository) ByID(_ context.Context, id string) (*models.RoleConfiguration, error) {
	roles, err := readCollection[models.RoleConfiguration](r.store, rolesFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByID", "role", id, err)
	}

	for i := range roles {
		if roles[i].ID == id {
			return &roles[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByID", "role", id, persistence.ErrRoleNotFound)
}

func (r *roleRepository) ByName(_ context.Context, roleName string) (*models.RoleConfiguration, error) {
	roles, err := readCollection[models.RoleConfiguration](r.store, rolesFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByName", "role", roleName, err)
	}

	for i := range roles {
		if roles[i].RoleName == roleName {
			return &roles[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByName", "role", roleName, persistence.ErrRoleNotFound)
}

func (r *roleRepository) ListActive(_ context.Context) ([]*models.RoleConfiguration, error) {
	roles, err := readCollection[models.RoleConfiguration](r.store, rolesFile)
	if err != nil {
		return nil, persistence.NewConfigError("ListActive", "role", "", err)
	}

	result := make([]*models.RoleConfiguration, 0)

	for i := range roles {
		if roles[i].IsActive {
			result = append(result, &roles[i])
		}
	}

	return result, nil
}

func (r *roleRepository) Save(_ context.Context, role *models.RoleConfiguration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	roles, err := readCollection[models.RoleConfiguration](r.store, rolesFile)
	if err != nil {
		return persistence.NewConfigError("Save", "role", role.ID, err)
	}

	replaced := false

	for i := range roles {
		if roles[i].ID == role.ID {
			roles[i] = *role
			replaced = true

			break
		}
	}

	if !replaced {
		roles = append(roles, *role)
	}

	if err := writeCollection(r.store, rolesFile, roles); err != nil {
		return persistence.NewConfigError("Save", "role", role.ID, err)
	}

	return nil
}

type featureFlagRepository struct {
	store *store
}

func (r *featureFlagRepository) ByName(_ context.Context, name string) (*models.FeatureFlag, error) {
	flags, err := readCollection[models.FeatureFlag](r.store, featureFlagsFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByName", "feature flag", name, err)
	}

	for i := range flags {
		if flags[i].Name == name {
			return &flags[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByName", "feature flag", name, persistence.ErrFlagNotFound)
}

type sharedTemplateRepository struct {
	store *store
}

func (r *sharedTemplateRepository) ByID(_ context.Context, id string) (*models.SharedTemplate, error) {
	templates, err := readCollection[models.SharedTemplate](r.store, sharedTemplatesFile)
	if err != nil {
		return nil, persistence.NewConfigError("ByID", "shared template", id, err)
	}

	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}

	return nil, persistence.NewConfigError("ByID", "shared template", id, persistence.ErrSharedTemplateNotFound)
}

func (r *sharedTemplateRepository) Save(_ context.Context, template *models.SharedTemplate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	templates, err := readCollection[models.SharedTemplate](r.store, sharedTemplatesFile)
	if err != nil {
		return persistence.NewConfigError("Save", "shared template", template.ID, err)
	}

	replaced := false

	for i := range templates {
		if templates[i].ID == template.ID {
			templates[i] = *template
			replaced = true

			break
		}
	}

	if !replaced {
		templates = append(templates, *template)
	}

	if err := writeCollection(r.store, sharedTemplatesFile, templates); err != nil {
		return persistence.NewConfigError("Save", "shared template", template.ID, err)
	}

	return nil
}
