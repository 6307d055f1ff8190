package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/persistence"
)

// PermissionResolver computes a principal's effective permission set from the
// layered configuration: security-group default template, per-project template
// override, per-assignment granular flag grants. Resolution is deterministic for
// a given configuration snapshot and never mutates configuration.
type PermissionResolver struct {
	persistence persistence.Persistence
	logger      *slog.Logger
}

// NewPermissionResolver creates a permission resolver.
func NewPermissionResolver(p persistence.Persistence, logger *slog.Logger) *PermissionResolver {
	return &PermissionResolver{persistence: p, logger: logger}
}

// ResolvePermissions resolves the effective permissions for a principal,
// optionally scoped to a project. Unknown principals and misconfigured template
// ids fail closed to an empty permission set; they never produce an error.
func (r *PermissionResolver) ResolvePermissions(ctx context.Context, principalEmail, projectCode string) (models.ResolvedPermissions, error) {
	result := models.ResolvedPermissions{
		PrincipalEmail: principalEmail,
		ProjectCode:    projectCode,
		Source:         models.SourceSecurityGroupDefault,
		ToolLevels:     map[string]models.AccessLevel{},
		ToolFlags:      map[string][]string{},
		Permissions:    []string{},
	}

	templateID, err := r.groupDefaultTemplateID(ctx, principalEmail)
	if err != nil {
		return result, err
	}

	var assignment *models.ProjectTeamAssignment

	if projectCode != "" {
		assignment, err = r.activeAssignment(ctx, principalEmail, projectCode)
		if err != nil {
			return result, err
		}

		if assignment != nil && assignment.TemplateOverrideID != "" {
			templateID = assignment.TemplateOverrideID
			result.Source = models.SourceProjectOverride
		} else if assignment != nil && len(assignment.GranularFlagOverrides) > 0 {
			// The group template wins, but the assignment itself contributes
			// granular grants.
			result.Source = models.SourceDirectAssignment
		}
	}

	if templateID == "" {
		// No mapping and no built-in default: a well-formed empty result.
		return result, nil
	}

	template, err := r.persistence.Templates().ByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, persistence.ErrTemplateNotFound) {
			// A dangling template id must never crash a permission check; it
			// fails closed to "no access".
			r.logger.WarnContext(ctx, "winning permission template missing",
				"principal", principalEmail, "template_id", templateID)

			return result, nil
		}

		return result, fmt.Errorf("failed to load permission template %s: %w", templateID, err)
	}

	toolAccess := mergeGranularFlags(template.ToolAccess, assignment)

	result.TemplateID = template.ID
	result.TemplateName = template.Name
	result.GlobalAccess = template.GlobalAccess

	for _, ta := range toolAccess {
		result.ToolLevels[ta.ToolKey] = ta.Level
		result.ToolFlags[ta.ToolKey] = ta.GranularFlags
		result.Permissions = append(result.Permissions, flatten(ta)...)
	}

	sort.Strings(result.Permissions)

	return result, nil
}

// AccessibleProjects returns the project codes the principal may see: every
// known lead when the winning template grants global access, otherwise only
// projects with an active team assignment.
func (r *PermissionResolver) AccessibleProjects(ctx context.Context, principalEmail string) ([]string, error) {
	resolved, err := r.ResolvePermissions(ctx, principalEmail, "")
	if err != nil {
		return nil, err
	}

	if resolved.GlobalAccess {
		leads, err := r.persistence.Leads().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list leads: %w", err)
		}

		codes := make([]string, 0, len(leads))
		for _, lead := range leads {
			codes = append(codes, lead.ProjectCode)
		}

		sort.Strings(codes)

		return codes, nil
	}

	assignments, err := r.persistence.Teams().AssignmentsByEmail(ctx, principalEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for %s: %w", principalEmail, err)
	}

	codes := make([]string, 0, len(assignments))

	for _, a := range assignments {
		if a.IsActive {
			codes = append(codes, a.ProjectCode)
		}
	}

	sort.Strings(codes)

	return codes, nil
}

// groupDefaultTemplateID walks principal -> security group -> default template.
// Any broken link falls back to the built-in lowest-privilege default template.
func (r *PermissionResolver) groupDefaultTemplateID(ctx context.Context, principalEmail string) (string, error) {
	user, err := r.persistence.Users().ByEmail(ctx, principalEmail)
	if err != nil && !errors.Is(err, persistence.ErrUserNotFound) {
		return "", fmt.Errorf("failed to load user %s: %w", principalEmail, err)
	}

	if user != nil && user.SecurityGroup != "" {
		mapping, err := r.persistence.GroupMappings().ByGroup(ctx, user.SecurityGroup)
		if err != nil && !errors.Is(err, persistence.ErrGroupMappingNotFound) {
			return "", fmt.Errorf("failed to load group mapping %s: %w", user.SecurityGroup, err)
		}

		if mapping != nil && mapping.IsActive {
			return mapping.DefaultTemplateID, nil
		}
	}

	fallback, err := r.persistence.Templates().Default(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrTemplateNotFound) {
			return "", nil
		}

		return "", fmt.Errorf("failed to load default template: %w", err)
	}

	return fallback.ID, nil
}

func (r *PermissionResolver) activeAssignment(ctx context.Context, principalEmail, projectCode string) (*models.ProjectTeamAssignment, error) {
	assignment, err := r.persistence.Teams().Assignment(ctx, principalEmail, projectCode)
	if err != nil {
		if errors.Is(err, persistence.ErrAssignmentNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load assignment for %s on %s: %w", principalEmail, projectCode, err)
	}

	if !assignment.IsActive {
		return nil, nil
	}

	return assignment, nil
}

// mergeGranularFlags appends the assignment's flag grants onto the matching tool
// entries of the winning template. Grants merge, they never replace.
func mergeGranularFlags(toolAccess []models.ToolAccess, assignment *models.ProjectTeamAssignment) []models.ToolAccess {
	merged := make([]models.ToolAccess, len(toolAccess))

	for i, ta := range toolAccess {
		merged[i] = ta
		merged[i].GranularFlags = append([]string(nil), ta.GranularFlags...)
	}

	if assignment == nil {
		return merged
	}

	for _, grant := range assignment.GranularFlagOverrides {
		for i := range merged {
			if merged[i].ToolKey != grant.ToolKey {
				continue
			}

			for _, flag := range grant.Flags {
				if !contains(merged[i].GranularFlags, flag) {
					merged[i].GranularFlags = append(merged[i].GranularFlags, flag)
				}
			}
		}
	}

	return merged
}

// flatten expands one tool access entry into permission strings. Levels are
// cumulative: STANDARD implies read, ADMIN implies read and write. Granular
// flags flatten alongside the level grants.
func flatten(ta models.ToolAccess) []string {
	var perms []string

	switch ta.Level {
	case models.AccessReadOnly:
		perms = append(perms, ta.ToolKey+":read")
	case models.AccessStandard:
		perms = append(perms, ta.ToolKey+":read", ta.ToolKey+":write")
	case models.AccessAdmin:
		perms = append(perms, ta.ToolKey+":read", ta.ToolKey+":write", ta.ToolKey+":admin")
	case models.AccessNone:
	}

	for _, flag := range ta.GranularFlags {
		perms = append(perms, ta.ToolKey+":"+flag)
	}

	return perms
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}

	return false
}
