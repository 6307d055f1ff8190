package services

import (
	"context"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/resolver"
)

// Permission exposes effective-permission resolution to the API layer.
type Permission struct {
	resolver *resolver.PermissionResolver
}

// NewPermission creates a permission service.
func NewPermission(permissionResolver *resolver.PermissionResolver) *Permission {
	return &Permission{resolver: permissionResolver}
}

// Resolve computes the effective permissions for a principal, optionally scoped
// to a project.
func (s *Permission) Resolve(ctx context.Context, principalEmail, projectCode string) (models.ResolvedPermissions, error) {
	return s.resolver.ResolvePermissions(ctx, principalEmail, projectCode)
}

// AccessibleProjects lists the project codes the principal may see.
func (s *Permission) AccessibleProjects(ctx context.Context, principalEmail string) ([]string, error) {
	return s.resolver.AccessibleProjects(ctx, principalEmail)
}

// CheckAccess reports whether the principal holds a specific permission on a
// project. Failing closed on resolution errors keeps a broken configuration
// from granting access.
func (s *Permission) CheckAccess(ctx context.Context, principalEmail, projectCode, permission string) bool {
	resolved, err := s.resolver.ResolvePermissions(ctx, principalEmail, projectCode)
	if err != nil {
		return false
	}

	return resolved.HasPermission(permission)
}
