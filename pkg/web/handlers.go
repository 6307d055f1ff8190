package web

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/services"
)

type APIHandlers struct {
	workflowService   *services.Workflow
	permissionService *services.Permission
	roleService       *services.Role
	templateService   *services.Template
	validator         *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	permissionService *services.Permission,
	roleService *services.Role,
	templateService *services.Template,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService:   workflowService,
		permissionService: permissionService,
		roleService:       roleService,
		templateService:   templateService,
		validator:         validator,
	}
}

// ResolveWorkflowSteps returns the resolved assignee chain for a workflow and
// project. Unknown workflow keys resolve to an empty chain, not an error.
func (h *APIHandlers) ResolveWorkflowSteps(c fiber.Ctx) error {
	key := models.WorkflowKey(c.Params("key"))

	projectCode := c.Query("project")
	if projectCode == "" {
		return badRequest(c, "query parameter 'project' is required")
	}

	steps, err := h.workflowService.ResolveSteps(c.Context(), key, projectCode)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflow_key": key,
		"project_code": projectCode,
		"steps":        steps,
	})
}

// ImportWorkflowDefinition validates and stores a workflow definition document.
func (h *APIHandlers) ImportWorkflowDefinition(c fiber.Ctx) error {
	actor := c.Query("actor")
	if actor == "" {
		return badRequest(c, "query parameter 'actor' is required")
	}

	definition, err := h.workflowService.ImportDefinition(c.Context(), c.Body(), actor)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(definition)
}

// SetOverride pins a step assignee for one project.
func (h *APIHandlers) SetOverride(c fiber.Ctx) error {
	var req SetOverrideRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	override, err := h.workflowService.SetOverride(c.Context(), services.SetOverrideRequest{
		ProjectCode: req.ProjectCode,
		StepID:      req.StepID,
		Assignee:    req.Assignee,
		Reason:      req.Reason,
		Actor:       req.Actor,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(override)
}

// RemoveOverride deletes a step assignee pin.
func (h *APIHandlers) RemoveOverride(c fiber.Ctx) error {
	actor := c.Query("actor")
	if actor == "" {
		return badRequest(c, "query parameter 'actor' is required")
	}

	err := h.workflowService.RemoveOverride(c.Context(), c.Params("projectCode"), c.Params("stepId"), actor)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ResolvePermissions returns the effective permission set for a principal.
func (h *APIHandlers) ResolvePermissions(c fiber.Ctx) error {
	resolved, err := h.permissionService.Resolve(c.Context(), c.Params("email"), c.Query("project"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(resolved)
}

// AccessibleProjects lists the projects a principal may see.
func (h *APIHandlers) AccessibleProjects(c fiber.Ctx) error {
	projects, err := h.permissionService.AccessibleProjects(c.Context(), c.Params("email"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"projects": projects})
}

// ListRoles returns the active role configurations.
func (h *APIHandlers) ListRoles(c fiber.Ctx) error {
	roles, err := h.roleService.ListActive(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"roles": roles})
}

// GetRole returns one role configuration, soft-deleted or not.
func (h *APIHandlers) GetRole(c fiber.Ctx) error {
	role, err := h.roleService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(role)
}

// CreateRole creates a role configuration behind the escalation guard.
func (h *APIHandlers) CreateRole(c fiber.Ctx) error {
	var req CreateRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	role, err := h.roleService.Create(c.Context(), services.CreateRoleRequest{
		RoleName:           req.RoleName,
		DisplayName:        req.DisplayName,
		Description:        req.Description,
		DefaultPermissions: req.DefaultPermissions,
		Actor:              req.Actor,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// UpdateRole applies the allow-listed mutable fields of a role.
func (h *APIHandlers) UpdateRole(c fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	role, err := h.roleService.Update(c.Context(), c.Params("id"), services.UpdateRoleRequest{
		DisplayName:        req.DisplayName,
		Description:        req.Description,
		DefaultPermissions: req.DefaultPermissions,
		Actor:              req.Actor,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(role)
}

// DeactivateRole soft-deletes a role configuration.
func (h *APIHandlers) DeactivateRole(c fiber.Ctx) error {
	actor := c.Query("actor")
	if actor == "" {
		return badRequest(c, "query parameter 'actor' is required")
	}

	if err := h.roleService.Deactivate(c.Context(), c.Params("id"), actor); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTemplate returns a shared template record.
func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	template, err := h.templateService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

// SyncTemplate runs the guarded sync for a shared template.
func (h *APIHandlers) SyncTemplate(c fiber.Ctx) error {
	var req SyncTemplateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.templateService.Sync(c.Context(), c.Params("id"), req.Actor, req.ToApprovals()); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"template_id": c.Params("id"),
		"synced_at":   time.Now().UTC(),
	})
}

// HealthCheck reports persistence health.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	message, healthy := h.workflowService.HealthCheck(c.Context())
	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": message})
	}

	return c.JSON(fiber.Map{"status": message})
}
