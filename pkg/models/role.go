package models

import "time"

// RoleConfiguration is an administrator-defined role with its default permission
// grants. IsSystem roles are immutable to callers: update paths discard attempts
// to flip the flag, and system roles cannot be soft-deleted.
type RoleConfiguration struct {
	ID                 string    `json:"id"`
	RoleName           string    `json:"role_name"    validate:"required"`
	DisplayName        string    `json:"display_name" validate:"required"`
	Description        string    `json:"description"`
	DefaultPermissions []string  `json:"default_permissions"`
	IsSystem           bool      `json:"is_system"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedBy          string    `json:"created_by"`
	ModifiedAt         time.Time `json:"modified_at"`
	ModifiedBy         string    `json:"modified_by"`
}
