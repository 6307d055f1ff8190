package models

import "time"

// SyncStatus is the lifecycle state of a shared template's registry sync.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
)

// SharedTemplate holds the sync-relevant fields of a shared template record.
// Content fields are validated against injection and domain-allowlist rules
// before any sync may run.
type SharedTemplate struct {
	ID              string     `json:"id"`
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description"`
	TemplateSiteURL string     `json:"template_site_url"`
	GitRepoURL      string     `json:"git_repo_url"`
	SyncStatus      SyncStatus `json:"sync_status"`
	Version         int        `json:"version"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	ModifiedAt      time.Time  `json:"modified_at"`
	ModifiedBy      string     `json:"modified_by"`
}

// SyncApproval records one approver's sign-off on a pending template sync. The
// quorum check counts distinct approver emails case-insensitively.
type SyncApproval struct {
	ApproverEmail string    `json:"approver_email" validate:"required,email"`
	ApprovedAt    time.Time `json:"approved_at"`
	Role          string    `json:"role"`
}
