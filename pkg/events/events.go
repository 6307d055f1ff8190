// Package events defines the audit events emitted after guarded mutations.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every audit event.
const Topic = "governance.audit"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Role configuration lifecycle.
	RoleCreatedEvent     EventType = "role.created"
	RoleUpdatedEvent     EventType = "role.updated"
	RoleDeactivatedEvent EventType = "role.deactivated"

	// Workflow override lifecycle.
	OverrideSetEvent     EventType = "workflow.override.set"
	OverrideRemovedEvent EventType = "workflow.override.removed"

	// Template sync outcomes.
	TemplateSyncSucceededEvent EventType = "template.sync.succeeded"
	TemplateSyncFailedEvent    EventType = "template.sync.failed"
)

// BaseEvent carries the audit payload shared by every event: who acted on what,
// with before/after snapshots and a correlation id for end-to-end tracing.
type BaseEvent struct {
	ID            string         `json:"id"`
	Type          EventType      `json:"type"`
	Timestamp     time.Time      `json:"timestamp"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	Actor         string         `json:"actor"`
	CorrelationID string         `json:"correlation_id"`
	Before        map[string]any `json:"before,omitempty"`
	After         map[string]any `json:"after,omitempty"`
}

// NewBaseEvent stamps a fresh audit event with id, correlation id, and time.
func NewBaseEvent(eventType EventType, entityType, entityID, actor string) BaseEvent {
	return BaseEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		Timestamp:     time.Now().UTC(),
		EntityType:    entityType,
		EntityID:      entityID,
		Actor:         actor,
		CorrelationID: uuid.NewString(),
	}
}

type RoleCreated struct {
	BaseEvent
}

func (e RoleCreated) GetType() EventType { return RoleCreatedEvent }

type RoleUpdated struct {
	BaseEvent
}

func (e RoleUpdated) GetType() EventType { return RoleUpdatedEvent }

type RoleDeactivated struct {
	BaseEvent
}

func (e RoleDeactivated) GetType() EventType { return RoleDeactivatedEvent }

type OverrideSet struct {
	BaseEvent

	Reason string `json:"reason,omitempty"`
}

func (e OverrideSet) GetType() EventType { return OverrideSetEvent }

type OverrideRemoved struct {
	BaseEvent
}

func (e OverrideRemoved) GetType() EventType { return OverrideRemovedEvent }

type TemplateSyncSucceeded struct {
	BaseEvent

	Approvers []string `json:"approvers"`
}

func (e TemplateSyncSucceeded) GetType() EventType { return TemplateSyncSucceededEvent }

type TemplateSyncFailed struct {
	BaseEvent

	Reason string `json:"reason"`
}

func (e TemplateSyncFailed) GetType() EventType { return TemplateSyncFailedEvent }
