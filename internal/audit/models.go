// Package audit emits the fire-and-forget notifications observable by
// external monitors: actor registration, record lifecycle, config changes.
package audit

import (
	"time"

	"medgate/pkg/domain"
)

// EventCategory classifies events by their primary purpose, enabling
// different retention and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// registry changes, fund releases, configuration changes.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine lifecycle visibility: record
	// requests and fulfillments.
	CategoryOperations EventCategory = "operations"
)

// Action names the thing that happened.
type Action string

const (
	ActionActorAdded      Action = "actor_added"
	ActionActorRemoved    Action = "actor_removed"
	ActionRecordRequested Action = "record_requested"
	ActionRecordFulfilled Action = "record_fulfilled"
	ActionFundsReleased   Action = "funds_released"
	ActionConfigUpdated   Action = "config_updated"
)

// Event is emitted from domain logic. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	ID        string            `json:"id"`
	Category  EventCategory     `json:"category"`
	Action    Action            `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     domain.Account    `json:"actor"`
	Subject   string            `json:"subject,omitempty"`
	ReportID  domain.ReportID   `json:"report_id,omitempty"`
	Amount    int64             `json:"amount,omitempty"`
	Details   map[string]string `json:"details,omitempty"`

	// Request correlation, filled from context by the publisher.
	RequestID string `json:"request_id,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
}

// categoryByAction maps each action to its category.
var categoryByAction = map[Action]EventCategory{
	ActionActorAdded:      CategoryCompliance,
	ActionActorRemoved:    CategoryCompliance,
	ActionRecordRequested: CategoryOperations,
	ActionRecordFulfilled: CategoryOperations,
	ActionFundsReleased:   CategoryCompliance,
	ActionConfigUpdated:   CategoryCompliance,
}

// CategoryOf returns the category for an action, defaulting to operations.
func CategoryOf(action Action) EventCategory {
	if c, ok := categoryByAction[action]; ok {
		return c
	}
	return CategoryOperations
}
