// Package domain defines the caller-facing inputs of the assist service
package domain

import (
	"encoding/json"
	"time"

	bdom "geulpi/internal/services/bridge/domain"
)

// UnderstandTextInput carries one free-text understanding request
type UnderstandTextInput struct {
	UserID     string
	Input      string
	IntentHint string
	Context    string
}

// ClassifyEventInput carries one event classification request
type ClassifyEventInput struct {
	UserID      string
	EventID     string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Attendees   []string
}

// OptimizeScheduleInput carries one schedule optimization request
type OptimizeScheduleInput struct {
	UserID           string
	StartDate        time.Time
	EndDate          time.Time
	OptimizationType string
	Constraints      json.RawMessage
}

// Result aliases keep callers off the bridge package
type (
	// UnderstandTextResult is the typed free-text outcome
	UnderstandTextResult = bdom.UnderstandTextResult

	// ClassifyEventResult is the typed classification outcome
	ClassifyEventResult = bdom.ClassifyEventResult

	// OptimizeScheduleResult is the typed optimization outcome
	OptimizeScheduleResult = bdom.OptimizeScheduleResult
)
