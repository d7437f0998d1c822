package domain

import (
	"encoding/json"
	"time"
)

// SuggestedEvent is one calendar event proposed from free text
type SuggestedEvent struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location,omitempty"`
}

// EventUpdate is one mutation of an existing event proposed from free text
type EventUpdate struct {
	EventID   string     `json:"event_id"`
	Title     string     `json:"title,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// UnderstandTextResult is the typed reply for KindUnderstandText
type UnderstandTextResult struct {
	SuggestedEvents []SuggestedEvent `json:"suggested_events,omitempty"`
	EventUpdates    []EventUpdate    `json:"event_updates,omitempty"`
	Confidence      float64          `json:"confidence"`
}

// ClassifyEventResult is the typed reply for KindClassifyEvent
type ClassifyEventResult struct {
	EventID       string   `json:"event_id,omitempty"`
	Label         string   `json:"label"`
	Confidence    float64  `json:"confidence"`
	SuggestedTags []string `json:"suggested_tags,omitempty"`
	BalanceImpact string   `json:"balance_impact,omitempty"`
}

// ProposedChange is one slot move suggested by the optimizer
type ProposedChange struct {
	EventID      string    `json:"event_id"`
	NewStartTime time.Time `json:"new_start_time"`
	NewEndTime   time.Time `json:"new_end_time"`
	Reason       string    `json:"reason,omitempty"`
}

// OptimizeScheduleResult is the typed reply for KindOptimizeSchedule
type OptimizeScheduleResult struct {
	ProposedChanges   []ProposedChange   `json:"proposed_changes,omitempty"`
	OptimizationScore float64            `json:"optimization_score"`
	BalanceScores     map[string]float64 `json:"balance_scores,omitempty"`
}

// RawResult keeps undecoded result bytes available to hooks and logs
type RawResult = json.RawMessage
