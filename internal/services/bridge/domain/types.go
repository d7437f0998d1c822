// Package domain defines the request model for the asynchronous inference bridge
package domain

import (
	"encoding/json"
	"time"
)

// Kind discriminates the supported inference operations
type Kind string

// Supported request kinds, carried verbatim on the wire
const (
	KindUnderstandText   Kind = "UNDERSTAND_TEXT"
	KindClassifyEvent    Kind = "CLASSIFY_EVENT"
	KindOptimizeSchedule Kind = "OPTIMIZE_SCHEDULE"
)

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	switch k {
	case KindUnderstandText, KindClassifyEvent, KindOptimizeSchedule:
		return true
	}
	return false
}

// Payload is the variant part of a Request, selected by Kind
type Payload interface {
	Kind() Kind
}

// UnderstandTextPayload asks the inference service to parse free text
type UnderstandTextPayload struct {
	Input      string `json:"input"`
	IntentHint string `json:"intent_hint,omitempty"`
	Context    string `json:"context,omitempty"`
}

// Kind implements Payload
func (UnderstandTextPayload) Kind() Kind { return KindUnderstandText }

// ClassifyEventPayload asks for a life-area classification of one event
type ClassifyEventPayload struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
}

// Kind implements Payload
func (ClassifyEventPayload) Kind() Kind { return KindClassifyEvent }

// OptimizeSchedulePayload asks for a schedule rearrangement over a date range
type OptimizeSchedulePayload struct {
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	OptimizationType string          `json:"optimization_type"`
	Constraints      json.RawMessage `json:"constraints,omitempty"`
}

// Kind implements Payload
func (OptimizeSchedulePayload) Kind() Kind { return KindOptimizeSchedule }

// Request is the outbound tagged union shipped to the inference service
type Request struct {
	CorrelationID string
	Kind          Kind
	CallerID      string
	IssuedAt      time.Time
	Payload       Payload
}

// Status classifies an inbound reply
type Status string

// Reply statuses reported by the inference service
const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Response is the inbound reply envelope, result bytes are decoded per kind
type Response struct {
	CorrelationID string
	Status        Status
	Result        json.RawMessage
	ErrorMessage  string
}
