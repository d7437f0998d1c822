// Package http exposes the assist operations over JSON endpoints
package http

import (
	"encoding/json"
	stdhttp "net/http"
	"time"

	"geulpi/internal/modkit/httpkit"
	perr "geulpi/internal/platform/errors"
	dom "geulpi/internal/services/assist/domain"
)

// Handlers mounts assist endpoints over the assist port
type Handlers struct {
	svc dom.AssistPort
}

// NewHandlers binds handlers to a service
func NewHandlers(svc dom.AssistPort) *Handlers { return &Handlers{svc: svc} }

// userID pulls the authenticated user id the edge proxy injects
func userID(r *stdhttp.Request) (string, error) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return "", perr.InvalidArgf("missing X-User-ID header")
	}
	return id, nil
}

type understandTextReq struct {
	Input      string `json:"input"       validate:"required"`
	IntentHint string `json:"intent_hint" validate:"omitempty,max=128"`
	Context    string `json:"context"     validate:"omitempty,max=2048"`
}

type classifyEventReq struct {
	EventID     string    `json:"event_id"    validate:"required"`
	Title       string    `json:"title"       validate:"required,max=512"`
	Description string    `json:"description" validate:"omitempty,max=4096"`
	StartTime   time.Time `json:"start_time"  validate:"required"`
	EndTime     time.Time `json:"end_time"    validate:"required"`
	Location    string    `json:"location"    validate:"omitempty,max=512"`
	Attendees   []string  `json:"attendees"   validate:"omitempty,max=100,dive,max=256"`
}

type optimizeScheduleReq struct {
	StartDate        time.Time       `json:"start_date"        validate:"required"`
	EndDate          time.Time       `json:"end_date"          validate:"required"`
	OptimizationType string          `json:"optimization_type" validate:"required,oneof=BALANCE FOCUS COMPRESS"`
	Constraints      json.RawMessage `json:"constraints"       validate:"omitempty"`
}

// Register attaches assist endpoints to the router
func (h *Handlers) Register(r httpkit.Router) {
	httpkit.PostJSON(r, "/understand", h.understandText)
	httpkit.PostJSON(r, "/classify", h.classifyEvent)
	httpkit.PostJSON(r, "/optimize", h.optimizeSchedule)
}

func (h *Handlers) understandText(r *stdhttp.Request, in understandTextReq) (any, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UnderstandText(r.Context(), dom.UnderstandTextInput{
		UserID:     uid,
		Input:      in.Input,
		IntentHint: in.IntentHint,
		Context:    in.Context,
	})
}

func (h *Handlers) classifyEvent(r *stdhttp.Request, in classifyEventReq) (any, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ClassifyEvent(r.Context(), dom.ClassifyEventInput{
		UserID:      uid,
		EventID:     in.EventID,
		Title:       in.Title,
		Description: in.Description,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Location:    in.Location,
		Attendees:   in.Attendees,
	})
}

func (h *Handlers) optimizeSchedule(r *stdhttp.Request, in optimizeScheduleReq) (any, error) {
	uid, err := userID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.OptimizeSchedule(r.Context(), dom.OptimizeScheduleInput{
		UserID:           uid,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		OptimizationType: in.OptimizationType,
		Constraints:      in.Constraints,
	})
}
