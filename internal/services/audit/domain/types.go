// Package domain defines audit records for finished inference calls
package domain

import "time"

// CallRecord is one terminal call outcome bound for columnar storage
type CallRecord struct {
	CorrelationID string
	Kind          string
	CallerID      string
	State         string
	IssuedAt      time.Time
	FinishedAt    time.Time
	ErrorMessage  string
}

// LatencyMs is the request to outcome latency in milliseconds
func (r CallRecord) LatencyMs() int64 {
	if r.FinishedAt.Before(r.IssuedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.IssuedAt).Milliseconds()
}

// RemoteError is one record from the inference service's error-log channel
type RemoteError struct {
	ReceivedAt time.Time
	Source     string
	Message    string
	Raw        string
}
