// Package domain defines caller identity types consulted before dispatch
package domain

import "time"

// CallerContext is the read-only identity attached to outgoing requests
type CallerContext struct {
	UserID      string
	Email       string
	DisplayName string
	Timezone    string
	CreatedAt   time.Time
}
