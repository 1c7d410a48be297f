// Package queue defines the messages this service publishes to the broker
// and the publishers that deliver them. Nothing in this service consumes them.
package queue

const (
	PasswordResetQueue     = "auth.password_reset"
	CatalogDivergenceQueue = "catalog.divergence"
)

// Message is a broker payload that knows its destination queue.
type Message interface {
	QueueName() string
}

// PasswordResetRequested asks the mailer to send a reset link.
type PasswordResetRequested struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ResetURL  string `json:"reset_url"`
	ExpiresAt string `json:"expires_at"`
}

func (PasswordResetRequested) QueueName() string { return PasswordResetQueue }

// CatalogDivergence records a local catalog write whose hosted counterpart
// failed. The local and hosted stores disagree until someone reconciles them.
type CatalogDivergence struct {
	Op         string `json:"op"` // "create" or "delete"
	EventID    string `json:"event_id"`
	Title      string `json:"title,omitempty"`
	Reason     string `json:"reason"`
	OccurredAt string `json:"occurred_at"`
}

func (CatalogDivergence) QueueName() string { return CatalogDivergenceQueue }
