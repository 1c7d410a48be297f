package model

import "time"

type VerificationStatus string

const (
	VerificationUnsubmitted VerificationStatus = "UNSUBMITTED"
	VerificationPending     VerificationStatus = "PENDING"
	VerificationVerified    VerificationStatus = "VERIFIED"
	VerificationRejected    VerificationStatus = "REJECTED"
)

// OrganizerProfile is the organizer-facing account state. Balance and NIF
// are mocked; there is no ledger behind them.
type OrganizerProfile struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	IsSubscribed       bool                   `json:"is_subscribed"`
	SubscriptionPlanID string                 `json:"subscription_plan_id,omitempty"`
	SubscriptionExpiry *time.Time             `json:"subscription_expiry,omitempty"`
	VerificationStatus VerificationStatus     `json:"verification_status"`
	Balance            int64                  `json:"balance"`
	Documents          []VerificationDocument `json:"documents"`
	NIF                string                 `json:"nif"`
	Category           string                 `json:"category"`
}

// ActiveAt reports whether the subscription is in force at t.
func (p OrganizerProfile) ActiveAt(t time.Time) bool {
	if !p.IsSubscribed {
		return false
	}
	return p.SubscriptionExpiry == nil || t.Before(*p.SubscriptionExpiry)
}

type VerificationDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	UploadDate string `json:"upload_date"`
	Status     string `json:"status"`
}

type FinancialTransaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Type        string `json:"type"` // CREDIT or DEBIT
	Status      string `json:"status"`
}

// ChartPoint is one labelled value of a dashboard series.
type ChartPoint struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
