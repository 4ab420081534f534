package transfer

import "time"

// SubscriptionEvent is the payment provider's webhook payload, reduced to the
// fields the subscription gate reads.
type SubscriptionEvent struct {
	ID        string `json:"id"`
	EventType string `json:"eventType"`
	Object    struct {
		ID                   string    `json:"id"`
		Status               string    `json:"status"`
		CurrentPeriodEndDate time.Time `json:"current_period_end_date"`
		Customer             struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"customer"`
	} `json:"object"`
}
