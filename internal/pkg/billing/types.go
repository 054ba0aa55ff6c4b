package billing

import "time"

// Payment processor event types the state machine understands. Anything else
// is acknowledged as an intentional no-op.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaymentSucceeded  = "invoice.payment_succeeded"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// Provider-side subscription status values, as reported by the processor.
const (
	ProviderStatusTrialing          = "trialing"
	ProviderStatusActive            = "active"
	ProviderStatusPastDue           = "past_due"
	ProviderStatusUnpaid            = "unpaid"
	ProviderStatusIncomplete        = "incomplete"
	ProviderStatusIncompleteExpired = "incomplete_expired"
	ProviderStatusCanceled          = "canceled"
	ProviderStatusEnded             = "ended"
)

// CheckoutModeSubscription is the only checkout mode that drives the state
// machine; one-off payment sessions are ignored.
const CheckoutModeSubscription = "subscription"

// PaymentEvent is the normalized shape of an inbound processor webhook.
// Delivery is at-least-once and unordered; every field the state machine
// needs is carried here so transitions never depend on stored state.
type PaymentEvent struct {
	ID   string
	Type string

	SubscriptionID string
	CustomerID     string

	// Checkout session fields.
	Mode       string
	PropertyID uint
	HostID     uint

	// Subscription object fields.
	ProviderStatus    string
	CancelAtPeriodEnd bool
	TrialEnd          *time.Time
	CanceledAt        *time.Time
	CurrentPeriodEnd  *time.Time
}

// ProviderSubscription is the authoritative subscription snapshot pulled from
// the processor during reconciliation.
type ProviderSubscription struct {
	ID                string
	CustomerID        string
	Status            string
	CancelAtPeriodEnd bool
	TrialEnd          *time.Time
	CanceledAt        *time.Time
	CurrentPeriodEnd  *time.Time
}

// WebhookEventInput is the normalized input for ledger persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// SyncResult is the reconciliation endpoint's response body.
type SyncResult struct {
	Synced  bool   `json:"synced"`
	Message string `json:"message"`
}
