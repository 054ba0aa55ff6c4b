package billing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// stripeEvent mirrors the envelope the processor posts: the payload object
// lives under data.object and its shape depends on the event type.
type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID           string            `json:"id"`
	Mode         string            `json:"mode"`
	Customer     string            `json:"customer"`
	Subscription string            `json:"subscription"`
	Metadata     map[string]string `json:"metadata"`
}

type subscriptionObject struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	TrialEnd          *int64 `json:"trial_end"`
	CanceledAt        *int64 `json:"canceled_at"`
	CurrentPeriodEnd  *int64 `json:"current_period_end"`
}

type invoiceObject struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
}

// ParsePaymentEvent normalizes a raw webhook body into a PaymentEvent. Only
// the envelope must parse; a payload object missing optional fields yields
// zero values, never an error. Unknown event types parse fine and are
// no-op'd downstream.
func ParsePaymentEvent(raw []byte) (PaymentEvent, error) {
	var env stripeEvent
	if err := json.Unmarshal(raw, &env); err != nil {
		return PaymentEvent{}, fmt.Errorf("parse webhook envelope: %w", err)
	}

	evt := PaymentEvent{ID: env.ID, Type: strings.TrimSpace(env.Type)}
	if len(env.Data.Object) == 0 {
		return evt, nil
	}

	switch evt.Type {
	case EventCheckoutSessionCompleted:
		var obj checkoutSessionObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil {
			return PaymentEvent{}, fmt.Errorf("parse checkout session: %w", err)
		}
		evt.Mode = obj.Mode
		evt.CustomerID = obj.Customer
		evt.SubscriptionID = obj.Subscription
		evt.PropertyID = parseMetadataID(obj.Metadata, "property_id")
		evt.HostID = parseMetadataID(obj.Metadata, "host_id")

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var obj subscriptionObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil {
			return PaymentEvent{}, fmt.Errorf("parse subscription: %w", err)
		}
		evt.SubscriptionID = obj.ID
		evt.CustomerID = obj.Customer
		evt.ProviderStatus = obj.Status
		evt.CancelAtPeriodEnd = obj.CancelAtPeriodEnd
		evt.TrialEnd = unixTime(obj.TrialEnd)
		evt.CanceledAt = unixTime(obj.CanceledAt)
		evt.CurrentPeriodEnd = unixTime(obj.CurrentPeriodEnd)

	case EventInvoicePaymentSucceeded, EventInvoicePaymentFailed:
		var obj invoiceObject
		if err := json.Unmarshal(env.Data.Object, &obj); err != nil {
			return PaymentEvent{}, fmt.Errorf("parse invoice: %w", err)
		}
		evt.SubscriptionID = obj.Subscription
		evt.CustomerID = obj.Customer
	}

	return evt, nil
}

// ProviderSubscriptionState projects the subscription fields of an event
// into the snapshot shape shared with the reconciliation path.
func (e PaymentEvent) ProviderSubscriptionState() ProviderSubscription {
	return ProviderSubscription{
		ID:                e.SubscriptionID,
		CustomerID:        e.CustomerID,
		Status:            e.ProviderStatus,
		CancelAtPeriodEnd: e.CancelAtPeriodEnd,
		TrialEnd:          e.TrialEnd,
		CanceledAt:        e.CanceledAt,
		CurrentPeriodEnd:  e.CurrentPeriodEnd,
	}
}

func parseMetadataID(md map[string]string, key string) uint {
	v, err := strconv.ParseUint(strings.TrimSpace(md[key]), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func unixTime(v *int64) *time.Time {
	if v == nil || *v == 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}
