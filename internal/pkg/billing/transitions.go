package billing

import (
	"time"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

// Transition is the target billing state derived from a processor event or
// subscription snapshot. It is computed from the payload alone, never from
// the previously stored status: concurrent handlers for the same
// subscription therefore converge regardless of write order.
//
// Cancellation carries its own variant data (scheduled vs ended, effective
// timestamp) instead of overloading the status value, so visibility reads
// the transition, not call-site discipline.
type Transition struct {
	Status            string
	Visible           bool
	TrialEndsAt       *time.Time
	CancelScheduled   bool
	CancelEffectiveAt *time.Time
}

// TransitionForCheckout maps a completed subscription checkout: trial when
// the processor reports a future trial end, active otherwise.
func TransitionForCheckout(trialEnd *time.Time, now time.Time) Transition {
	if trialEnd != nil && trialEnd.After(now) {
		return Transition{Status: models.SubscriptionStatusTrial, Visible: true, TrialEndsAt: trialEnd}
	}
	return Transition{Status: models.SubscriptionStatusActive, Visible: true}
}

// TransitionForSubscriptionState maps a provider subscription state to the
// local status. Shared by the webhook path and the reconciliation sync so
// the two can never disagree. The second return value is false for provider
// statuses the machine does not recognize; callers treat that as a logged
// no-op.
func TransitionForSubscriptionState(sub ProviderSubscription) (Transition, bool) {
	// A scheduled cancellation keeps the listing visible until period end,
	// whatever the underlying status reads.
	if sub.CancelAtPeriodEnd {
		return Transition{
			Status:            models.SubscriptionStatusCanceled,
			Visible:           true,
			CancelScheduled:   true,
			CancelEffectiveAt: sub.CurrentPeriodEnd,
			TrialEndsAt:       sub.TrialEnd,
		}, true
	}

	switch sub.Status {
	case ProviderStatusTrialing:
		return Transition{Status: models.SubscriptionStatusTrial, Visible: true, TrialEndsAt: sub.TrialEnd}, true
	case ProviderStatusActive:
		return Transition{Status: models.SubscriptionStatusActive, Visible: true}, true
	case ProviderStatusPastDue, ProviderStatusUnpaid, ProviderStatusIncomplete, ProviderStatusIncompleteExpired:
		return Transition{Status: models.SubscriptionStatusPaused, Visible: false}, true
	case ProviderStatusCanceled, ProviderStatusEnded:
		return Transition{
			Status:            models.SubscriptionStatusCanceled,
			Visible:           false,
			CancelEffectiveAt: sub.CanceledAt,
		}, true
	default:
		return Transition{}, false
	}
}

// TransitionForSubscriptionDeleted maps a hard deletion: the cancellation is
// ended, not scheduled, so the listing goes dark.
func TransitionForSubscriptionDeleted(canceledAt *time.Time) Transition {
	return Transition{
		Status:            models.SubscriptionStatusCanceled,
		Visible:           false,
		CancelEffectiveAt: canceledAt,
	}
}

// TransitionForInvoicePaid maps a successful payment. Computed from the event
// alone: a trial that just billed becomes active, and an already-active or
// recovering subscription lands on the same target state.
func TransitionForInvoicePaid() Transition {
	return Transition{Status: models.SubscriptionStatusActive, Visible: true}
}

// TransitionForInvoiceFailed pauses the listing until payment recovers.
func TransitionForInvoiceFailed() Transition {
	return Transition{Status: models.SubscriptionStatusPaused, Visible: false}
}

// Consistent reports whether a (status, visible) pair is one of the valid
// combinations the machine can produce. Visibility and status are persisted
// side by side for query efficiency and must never drift.
func (t Transition) Consistent() bool {
	switch t.Status {
	case models.SubscriptionStatusTrial, models.SubscriptionStatusActive:
		return t.Visible
	case models.SubscriptionStatusPaused, models.SubscriptionStatusPendingPayment:
		return !t.Visible
	case models.SubscriptionStatusCanceled:
		// Scheduled cancellations stay visible until period end; ended ones
		// are hidden.
		return t.Visible == t.CancelScheduled
	default:
		return false
	}
}
