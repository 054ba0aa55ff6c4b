package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Sentinel errors mapping onto the webhook endpoint's response taxonomy.
var (
	// ErrUnknownEventType marks event kinds the machine intentionally
	// ignores. Acknowledged so the processor does not retry them.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrMissingCorrelation marks events referencing a subscription or
	// property that cannot be resolved. Also acknowledged (the data will
	// never resolve on retry) but logged as a data-integrity problem,
	// distinct from intentionally ignored events.
	ErrMissingCorrelation = errors.New("event cannot be correlated to a property")

	// ErrWriteRetryExhausted surfaces after the single bounded retry fails.
	// Not acknowledged: the processor's own redelivery is the fallback.
	ErrWriteRetryExhausted = errors.New("billing write failed after retry")
)

const defaultRetryDelay = 2 * time.Second

// Mailer sends best-effort host notifications. Failures are logged and
// swallowed; they never block or reverse a state transition.
type Mailer interface {
	SendPaymentFailed(toEmail, propertyTitle string) error
}

// SubscriptionFetcher pulls authoritative subscription snapshots from the
// processor. Satisfied by *StripeClient. FindSubscriptionByPropertyID
// resolves a subscription via the property id stored in its metadata and
// returns (nil, nil) when the processor knows none.
type SubscriptionFetcher interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)
	FindSubscriptionByPropertyID(ctx context.Context, propertyID uint) (*ProviderSubscription, error)
}

// Outcome reports what an event application did, for handler logging.
type Outcome struct {
	PropertyID uint
	Status     string
	Visible    bool
	Ignored    bool
	Reason     string
}

// Service is the subscription state machine: the only writer of the
// billing-owned property columns. Webhook handling and reconciliation both
// run through the same transition derivation, so the push and pull paths can
// never disagree.
type Service struct {
	repo       Repository
	fetcher    SubscriptionFetcher
	mailer     Mailer
	log        *logrus.Logger
	retryDelay time.Duration
	now        func() time.Time
}

// NewService creates a state machine service from injected collaborators.
func NewService(repo Repository, fetcher SubscriptionFetcher, mailer Mailer, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		repo:       repo,
		fetcher:    fetcher,
		mailer:     mailer,
		log:        log,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
}

// NewServiceFromDB creates a service from a GORM handle with the configured
// Stripe client, SMTP mailer and retry delay.
func NewServiceFromDB(db *gorm.DB, mailer Mailer, log *logrus.Logger) *Service {
	svc := NewService(NewRepository(db), NewStripeClientFromConfig(), mailer, log)
	if d := config.Get().BillingRetryDelay; d > 0 {
		svc.retryDelay = d
	}
	return svc
}

// HandleEvent applies one processor event. Idempotent with respect to
// redelivery: the target state is derived from the event payload alone and
// written unconditionally, so replays converge. Side effects (the
// payment-failed email) are at-most-once per delivery, not per event.
func (s *Service) HandleEvent(ctx context.Context, evt PaymentEvent) (Outcome, error) {
	switch evt.Type {
	case EventCheckoutSessionCompleted:
		return s.handleCheckoutCompleted(ctx, evt)
	case EventSubscriptionUpdated:
		return s.handleSubscriptionUpdated(ctx, evt)
	case EventSubscriptionDeleted:
		return s.applyToSubscription(ctx, evt.SubscriptionID, TransitionForSubscriptionDeleted(evt.CanceledAt))
	case EventInvoicePaymentSucceeded:
		return s.applyToSubscription(ctx, evt.SubscriptionID, TransitionForInvoicePaid())
	case EventInvoicePaymentFailed:
		return s.handleInvoiceFailed(ctx, evt)
	default:
		s.log.WithFields(logrus.Fields{"event_id": evt.ID, "event_type": evt.Type}).
			Info("ignoring unhandled payment event type")
		return Outcome{Ignored: true, Reason: "unhandled event type"}, ErrUnknownEventType
	}
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, evt PaymentEvent) (Outcome, error) {
	if evt.Mode != "" && evt.Mode != CheckoutModeSubscription {
		return Outcome{Ignored: true, Reason: "non-subscription checkout"}, nil
	}
	if evt.PropertyID == 0 || evt.HostID == 0 {
		s.log.WithField("event_id", evt.ID).
			Error("checkout session metadata lacks property_id/host_id")
		return Outcome{Ignored: true, Reason: "missing checkout metadata"}, ErrMissingCorrelation
	}

	property, err := s.repo.GetPropertyByID(evt.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.WithFields(logrus.Fields{"event_id": evt.ID, "property_id": evt.PropertyID}).
				Error("checkout session references unknown property")
			return Outcome{Ignored: true, Reason: "unknown property"}, ErrMissingCorrelation
		}
		return Outcome{}, fmt.Errorf("load property %d: %w", evt.PropertyID, err)
	}
	if property.HostID != evt.HostID {
		s.log.WithFields(logrus.Fields{"event_id": evt.ID, "property_id": evt.PropertyID, "host_id": evt.HostID}).
			Error("checkout session host does not own the property")
		return Outcome{Ignored: true, Reason: "host mismatch"}, ErrMissingCorrelation
	}

	// The session payload does not carry trial details; pull the created
	// subscription for its trial end before deciding trial vs active.
	trialEnd := evt.TrialEnd
	if trialEnd == nil && evt.SubscriptionID != "" && s.fetcher != nil {
		if sub, err := s.fetcher.GetSubscription(ctx, evt.SubscriptionID); err != nil {
			s.log.WithError(err).WithField("subscription_id", evt.SubscriptionID).
				Warn("could not fetch subscription for trial details, assuming no trial")
		} else {
			trialEnd = sub.TrialEnd
		}
	}

	tr := TransitionForCheckout(trialEnd, s.now())
	up := updateFromTransition(tr)
	up.SubscriptionID = evt.SubscriptionID
	up.CustomerID = evt.CustomerID

	if err := s.applyWithRetry(ctx, property.ID, up); err != nil {
		return Outcome{}, err
	}

	// The customer id is shared across all of a host's properties once the
	// first payment setup occurs.
	if evt.CustomerID != "" {
		if err := s.repo.SetHostCustomerID(evt.HostID, evt.CustomerID); err != nil {
			s.log.WithError(err).WithField("host_id", evt.HostID).
				Warn("could not store host customer id")
		}
	}

	return Outcome{PropertyID: property.ID, Status: tr.Status, Visible: tr.Visible}, nil
}

func (s *Service) handleSubscriptionUpdated(ctx context.Context, evt PaymentEvent) (Outcome, error) {
	tr, ok := TransitionForSubscriptionState(evt.ProviderSubscriptionState())
	if !ok {
		s.log.WithFields(logrus.Fields{"event_id": evt.ID, "provider_status": evt.ProviderStatus}).
			Info("ignoring unrecognized provider subscription status")
		return Outcome{Ignored: true, Reason: "unrecognized provider status"}, nil
	}
	return s.applyToSubscription(ctx, evt.SubscriptionID, tr)
}

func (s *Service) handleInvoiceFailed(ctx context.Context, evt PaymentEvent) (Outcome, error) {
	outcome, err := s.applyToSubscription(ctx, evt.SubscriptionID, TransitionForInvoiceFailed())
	if err != nil || outcome.Ignored {
		return outcome, err
	}

	// Best effort, at most once per delivery. Never blocks the transition.
	s.notifyPaymentFailed(outcome.PropertyID)
	return outcome, nil
}

// applyToSubscription resolves the property a subscription id belongs to and
// writes the transition.
func (s *Service) applyToSubscription(ctx context.Context, subscriptionID string, tr Transition) (Outcome, error) {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return Outcome{Ignored: true, Reason: "event carries no subscription id"}, ErrMissingCorrelation
	}

	property, err := s.repo.GetPropertyBySubscriptionID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.WithField("subscription_id", id).
				Error("payment event references a subscription no property is linked to")
			return Outcome{Ignored: true, Reason: "unknown subscription"}, ErrMissingCorrelation
		}
		return Outcome{}, fmt.Errorf("resolve subscription %s: %w", id, err)
	}

	if err := s.applyWithRetry(ctx, property.ID, updateFromTransition(tr)); err != nil {
		return Outcome{}, err
	}
	return Outcome{PropertyID: property.ID, Status: tr.Status, Visible: tr.Visible}, nil
}

// applyWithRetry writes the billing columns, retrying exactly once after a
// fixed delay on failure. A second failure surfaces as ErrWriteRetryExhausted
// so the webhook endpoint answers 5xx and the processor's own redelivery
// takes over; nothing is silently dropped.
func (s *Service) applyWithRetry(ctx context.Context, propertyID uint, up BillingUpdate) error {
	firstErr := s.repo.UpdatePropertyBilling(propertyID, up)
	if firstErr == nil {
		return nil
	}

	s.log.WithError(firstErr).WithField("property_id", propertyID).
		Warn("billing write failed, retrying once")

	select {
	case <-time.After(s.retryDelay):
	case <-ctx.Done():
		return fmt.Errorf("%w: %v (canceled before retry: %v)", ErrWriteRetryExhausted, firstErr, ctx.Err())
	}

	if retryErr := s.repo.UpdatePropertyBilling(propertyID, up); retryErr != nil {
		s.log.WithError(retryErr).WithField("property_id", propertyID).
			Error("billing write failed after retry, giving up")
		return fmt.Errorf("%w: %v", ErrWriteRetryExhausted, retryErr)
	}
	return nil
}

func (s *Service) notifyPaymentFailed(propertyID uint) {
	if s.mailer == nil {
		return
	}
	property, err := s.repo.GetPropertyByID(propertyID)
	if err != nil {
		s.log.WithError(err).WithField("property_id", propertyID).
			Warn("could not load property for payment-failed notification")
		return
	}
	host, err := s.repo.GetHostByID(property.HostID)
	if err != nil {
		s.log.WithError(err).WithField("host_id", property.HostID).
			Warn("could not load host for payment-failed notification")
		return
	}
	if err := s.mailer.SendPaymentFailed(host.Email, property.Title); err != nil {
		s.log.WithError(err).WithField("host_id", host.ID).
			Warn("payment-failed notification not sent")
	}
}

// SyncSubscriptionStatus is the pull-based correction path: it re-derives
// every billing-linked property of a host from the processor's source of
// truth using the same transition table as the webhook path, and recovers
// listings whose checkout webhook never arrived. Safe to call repeatedly and
// to race against in-flight webhooks; both compute the same target state
// from the same upstream snapshot.
func (s *Service) SyncSubscriptionStatus(ctx context.Context, hostID uint) (SyncResult, error) {
	if s.fetcher == nil {
		return SyncResult{Synced: false, Message: "billing sync is not configured"}, nil
	}

	linked, err := s.repo.ListBillingLinkedByHost(hostID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list billing-linked properties: %w", err)
	}
	pending, err := s.repo.ListUnlinkedPendingByHost(hostID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list pending properties: %w", err)
	}
	if len(linked) == 0 && len(pending) == 0 {
		return SyncResult{Synced: false, Message: "no billing-linked properties"}, nil
	}

	synced := 0

	// A listing stuck at pending_payment has no subscription id to pull by.
	// The subscription created at checkout carries the property id as
	// metadata, so the linkage can be established from the processor side.
	for i := range pending {
		p := &pending[i]
		sub, err := s.fetcher.FindSubscriptionByPropertyID(ctx, p.ID)
		if err != nil {
			s.log.WithError(err).WithField("property_id", p.ID).
				Warn("could not search for a pending listing's subscription during sync")
			continue
		}
		if sub == nil {
			// No subscription upstream: the checkout was never completed.
			continue
		}
		tr, ok := TransitionForSubscriptionState(*sub)
		if !ok {
			s.log.WithFields(logrus.Fields{"subscription_id": sub.ID, "provider_status": sub.Status}).
				Info("sync skipping unrecognized provider status")
			continue
		}
		up := updateFromTransition(tr)
		up.SubscriptionID = sub.ID
		up.CustomerID = sub.CustomerID
		if err := s.applyWithRetry(ctx, p.ID, up); err != nil {
			return SyncResult{}, err
		}
		if sub.CustomerID != "" {
			if err := s.repo.SetHostCustomerID(hostID, sub.CustomerID); err != nil {
				s.log.WithError(err).WithField("host_id", hostID).
					Warn("could not store host customer id")
			}
		}
		synced++
	}

	for i := range linked {
		p := &linked[i]
		sub, err := s.fetcher.GetSubscription(ctx, p.StripeSubscriptionID)
		if err != nil {
			s.log.WithError(err).WithField("subscription_id", p.StripeSubscriptionID).
				Warn("could not fetch subscription during sync")
			continue
		}
		tr, ok := TransitionForSubscriptionState(*sub)
		if !ok {
			s.log.WithFields(logrus.Fields{"subscription_id": sub.ID, "provider_status": sub.Status}).
				Info("sync skipping unrecognized provider status")
			continue
		}
		if err := s.applyWithRetry(ctx, p.ID, updateFromTransition(tr)); err != nil {
			return SyncResult{}, err
		}
		synced++
	}

	if synced == 0 {
		return SyncResult{Synced: false, Message: "no subscriptions could be synced"}, nil
	}
	return SyncResult{Synced: true, Message: fmt.Sprintf("%d of %d properties synced", synced, len(linked)+len(pending))}, nil
}

// RecordWebhookEvent persists the inbound payload to the operator ledger.
// Recording is idempotent per provider event id; a missing id falls back to
// a payload hash.
func (s *Service) RecordWebhookEvent(in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed stamps a ledger row with the processing result.
func (s *Service) MarkWebhookProcessed(webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

func updateFromTransition(tr Transition) BillingUpdate {
	return BillingUpdate{
		Status:            tr.Status,
		IsActive:          tr.Visible,
		TrialEndsAt:       tr.TrialEndsAt,
		CancelScheduled:   tr.CancelScheduled,
		CancelEffectiveAt: tr.CancelEffectiveAt,
	}
}
