package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/billing"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/config"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/database"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/hostcontext"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/mail"
)

func billingService() *billing.Service {
	return billing.NewServiceFromDB(database.GetDB(), mail.NewSMTPMailer(), nil)
}

// HandleBillingWebhook is the payment processor's delivery endpoint.
//
// Response contract: 2xx acknowledges (including intentionally ignored and
// uncorrelatable events), 400 rejects malformed payloads, 401 rejects bad
// signatures, 5xx asks the processor to redeliver.
func HandleBillingWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := config.Get().StripeWebhookSecret

	signatureValid := billing.VerifyWebhookSignature(rawBody, signature, secret)

	svc := billingService()
	ctx, cancel := requestContext()
	defer cancel()

	evt, parseErr := billing.ParsePaymentEvent(rawBody)

	// Ledger first: every delivery is recorded for operators, valid or not.
	// Recording is idempotent per provider event id but never gates
	// processing; transitions are replay-safe by construction.
	var ledgerID uint
	eventID, eventType := "", ""
	if parseErr == nil {
		eventID, eventType = evt.ID, evt.Type
	}
	if _, stored, err := svc.RecordWebhookEvent(billing.WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	}); err != nil {
		log.Printf("webhook ledger write failed: %v", err)
	} else {
		ledgerID = stored.ID
	}

	if !signatureValid {
		markProcessed(svc, ledgerID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}
	if parseErr != nil {
		markProcessed(svc, ledgerID, parseErr)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	outcome, err := svc.HandleEvent(ctx, evt)
	markProcessed(svc, ledgerID, err)

	switch {
	case err == nil:
		return c.JSON(fiber.Map{"received": true, "ignored": outcome.Ignored})
	case errors.Is(err, billing.ErrUnknownEventType), errors.Is(err, billing.ErrMissingCorrelation):
		// Acknowledged: redelivery cannot make these processable.
		return c.JSON(fiber.Map{"received": true, "ignored": true})
	default:
		log.Printf("webhook processing failed for event %s: %v", evt.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing_failed"})
	}
}

func markProcessed(svc *billing.Service, ledgerID uint, processingErr error) {
	if ledgerID == 0 {
		return
	}
	if err := svc.MarkWebhookProcessed(ledgerID, processingErr); err != nil {
		log.Printf("marking webhook %d processed failed: %v", ledgerID, err)
	}
}

type checkoutRequest struct {
	PropertyID uint   `json:"property_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

// HandleCreateCheckoutSession starts a hosted subscription checkout for one
// of the authenticated host's listings.
func HandleCreateCheckoutSession(c *fiber.Ctx) error {
	hc := hostcontext.FromFiber(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	property, err := repository.GetGlobalFactory().GetPropertyRepository().GetByID(req.PropertyID)
	if err != nil || property.HostID != hc.HostID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "property not found"})
	}

	host, err := repository.GetGlobalFactory().GetHostRepository().GetByID(hc.HostID)
	if err != nil {
		log.Printf("host lookup failed for checkout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	ctx, cancel := requestContext()
	defer cancel()

	cfg := config.Get()
	client := billing.NewStripeClientFromConfig()
	session, err := client.CreateCheckoutSession(ctx, billing.CheckoutSessionInput{
		PropertyID:    property.ID,
		HostID:        host.ID,
		CustomerID:    host.StripeCustomerID,
		CustomerEmail: host.Email,
		PriceID:       cfg.StripePriceID,
		TrialDays:     cfg.StripeTrialDays,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		log.Printf("creating checkout session failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "checkout_failed"})
	}

	return c.JSON(fiber.Map{"id": session.ID, "url": session.URL})
}

// HandleCreateBillingPortal returns a self-service billing portal URL for the
// authenticated host.
func HandleCreateBillingPortal(c *fiber.Ctx) error {
	hc := hostcontext.FromFiber(c)

	host, err := repository.GetGlobalFactory().GetHostRepository().GetByID(hc.HostID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	if host.StripeCustomerID == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "no_billing_account", "message": "complete a checkout before opening the billing portal",
		})
	}

	ctx, cancel := requestContext()
	defer cancel()

	client := billing.NewStripeClientFromConfig()
	returnURL := config.Get().PublicBaseURL + "/host/billing"
	session, err := client.CreateBillingPortalSession(ctx, host.StripeCustomerID, returnURL)
	if err != nil {
		log.Printf("creating billing portal session failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "portal_failed"})
	}

	return c.JSON(fiber.Map{"url": session.URL})
}

// HandleBillingSync re-derives the authenticated host's listing states from
// the processor's source of truth. Used by the dashboard "refresh status"
// button when a webhook looks missed.
func HandleBillingSync(c *fiber.Ctx) error {
	hc := hostcontext.FromFiber(c)

	ctx, cancel := requestContext()
	defer cancel()

	result, err := billingService().SyncSubscriptionStatus(ctx, hc.HostID)
	if err != nil {
		log.Printf("billing sync failed for host %d: %v", hc.HostID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "sync_failed"})
	}
	return c.JSON(result)
}
