package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonasWeidner/StayAtlas/internal/pkg/config"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com"

// StripeClient talks to the payment processor's REST API with form-encoded
// requests and bounded timeouts. Kept deliberately small: checkout sessions,
// billing portal sessions and subscription reads are all this app needs.
type StripeClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// CheckoutSessionInput carries everything needed to start a hosted
// subscription checkout for one property. PropertyID and HostID travel as
// session metadata so the completed-checkout webhook can correlate back.
type CheckoutSessionInput struct {
	PropertyID    uint
	HostID        uint
	CustomerID    string
	CustomerEmail string
	PriceID       string
	TrialDays     int
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PortalSession struct {
	URL string `json:"url"`
}

// NewStripeClientFromConfig builds the client from the typed configuration.
// The API base URL stays an env knob so tests can point at a local server.
func NewStripeClientFromConfig() *StripeClient {
	return &StripeClient{
		SecretKey:  strings.TrimSpace(config.Get().StripeSecretKey),
		APIBaseURL: strings.TrimRight(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCheckoutSession starts a hosted checkout in subscription mode.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	if in.PropertyID == 0 || in.HostID == 0 {
		return nil, errors.New("property_id and host_id are required for checkout metadata")
	}
	if strings.TrimSpace(in.PriceID) == "" {
		return nil, errors.New("price id is required")
	}

	form := url.Values{}
	form.Set("mode", CheckoutModeSubscription)
	form.Set("line_items[0][price]", in.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[property_id]", strconv.FormatUint(uint64(in.PropertyID), 10))
	form.Set("metadata[host_id]", strconv.FormatUint(uint64(in.HostID), 10))
	form.Set("subscription_data[metadata][property_id]", strconv.FormatUint(uint64(in.PropertyID), 10))
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	if in.TrialDays > 0 {
		form.Set("subscription_data[trial_period_days]", strconv.Itoa(in.TrialDays))
	}
	if in.CustomerID != "" {
		form.Set("customer", in.CustomerID)
	} else if in.CustomerEmail != "" {
		form.Set("customer_email", in.CustomerEmail)
	}

	var out CheckoutSession
	if err := c.postForm(ctx, "/v1/checkout/sessions", form, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("checkout session response missing id")
	}
	return &out, nil
}

// CreateBillingPortalSession returns a URL to the processor's self-service
// billing management page for the given customer.
func (c *StripeClient) CreateBillingPortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("customer id is required")
	}

	form := url.Values{}
	form.Set("customer", customerID)
	if returnURL != "" {
		form.Set("return_url", returnURL)
	}

	var out PortalSession
	if err := c.postForm(ctx, "/v1/billing_portal/sessions", form, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, errors.New("portal session response missing url")
	}
	return &out, nil
}

// GetSubscription pulls the authoritative subscription object, used by the
// reconciliation sync and by checkout handling when the session payload does
// not carry trial details.
func (c *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error) {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return nil, errors.New("subscription id is required")
	}

	body, err := c.do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var obj subscriptionObject
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("parse subscription response: %w", err)
	}
	return providerSubscriptionFromObject(obj), nil
}

// FindSubscriptionByPropertyID locates the subscription a property's checkout
// created via the property id stored in subscription metadata. Used by the
// reconciliation sync to recover listings whose checkout webhook was missed.
// Returns (nil, nil) when the processor knows no such subscription.
func (c *StripeClient) FindSubscriptionByPropertyID(ctx context.Context, propertyID uint) (*ProviderSubscription, error) {
	if propertyID == 0 {
		return nil, errors.New("property id is required")
	}

	q := url.Values{}
	q.Set("query", fmt.Sprintf("metadata['property_id']:'%d'", propertyID))
	q.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, "/v1/subscriptions/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []subscriptionObject `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse subscription search response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return providerSubscriptionFromObject(out.Data[0]), nil
}

func providerSubscriptionFromObject(obj subscriptionObject) *ProviderSubscription {
	return &ProviderSubscription{
		ID:                obj.ID,
		CustomerID:        obj.Customer,
		Status:            obj.Status,
		CancelAtPeriodEnd: obj.CancelAtPeriodEnd,
		TrialEnd:          unixTime(obj.TrialEnd),
		CanceledAt:        unixTime(obj.CanceledAt),
		CurrentPeriodEnd:  unixTime(obj.CurrentPeriodEnd),
	}
}

func (c *StripeClient) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	body, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (c *StripeClient) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stripe %s %s failed: status=%d body=%s", method, path, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
