package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

func signPayload(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.payment_failed"}`)
	secret := "whsec_test"
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	header := signPayload(t, payload, secret, now)
	if !verifyWebhookSignatureAt(payload, header, secret, now) {
		t.Fatalf("expected valid signature to verify")
	}

	// A stale or bogus candidate alongside the valid one still verifies.
	multi := header + ",v1=deadbeef"
	if !verifyWebhookSignatureAt(payload, multi, secret, now) {
		t.Fatalf("expected multi-candidate header to verify")
	}

	if verifyWebhookSignatureAt([]byte(`{"tampered":true}`), header, secret, now) {
		t.Fatalf("expected tampered payload to fail")
	}
	if verifyWebhookSignatureAt(payload, header, "whsec_other", now) {
		t.Fatalf("expected wrong secret to fail")
	}
	if verifyWebhookSignatureAt(payload, "", secret, now) {
		t.Fatalf("expected empty header to fail")
	}
	if verifyWebhookSignatureAt(payload, header, "", now) {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestVerifyWebhookSignatureTolerance(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	signedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	header := signPayload(t, payload, secret, signedAt)

	if !verifyWebhookSignatureAt(payload, header, secret, signedAt.Add(signatureTolerance-time.Second)) {
		t.Fatalf("expected signature within tolerance to verify")
	}
	if verifyWebhookSignatureAt(payload, header, secret, signedAt.Add(signatureTolerance+time.Minute)) {
		t.Fatalf("expected replayed old signature to fail")
	}
}
