package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// signatureTolerance bounds how old a signed webhook timestamp may be before
// the signature is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

// VerifyWebhookSignature checks the processor's signature header against the
// raw request body. The header carries a signed timestamp and one or more
// v1 signatures: `t=<unix>,v1=<hex>[,v1=<hex>...]`; each v1 is HMAC-SHA256
// over `<t>.<body>` with the shared endpoint secret.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	return verifyWebhookSignatureAt(payload, signatureHeader, webhookSecret, time.Now())
}

func verifyWebhookSignatureAt(payload []byte, signatureHeader, webhookSecret string, now time.Time) bool {
	header := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if header == "" || secret == "" {
		return false
	}

	var timestamp string
	var candidates [][]byte
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			if sig, err := hex.DecodeString(strings.ToLower(v)); err == nil {
				candidates = append(candidates, sig)
			}
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range candidates {
		if hmac.Equal(expected, sig) {
			return true
		}
	}
	return false
}
