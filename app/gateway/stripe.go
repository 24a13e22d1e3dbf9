package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com"

type StripeConfig struct {
	SecretKey                 string
	WebhookSecret             string
	APIBaseURL                string
	SignatureToleranceSeconds int64
	HTTPTimeout               time.Duration
}

type StripeGateway struct {
	cfg    StripeConfig
	client *http.Client
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = defaultStripeAPIBaseURL
	}
	if cfg.SignatureToleranceSeconds <= 0 {
		cfg.SignatureToleranceSeconds = 300
	}

	return &StripeGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if strings.TrimSpace(g.cfg.SecretKey) == "" {
		return nil, errors.New("stripe secret key is not configured")
	}

	values := url.Values{}
	values.Set("mode", "payment")
	values.Set("payment_method_types[0]", "card")
	values.Set("line_items[0][price]", strings.TrimSpace(input.PriceID))
	values.Set("line_items[0][quantity]", "1")
	values.Set("success_url", strings.TrimSpace(input.SuccessURL))
	values.Set("cancel_url", strings.TrimSpace(input.CancelURL))
	values.Set("billing_address_collection", "required")
	if email := strings.TrimSpace(input.CustomerEmail); email != "" {
		values.Set("customer_email", email)
	}
	for k, v := range input.Metadata {
		values.Set("metadata["+k+"]", v)
	}

	body, err := g.postForm(ctx, "/v1/checkout/sessions", values)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, errors.New("stripe session id missing")
	}

	return &CreateSessionOutput{
		SessionID:   strings.TrimSpace(payload.ID),
		RedirectURL: strings.TrimSpace(payload.URL),
	}, nil
}

// VerifyEvent checks the HMAC signature over the exact raw payload bytes and
// only then parses the event. Any mismatch fails closed with
// ErrInvalidSignature.
func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	if strings.TrimSpace(g.cfg.WebhookSecret) == "" {
		return nil, errors.New("stripe webhook secret is not configured")
	}
	if !verifyStripeSignature(payload, signatureHeader, g.cfg.WebhookSecret, g.cfg.SignatureToleranceSeconds) {
		return nil, ErrInvalidSignature
	}
	return parseEvent(payload)
}

func (g *StripeGateway) postForm(ctx context.Context, path string, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIBaseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: path=%s status=%d", ErrGatewayUnavailable, path, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		if isPriceReferenceError(body) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriceReference, stripeErrorMessage(body))
		}
		return nil, fmt.Errorf("stripe request failed: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}

	return body, nil
}

func isPriceReferenceError(body []byte) bool {
	var payload struct {
		Error struct {
			Code  string `json:"code"`
			Param string `json:"param"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return false
	}
	if payload.Error.Code == "resource_missing" && strings.Contains(payload.Error.Param, "price") {
		return true
	}
	return strings.HasPrefix(payload.Error.Param, "line_items")
}

func stripeErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return "unknown provider error"
	}
	return payload.Error.Message
}

func verifyStripeSignature(payload []byte, signatureHeader string, webhookSecret string, toleranceSeconds int64) bool {
	signatureHeader = strings.TrimSpace(signatureHeader)
	if signatureHeader == "" || strings.TrimSpace(webhookSecret) == "" {
		return false
	}

	parts := strings.Split(signatureHeader, ",")
	var ts string
	v1 := make([]string, 0, 1)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "t=") {
			ts = strings.TrimSpace(strings.TrimPrefix(part, "t="))
		}
		if strings.HasPrefix(part, "v1=") {
			v1 = append(v1, strings.TrimSpace(strings.TrimPrefix(part, "v1=")))
		}
	}
	if ts == "" || len(v1) == 0 {
		return false
	}

	tsUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	now := time.Now().Unix()
	if now-tsUnix > toleranceSeconds || tsUnix-now > toleranceSeconds {
		return false
	}

	signedPayload := []byte(ts + "." + string(payload))
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	_, _ = mac.Write(signedPayload)
	expected := mac.Sum(nil)

	for _, sig := range v1 {
		candidate, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(candidate, expected) {
			return true
		}
	}

	return false
}
