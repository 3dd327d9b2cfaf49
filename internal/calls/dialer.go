package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sohamn21/nektech-connect/pkg/logging"
)

var dialerTracer = otel.Tracer("nekconnect.internal.calls.dialer")

// DialRequest describes one outbound call placement.
type DialRequest struct {
	// To is the recipient in E.164.
	To string
	// TwiMLURL is fetched by the provider for the call script.
	TwiMLURL string
	// StatusCallbackURL receives the provider's terminal status POST.
	StatusCallbackURL string
}

// Dialer places an outbound call and returns the provider call sid. The
// scheduling endpoint dials immediately today; the interface exists so a
// real scheduler can take over dispatch without touching the handlers.
type Dialer interface {
	Dial(ctx context.Context, req DialRequest) (string, error)
}

// TwilioDialer places calls through the provider's Calls REST API.
type TwilioDialer struct {
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTwilioDialer builds a dialer. from is the platform's voice number in
// E.164.
func NewTwilioDialer(accountSID, authToken, from string, logger *logging.Logger) *TwilioDialer {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioDialer{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

var _ Dialer = (*TwilioDialer)(nil)

// Dial creates the call with the provider. There is no retry here: a
// rejected creation is recorded as an error on the call record and
// surfaced to operators instead.
func (d *TwilioDialer) Dial(ctx context.Context, req DialRequest) (string, error) {
	if d.accountSID == "" || d.authToken == "" {
		return "", errors.New("calls: provider credentials missing")
	}
	if strings.TrimSpace(req.To) == "" {
		return "", errors.New("calls: to required")
	}
	if strings.TrimSpace(req.TwiMLURL) == "" {
		return "", errors.New("calls: twiml url required")
	}

	ctx, span := dialerTracer.Start(ctx, "calls.dial", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("nekconnect.to", req.To))

	payload := url.Values{}
	payload.Set("To", req.To)
	payload.Set("From", d.from)
	payload.Set("Url", req.TwiMLURL)
	if req.StatusCallbackURL != "" {
		payload.Set("StatusCallback", req.StatusCallbackURL)
		payload.Set("StatusCallbackMethod", http.MethodPost)
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Calls.json", d.accountSID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return "", fmt.Errorf("calls: build dial request: %w", err)
	}
	httpReq.SetBasicAuth(d.accountSID, d.authToken)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("calls: dial: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("calls: dial rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		span.RecordError(err)
		return "", err
	}

	var parsed struct {
		SID string `json:"sid"`
	}
	_ = json.Unmarshal(body, &parsed)
	d.logger.Info("outbound call created", "to", req.To, "call_sid", parsed.SID)
	return parsed.SID, nil
}
