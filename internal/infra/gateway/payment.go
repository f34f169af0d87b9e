package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gotrip-checkout/internal/domain/payment"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/metrics"
	"gotrip-checkout/internal/usecase/commands"
)

// PaymentClient talks to the payment service. It is the only place that knows the shapes the
// service may answer verification with.
type PaymentClient struct {
	c *client
}

func NewPaymentClient(cfg config.Config, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) *PaymentClient {
	return &PaymentClient{c: newClient("payment", cfg.Services.PaymentURL, httpClient, cfg.Verification, m, logger)}
}

// Verify forwards every gateway parameter verbatim. A 200 or a 400 carrying a status is a decoded
// verdict; anything else is an error.
func (p *PaymentClient) Verify(ctx context.Context, token string, params url.Values) (payment.Verification, error) {
	const op = "verify"
	res, err := p.c.send(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/payment/vnpay-return",
		query:  params,
		token:  token,
		retry:  true,
	})
	if err != nil {
		return payment.Verification{}, err
	}

	if res.ok() || res.status == http.StatusBadRequest {
		if v, ok := decodeVerification(res.body); ok {
			return v, nil
		}
		if res.ok() {
			return payment.Verification{}, p.c.decodeErr(op, errMissingStatus)
		}
	}
	return payment.Verification{}, p.c.rejected(op, res)
}

var errMissingStatus = errors.New("verification response has no status")

type verificationBody struct {
	Status  json.RawMessage `json:"status"`
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// decodeVerification normalizes the body to the canonical verdict. The service's answer may be
// wrapped in an HTTP envelope {data, status:<http code>, headers}; the envelope is peeled until
// the inner object carries a string status.
func decodeVerification(body []byte) (payment.Verification, bool) {
	for range 3 {
		var b verificationBody
		if err := json.Unmarshal(body, &b); err != nil {
			return payment.Verification{}, false
		}

		if status, ok := jsonString(b.Status); ok {
			v := payment.Verification{Status: status, Message: b.Message}
			v.Code, _ = jsonScalar(b.Code)
			if isObject(b.Data) {
				var snap payment.BookingSnapshot
				if json.Unmarshal(b.Data, &snap) == nil {
					v.Booking = &snap
				}
			}
			return v, true
		}

		if !isObject(b.Data) {
			return payment.Verification{}, false
		}
		body = b.Data
	}
	return payment.Verification{}, false
}

type createURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
	Data       struct {
		PaymentURL string `json:"paymentUrl"`
	} `json:"data"`
}

func (p *PaymentClient) CreatePaymentURL(ctx context.Context, token string, req commands.PaymentURLRequest) (string, error) {
	const op = "create_payment_url"
	res, err := p.c.send(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/payment/create-vnpay-url",
		token:  token,
		body:   req,
	})
	if err != nil {
		return "", err
	}
	if !res.ok() {
		return "", p.c.rejected(op, res)
	}

	var out createURLResponse
	if err := json.Unmarshal(res.body, &out); err != nil {
		return "", p.c.decodeErr(op, err)
	}
	u := out.PaymentURL
	if u == "" {
		u = out.Data.PaymentURL
	}
	if strings.TrimSpace(u) == "" {
		return "", p.c.decodeErr(op, errMissingURL)
	}
	return u, nil
}

var errMissingURL = errors.New("response has no paymentUrl")

// MockSuccess settles a booking without the gateway and returns the snapshot the service reports.
func (p *PaymentClient) MockSuccess(ctx context.Context, token, bookingID string) (map[string]any, error) {
	const op = "mock_success"
	res, err := p.c.send(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/payment/mock-success",
		token:  token,
		body:   map[string]string{"bookingId": bookingID},
	})
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, p.c.rejected(op, res)
	}

	var out map[string]any
	if err := json.Unmarshal(unwrapData(res.body, "bookingId"), &out); err != nil {
		return nil, p.c.decodeErr(op, err)
	}
	return out, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func jsonString(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// jsonScalar renders a string or number member as text.
func jsonScalar(raw json.RawMessage) (string, bool) {
	if s, ok := jsonString(raw); ok {
		return s, true
	}
	var n json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return "", false
	}
	return n.String(), true
}
