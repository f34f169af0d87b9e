package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/payment"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/metrics"
)

// BookingClient creates and reads bookings on the booking service.
type BookingClient struct {
	c *client
}

func NewBookingClient(cfg config.Config, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) *BookingClient {
	return &BookingClient{c: newClient("booking", cfg.Services.BookingURL, httpClient, cfg.Verification, m, logger)}
}

type createBookingResponse struct {
	BookingID string `json:"bookingId"`
	Data      struct {
		BookingID string `json:"bookingId"`
	} `json:"data"`
}

// Create issues exactly one create call; it is never retried. The returned id may be empty when
// the service answered 2xx without one.
func (b *BookingClient) Create(ctx context.Context, token string, req checkout.BookingRequest) (string, error) {
	const op = "create_booking"
	res, err := b.c.send(ctx, request{
		op:     op,
		method: http.MethodPost,
		path:   "/bookings",
		token:  token,
		body:   req,
	})
	if err != nil {
		return "", err
	}
	if !res.ok() {
		return "", b.c.rejected(op, res)
	}

	var out createBookingResponse
	if err := json.Unmarshal(res.body, &out); err != nil {
		return "", b.c.decodeErr(op, err)
	}
	if id := strings.TrimSpace(out.Data.BookingID); id != "" {
		return id, nil
	}
	return strings.TrimSpace(out.BookingID), nil
}

func (b *BookingClient) Get(ctx context.Context, token, bookingID string) (*payment.BookingSnapshot, error) {
	const op = "get_booking"
	res, err := b.c.send(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/bookings/" + url.PathEscape(bookingID),
		token:  token,
		retry:  true,
	})
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, b.c.rejected(op, res)
	}

	var out payment.BookingSnapshot
	if err := json.Unmarshal(unwrapData(res.body, "_id"), &out); err != nil {
		return nil, b.c.decodeErr(op, err)
	}
	return &out, nil
}
