//go:build unit

package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/infra/gateway"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, s *stub) (config.Config, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	cfg := config.NewTestConfig()
	cfg.Services.BookingURL = srv.URL
	cfg.Services.InventoryURL = srv.URL
	return cfg, srv.Client()
}

func TestBookingCreate(t *testing.T) {
	req := builder.NewCheckoutBuilder().MustBuild().BookingRequest()

	cases := []struct {
		name   string
		status int
		body   string
		wantID string
	}{
		{name: "flat id", status: http.StatusCreated, body: `{"bookingId":"BK-1"}`, wantID: "BK-1"},
		{name: "wrapped id", status: http.StatusCreated, body: `{"success":true,"data":{"bookingId":"BK-2"}}`, wantID: "BK-2"},
		{name: "no id", status: http.StatusOK, body: `{"success":true}`, wantID: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &stub{handler: reply(tc.status, tc.body)}
			cfg, hc := newServer(t, s)
			client := gateway.NewBookingClient(cfg, hc, nil, discard)

			id, err := client.Create(context.Background(), "token-abc", req)

			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}

	t.Run("sends the booking payload once", func(t *testing.T) {
		bodies := make(chan []byte, 1)
		s := &stub{handler: func(n int32, w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			bodies <- body
			reply(http.StatusCreated, `{"bookingId":"BK-1"}`)(n, w, r)
		}}
		cfg, hc := newServer(t, s)
		client := gateway.NewBookingClient(cfg, hc, nil, discard)

		_, err := client.Create(context.Background(), "token-abc", req)

		require.NoError(t, err)
		var got checkout.BookingRequest
		require.NoError(t, json.Unmarshal(<-bodies, &got))
		assert.Equal(t, req, got)
		assert.Equal(t, "/bookings", s.last().URL.Path)
		assert.Equal(t, "Bearer token-abc", s.last().Header.Get("Authorization"))
	})

	t.Run("rejection carries the service message", func(t *testing.T) {
		s := &stub{handler: reply(http.StatusBadRequest, `{"message":"Tour đã hết chỗ."}`)}
		cfg, hc := newServer(t, s)
		client := gateway.NewBookingClient(cfg, hc, nil, discard)

		_, err := client.Create(context.Background(), "", req)

		var upstream *infra.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, "Tour đã hết chỗ.", upstream.PublicMessage())
	})

	t.Run("server errors are not retried", func(t *testing.T) {
		s := &stub{handler: reply(http.StatusInternalServerError, `{"message":"boom"}`)}
		cfg, hc := newServer(t, s)
		client := gateway.NewBookingClient(cfg, hc, nil, discard)

		_, err := client.Create(context.Background(), "", req)

		assert.True(t, infra.IsKind(err, infra.KindUpstreamUnavailable))
		assert.Equal(t, int32(1), s.calls.Load())
	})
}

func TestBookingGet(t *testing.T) {
	s := &stub{handler: reply(http.StatusOK, `{"data":{"_id":"BK-1","pricing":{"final_price":12600000}}}`)}
	cfg, hc := newServer(t, s)
	client := gateway.NewBookingClient(cfg, hc, nil, discard)

	snap, err := client.Get(context.Background(), "token-abc", "BK-1")

	require.NoError(t, err)
	assert.Equal(t, "BK-1", snap.ID)
	assert.Equal(t, int64(12600000), snap.Pricing.FinalPrice)
	assert.Equal(t, "/bookings/BK-1", s.last().URL.Path)
}

func TestPromotionFindByCode(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := &stub{handler: reply(http.StatusOK, `{"code":"SUMMER10","type":"percentage","value":10,"total_quantity":100,"used_quantity":3,"is_active":true,"rules":{"min_spend":1000000}}`)}
		cfg, hc := newServer(t, s)
		client := gateway.NewPromotionClient(cfg, hc, nil, discard)

		p, err := client.FindByCode(context.Background(), promotion.Code("SUMMER10"))

		require.NoError(t, err)
		assert.Equal(t, promotion.TypePercentage, p.Type)
		require.NotNil(t, p.Rules.MinSpend)
		assert.EqualValues(t, 1000000, *p.Rules.MinSpend)
		assert.Equal(t, "/promotions/code/SUMMER10", s.last().URL.Path)
	})

	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			s := &stub{handler: reply(status, `{"message":"Promotion not found"}`)}
			cfg, hc := newServer(t, s)
			client := gateway.NewPromotionClient(cfg, hc, nil, discard)

			_, err := client.FindByCode(context.Background(), promotion.Code("NOPE"))

			assert.True(t, infra.IsKind(err, infra.KindNotFound))
		})
	}

	t.Run("record without is_active stays usable", func(t *testing.T) {
		s := &stub{handler: reply(http.StatusOK, `{"data":{"code":"OLD5","type":"percentage","value":5}}`)}
		cfg, hc := newServer(t, s)
		client := gateway.NewPromotionClient(cfg, hc, nil, discard)

		p, err := client.FindByCode(context.Background(), promotion.Code("OLD5"))

		require.NoError(t, err)
		assert.Nil(t, p.IsActive)
		assert.True(t, p.Active())
	})

	t.Run("unavailable service is asked once", func(t *testing.T) {
		s := &stub{handler: reply(http.StatusServiceUnavailable, `{"message":"down"}`)}
		cfg, hc := newServer(t, s)
		client := gateway.NewPromotionClient(cfg, hc, nil, discard)

		_, err := client.FindByCode(context.Background(), promotion.Code("SUMMER10"))

		assert.True(t, infra.IsKind(err, infra.KindUpstreamUnavailable))
		assert.Equal(t, int32(1), s.calls.Load())
	})
}

func TestPromotionListActive(t *testing.T) {
	s := &stub{handler: reply(http.StatusOK, `[{"code":"A","type":"fixed_amount","value":50000,"is_active":true},{"code":"B","type":"percentage","value":5,"is_active":true}]`)}
	cfg, hc := newServer(t, s)
	client := gateway.NewPromotionClient(cfg, hc, nil, discard)

	list, err := client.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, promotion.Code("A"), list[0].Code)
}
