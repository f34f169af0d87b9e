package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/metrics"
)

// PromotionClient reads promotions from the inventory service.
type PromotionClient struct {
	c *client
}

func NewPromotionClient(cfg config.Config, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) *PromotionClient {
	return &PromotionClient{c: newClient("inventory", cfg.Services.InventoryURL, httpClient, cfg.Verification, m, logger)}
}

// FindByCode returns the promotion stored under code in a single round trip. Unknown codes are
// KindNotFound.
func (p *PromotionClient) FindByCode(ctx context.Context, code promotion.Code) (promotion.Promotion, error) {
	const op = "find_promotion"
	res, err := p.c.send(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/promotions/code/" + url.PathEscape(code.String()),
	})
	if err != nil {
		return promotion.Promotion{}, err
	}
	if !res.ok() {
		if res.status == http.StatusBadRequest {
			// the inventory service reports unknown and expired codes as 400 as well
			return promotion.Promotion{}, infra.NewUpstreamError(infra.KindNotFound, p.c.service, res.status, messageOf(res.body), nil)
		}
		return promotion.Promotion{}, p.c.rejected(op, res)
	}

	var out promotion.Promotion
	if err := json.Unmarshal(unwrapData(res.body, "code"), &out); err != nil {
		return promotion.Promotion{}, p.c.decodeErr(op, err)
	}
	return out, nil
}

// ListActive returns the promotions the storefront advertises.
func (p *PromotionClient) ListActive(ctx context.Context) ([]promotion.Promotion, error) {
	const op = "list_promotions"
	res, err := p.c.send(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   "/promotions/public/active",
	})
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, p.c.rejected(op, res)
	}

	var out []promotion.Promotion
	if err := json.Unmarshal(unwrapData(res.body, "code"), &out); err != nil {
		return nil, p.c.decodeErr(op, err)
	}
	return out, nil
}
