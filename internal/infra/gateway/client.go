package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
)

const maxResponseBytes = 1 << 20

var errServerStatus = errors.New("upstream server error")

// client is the JSON-over-HTTP plumbing shared by the service adapters.
type client struct {
	service string
	baseURL string
	http    *http.Client
	retry   config.VerificationConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func newClient(service, baseURL string, httpClient *http.Client, retry config.VerificationConfig, m *metrics.Metrics, logger *slog.Logger) *client {
	return &client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		retry:   retry,
		metrics: m,
		logger:  logger,
	}
}

// NewHTTPClient builds the transport shared by every upstream adapter.
func NewHTTPClient(cfg config.ServicesConfig) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   any
	// retry marks calls that are safe to repeat after a transport error or 5xx.
	retry bool
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *client) send(ctx context.Context, req request) (*response, error) {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", req.op, err)
		}
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var last *response
	attempt := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Accept", "application/json")
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if req.token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+req.token)
		}

		res, err := c.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
		if err != nil {
			return err
		}
		last = &response{status: res.StatusCode, body: data}
		if res.StatusCode >= http.StatusInternalServerError {
			return errServerStatus
		}
		return nil
	}

	err := backoff.RetryNotify(attempt, backoff.WithContext(c.policy(req.retry), ctx), func(err error, wait time.Duration) {
		c.logger.Warn("retrying upstream call", "service", c.service, "op", req.op, "error", err, "wait", wait)
	})
	if err != nil {
		c.metrics.ObserveUpstreamError(c.service, req.op)
		if last != nil && last.status >= http.StatusInternalServerError {
			return nil, infra.NewUpstreamError(infra.KindUpstreamUnavailable, c.service, last.status, messageOf(last.body), err)
		}
		return nil, infra.NewUpstreamError(infra.KindUpstreamUnavailable, c.service, 0, "", err)
	}
	return last, nil
}

func (c *client) policy(retry bool) backoff.BackOff {
	if !retry || c.retry.MaxAttempts <= 1 {
		return &backoff.StopBackOff{}
	}
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retry.InitialBackoff
	exp.MaxInterval = c.retry.MaxBackoff
	exp.MaxElapsedTime = 0
	return backoff.WithMaxRetries(exp, c.retry.MaxAttempts-1)
}

// rejected converts a non-2xx answer into an UpstreamError; 404 maps to KindNotFound.
func (c *client) rejected(op string, res *response) error {
	c.metrics.ObserveUpstreamError(c.service, op)
	kind := infra.KindUpstreamRejected
	if res.status == http.StatusNotFound {
		kind = infra.KindNotFound
	}
	return infra.NewUpstreamError(kind, c.service, res.status, messageOf(res.body), nil)
}

func (c *client) decodeErr(op string, err error) error {
	c.metrics.ObserveUpstreamError(c.service, op)
	return infra.NewUpstreamError(infra.KindUpstreamUnavailable, c.service, 0, "", fmt.Errorf("failed to decode %s response: %w", op, err))
}

// messageOf extracts the service's explanation from an error body.
func messageOf(body []byte) string {
	var b struct {
		Message string          `json:"message"`
		Error   any             `json:"error"`
		Data    json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &b) != nil {
		return ""
	}
	if b.Message != "" {
		return b.Message
	}
	if s, ok := b.Error.(string); ok && s != "" {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(b.Data) > 0 && json.Unmarshal(b.Data, &nested) == nil {
		return nested.Message
	}
	return ""
}

// unwrapData returns the "data" member of an object body unless the body already has idKey.
func unwrapData(body []byte, idKey string) []byte {
	var obj map[string]json.RawMessage
	if json.Unmarshal(body, &obj) != nil {
		return body
	}
	if _, ok := obj[idKey]; ok {
		return body
	}
	if data, ok := obj["data"]; ok && len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return data
	}
	return body
}
