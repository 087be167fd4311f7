package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohamedrafeek-mr/FoodHub/internal/gateway"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/httpclient"
)

// Config holds the Razorpay credentials and endpoint. KeySecret comes from
// the environment; it is never written to logs or responses.
type Config struct {
	KeyID       string
	KeySecret   string
	BaseURL     string
	CallTimeout time.Duration
}

// Configured reports whether credentials are present.
func (c Config) Configured() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

var gatewayCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "payment_gateway_call_duration_seconds",
		Help:    "Duration of outbound payment gateway calls",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// CircuitOpenFallback is the breaker fallback for gateway calls. Once the
// breaker is open, calls resolve to the gateway-unavailable error right away
// instead of queuing behind a request that will be rejected anyway.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.GatewayUnavailable("payment gateway is temporarily unavailable; pay on delivery is available")
}

// Client talks to the Razorpay Orders API through a circuit-breaker-wrapped
// HTTP client.
type Client struct {
	cfg    Config
	http   *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// New creates a Razorpay gateway client.
func New(cfg Config, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com/v1"
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: http, logger: logger}
}

// KeyID returns the public key identifier for the client-side checkout.
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder creates a remote payment order. The call is bounded by
// CallTimeout; transport errors, 5xx responses, and an open breaker all
// surface as the gateway-unavailable error so the caller can offer the
// offline fallback.
func (c *Client) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	if !c.cfg.Configured() {
		return nil, apperrors.GatewayUnavailable("payment gateway is not configured; pay on delivery is available")
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gateway order request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create gateway order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	start := time.Now()
	resp, err := c.http.Do(ctx, httpReq)
	if err != nil {
		gatewayCallDuration.WithLabelValues("create_order", "error").Observe(time.Since(start).Seconds())
		c.logger.WarnContext(ctx, "payment gateway unreachable",
			slog.String("operation", "create_order"),
			slog.String("error", err.Error()),
		)
		// The breaker fallback already produces the structured error.
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.GatewayUnavailable("payment gateway is unreachable; pay on delivery is available")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		gatewayCallDuration.WithLabelValues("create_order", "error").Observe(time.Since(start).Seconds())
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		c.logger.WarnContext(ctx, "payment gateway rejected order",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return nil, apperrors.GatewayUnavailable("payment gateway rejected the request; pay on delivery is available")
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		gatewayCallDuration.WithLabelValues("create_order", "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("decode gateway order response: %w", err)
	}
	gatewayCallDuration.WithLabelValues("create_order", "success").Observe(time.Since(start).Seconds())

	return &gateway.Order{
		Reference: out.ID,
		Amount:    out.Amount,
		Currency:  out.Currency,
	}, nil
}

// VerifySignature checks a confirmation against the shared key secret.
func (c *Client) VerifySignature(orderRef, paymentRef, signature string) bool {
	return gateway.VerifySignature(c.cfg.KeySecret, orderRef, paymentRef, signature)
}
