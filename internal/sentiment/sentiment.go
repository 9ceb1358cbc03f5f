// Package sentiment classifies the emotional tone of a message through a
// hosted text-classification endpoint (HuggingFace inference API).
//
// Classification never fails from the caller's point of view: transport
// errors, non-2xx statuses and unusable payloads all collapse to Neutral.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-mindcare-backend/internal/config"
)

// Neutral is the label used whenever no valid classification is available.
const Neutral = "neutral"

// maxBodyBytes caps how much of the response is read.
const maxBodyBytes = 1 << 20

// Fallback reasons, used as the "reason" label.
const (
	ReasonTransport = "transport"
	ReasonStatus    = "status"
	ReasonParse     = "parse"
)

var fallbacks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentiment_fallback_total",
		Help: "Sentiment classifications that fell back to neutral, by reason.",
	},
	[]string{"reason"},
)

func init() {
	prometheus.MustRegister(fallbacks)
}

// Client calls the classification endpoint.
type Client struct {
	HTTP    *http.Client
	URL     string
	APIKey  string
	Timeout time.Duration
}

// New returns a Client configured from cfg.
func New(cfg config.SentimentConfig) *Client {
	return &Client{
		HTTP:    &http.Client{},
		URL:     cfg.URL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}
}

type request struct {
	Inputs string `json:"inputs"`
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the top emotion label for text, or Neutral.
func (c *Client) Classify(ctx context.Context, text string) string {
	ctx, span := otel.Tracer("sentiment").Start(ctx, "Classify")
	defer span.End()

	label, reason, err := c.classify(ctx, text)
	if reason != "" {
		fallbacks.WithLabelValues(reason).Inc()
		log.Ctx(ctx).Warn().Err(err).Str("reason", reason).Msg("sentiment fallback")
		span.SetAttributes(attribute.String("sentiment.fallback", reason))
		return Neutral
	}
	span.SetAttributes(attribute.String("sentiment.label", label))
	return label
}

func (c *Client) classify(ctx context.Context, text string) (label, reason string, err error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(request{Inputs: text})
	if err != nil {
		return "", ReasonTransport, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return "", ReasonTransport, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", ReasonTransport, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ReasonStatus, fmt.Errorf("classifier status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", ReasonTransport, err
	}
	label, ok := ParseLabel(body)
	if !ok {
		return "", ReasonParse, fmt.Errorf("unusable classifier payload (%d bytes)", len(body))
	}
	return label, "", nil
}

// ParseLabel extracts the first label of the first candidate group from a
// payload shaped like [[{"label":..,"score":..}, ...]]. It reports false
// when the payload is malformed or empty, or the label is missing.
func ParseLabel(body []byte) (string, bool) {
	var groups [][]candidate
	if err := json.Unmarshal(body, &groups); err != nil {
		return "", false
	}
	if len(groups) == 0 || len(groups[0]) == 0 {
		return "", false
	}
	label := groups[0][0].Label
	if label == "" {
		return "", false
	}
	return label, true
}
