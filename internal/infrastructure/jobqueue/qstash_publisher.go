package jobqueue

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/survivor-pool/internal/platform/resilience"
)

const roundCheckPath = "/internal/jobs/round-check"

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher schedules deferred round checks through Upstash
// QStash. The deduplication ID is derived from (season, round, due
// time), so re-enqueueing the same check collapses server side.
type QStashPublisher struct {
	client           *fasthttp.Client
	breaker          *resilience.CircuitBreaker
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *slog.Logger
}

type roundCheckPayload struct {
	SeasonID string `json:"season_id"`
	Round    int    `json:"round"`
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *slog.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QStashPublisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		breaker:          resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
	}
}

// EnqueueRoundCheck publishes a round-check job that fires no earlier
// than notBefore. A notBefore in the past publishes immediately.
func (p *QStashPublisher) EnqueueRoundCheck(ctx context.Context, seasonID string, round int, notBefore time.Time) error {
	if seasonID == "" {
		return errors.New("season id is required")
	}
	if round <= 0 {
		return errors.Newf("round must be greater than zero, got %d", round)
	}
	if p.breaker.Allow() != nil {
		return errors.New("qstash circuit open, round check not published")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return errors.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	targetURL := targetBaseURL + roundCheckPath
	publishURL := baseURL + "/v2/publish/" + targetURL

	body, err := sonic.Marshal(roundCheckPayload{SeasonID: seasonID, Round: round})
	if err != nil {
		return errors.Wrap(err, "marshal round check payload")
	}

	delay := time.Until(notBefore)
	dedupID := fmt.Sprintf("round-check::%s::%d::%d", seasonID, round, notBefore.UTC().Unix())

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.publish_url", publishURL),
			attribute.String("qstash.deduplication_id", dedupID),
			attribute.Int("round.number", round),
		)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(publishURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.SetContentType("application/json")
	req.Header.Set("Upstash-Method", fasthttp.MethodPost)
	req.Header.Set("Upstash-Deduplication-Id", dedupID)
	if p.retries > 0 {
		req.Header.Set("Upstash-Retries", fmt.Sprintf("%d", p.retries))
	}
	if delay > 0 {
		req.Header.Set("Upstash-Delay", normalizeDelay(delay))
	}
	if p.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", p.internalJobToken)
	}
	req.SetBody(body)

	deadline := time.Now().Add(10 * time.Second)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		p.breaker.RecordFailure()
		return errors.Wrapf(err, "publish round check publish_url=%s", publishURL)
	}

	if resp.StatusCode()/100 != 2 {
		p.breaker.RecordFailure()
		return errors.Newf(
			"publish round check status=%d publish_url=%s body=%s",
			resp.StatusCode(), publishURL, truncateForLog(string(resp.Body()), 2048),
		)
	}
	p.breaker.RecordSuccess()

	p.logger.InfoContext(ctx, "round check published",
		"season_id", seasonID,
		"round", round,
		"delay", normalizeDelay(delay),
		"deduplication_id", dedupID,
	)

	return nil
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	seconds := int(delay.Round(time.Second).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = fmt.Fprintf(buf, "%ds", seconds)

	return buf.String()
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
