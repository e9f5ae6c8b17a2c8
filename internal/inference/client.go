package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/Ojas-Arora/SoundAware/internal/conf"
	"github.com/Ojas-Arora/SoundAware/internal/logging"
	"github.com/Ojas-Arora/SoundAware/internal/myaudio"
	"github.com/Ojas-Arora/SoundAware/internal/observability/metrics"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxResponseBytes  = 1 << 20
)

// Client uploads audio clips to candidate backends and parses prediction
// responses. Candidates are tried strictly in order, one at a time.
type Client struct {
	httpClient *http.Client
	retryDelay time.Duration
	logger     *slog.Logger
	metrics    *metrics.InferenceMetrics
}

// NewClient creates a Client configured from settings.
func NewClient(settings *conf.Settings) *Client {
	timeout := defaultTimeout
	if settings.Backend.Timeout > 0 {
		timeout = time.Duration(settings.Backend.Timeout) * time.Second
	}
	retryDelay := defaultRetryDelay
	if settings.Backend.RetryDelayMs > 0 {
		retryDelay = time.Duration(settings.Backend.RetryDelayMs) * time.Millisecond
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		logger:     logging.ForService("inference"),
	}
}

// SetMetrics attaches Prometheus metrics to the client. Safe to skip.
func (c *Client) SetMetrics(m *metrics.InferenceMetrics) {
	c.metrics = m
}

// HTTPClient exposes the underlying HTTP client so tests can install mock
// transports.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Infer uploads the clip to each candidate base URL in order and returns the
// first parseable successful response. A 5xx status triggers exactly one
// retry of the same candidate after a short delay; any other failure moves
// on to the next candidate. When every candidate is exhausted the result is
// nil with a nil error: that is a normal outcome and the caller is expected
// to fall back to the mock predictor.
func (c *Client) Infer(ctx context.Context, clip *myaudio.Clip, candidates []string) (*Result, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	body, contentType, err := buildUploadBody(clip)
	if err != nil {
		c.logger.Error("failed to build upload body", "error", err)
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.ObserveUploadSize(float64(len(body)))
	}

	for _, candidate := range candidates {
		result := c.tryCandidate(ctx, candidate, body, contentType)
		if result != nil {
			if c.metrics != nil {
				c.metrics.RecordAttempt("backend")
				c.metrics.ObserveConfidence(result.Confidence)
			}
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if c.metrics != nil {
		c.metrics.RecordAttempt("none")
	}
	c.logger.Info("all backend candidates exhausted", "candidates", len(candidates))
	return nil, nil
}

// tryCandidate issues at most two requests against one candidate: the
// original, and a single retry when the first response was a 5xx.
func (c *Client) tryCandidate(ctx context.Context, candidate string, body []byte, contentType string) *Result {
	for attempt := 0; attempt < 2; attempt++ {
		result, retryable := c.doRequest(ctx, candidate, body, contentType)
		if result != nil {
			return result
		}
		if !retryable || attempt > 0 {
			return nil
		}
		if c.metrics != nil {
			c.metrics.RecordRetry()
		}
		select {
		case <-time.After(c.retryDelay):
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// doRequest performs one POST to {candidate}/predict. It returns the parsed
// result on success, or nil plus whether the failure was a 5xx worth one
// same-candidate retry.
func (c *Client) doRequest(ctx context.Context, candidate string, body []byte, contentType string) (result *Result, retryable bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, candidate+"/predict", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("failed to create request", "candidate", candidate, "error", err)
		return nil, false
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveRequestDuration(time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.Debug("candidate unreachable", "candidate", candidate, "error", err)
		if c.metrics != nil {
			c.metrics.RecordCandidateFailure("network")
		}
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode < 600 {
		c.logger.Debug("candidate returned server error", "candidate", candidate, "status", resp.StatusCode)
		if c.metrics != nil {
			c.metrics.RecordCandidateFailure("server_error")
		}
		return nil, true
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("candidate returned non-success status", "candidate", candidate, "status", resp.StatusCode)
		if c.metrics != nil {
			c.metrics.RecordCandidateFailure("client_error")
		}
		return nil, false
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Warn("failed to read response body", "candidate", candidate, "error", err)
		if c.metrics != nil {
			c.metrics.RecordCandidateFailure("malformed_response")
		}
		return nil, false
	}

	var pr predictResponse
	if err := json.Unmarshal(payload, &pr); err != nil {
		c.logger.Warn("unparseable prediction response", "candidate", candidate, "error", err)
		if c.metrics != nil {
			c.metrics.RecordCandidateFailure("malformed_response")
		}
		return nil, false
	}

	c.logger.Debug("prediction received", "candidate", candidate, "label", pr.PredLabel)
	return pr.toResult(), false
}

// buildUploadBody renders the clip as a multipart form with a single part
// named "file". The filename extension is forced to .wav so the backend
// treats the payload uniformly; the part content type still reflects the
// actual container when the bytes were not converted.
func buildUploadBody(clip *myaudio.Clip) (body []byte, contentType string, err error) {
	reader, closeFn, err := clip.Open()
	if err != nil {
		return nil, "", err
	}
	defer closeFn()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+clip.Filename()+`"`)
	header.Set("Content-Type", clip.ContentType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, reader); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
