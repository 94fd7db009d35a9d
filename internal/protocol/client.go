// Package protocol is the client side of the exercise request protocol: it sends a
// generate request to the proxy and hands back the model's raw JSON payload.
package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"exercise-forge/internal/config"
	"exercise-forge/internal/domain"
	"exercise-forge/internal/dto"
	"exercise-forge/internal/normalize"
	"exercise-forge/internal/util"
)

const generatePath = "/api/generate"

// maxBodySize caps what is read from the proxy; completions are a few KB.
const maxBodySize = 4 << 20

// Config is passed explicitly; the client keeps no process-wide state.
type Config struct {
	// APIKey is the proxy access key, not the vendor credential. Optional.
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// The wire types are shared with the proxy handler.
type (
	GenerateRequest    = dto.GenerateRequest
	CompletionEnvelope = dto.CompletionEnvelope
	CompletionChoice   = dto.CompletionChoice
)

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, domain.NewInvalidConfigError("proxy base URL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, httpClient: &http.Client{}, logger: logger}, nil
}

// NewClientFromConfig builds a client from the proxy section of the app config.
func NewClientFromConfig(cfg config.ProxyConfig, logger *zap.Logger) (*Client, error) {
	return NewClient(Config{APIKey: cfg.AccessKey, BaseURL: cfg.URL, Timeout: cfg.Timeout}, logger)
}

// Submit sends one request and returns the parsed model content. The whole round
// trip is bounded by the configured timeout; when it fires the request is cancelled
// and a RequestTimeout error is returned. There are no retries.
func (c *Client) Submit(ctx context.Context, req domain.ExerciseRequest) (domain.RawModelPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(GenerateRequest{
		Type:           string(req.Kind),
		KnowledgePoint: req.KnowledgePoint,
		Count:          req.DesiredCount,
	})
	if err != nil {
		return domain.RawModelPayload{}, domain.NewInternalError("failed to encode generate request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return domain.RawModelPayload{}, domain.NewTransportError("failed to build generate request", 0, nil, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("exercise request timed out",
				zap.String("type", string(req.Kind)),
				zap.Duration("timeout", c.cfg.Timeout))
			return domain.RawModelPayload{}, domain.NewRequestTimeoutError(err)
		}
		return domain.RawModelPayload{}, domain.NewTransportError("", 0, nil, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.RawModelPayload{}, domain.NewRequestTimeoutError(err)
		}
		return domain.RawModelPayload{}, domain.NewTransportError("failed to read proxy response", resp.StatusCode, nil, err)
	}

	c.logger.Debug("exercise request completed",
		zap.String("type", string(req.Kind)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RawModelPayload{}, transportErrorFrom(resp.StatusCode, raw)
	}
	return parseEnvelope(raw)
}

// GenerateMultipleChoice submits and normalizes a multiple-choice request.
func (c *Client) GenerateMultipleChoice(ctx context.Context, knowledgePoint string, count int) ([]domain.MultipleChoiceQuestion, error) {
	req, err := domain.NewExerciseRequest(string(domain.KindMultipleChoice), knowledgePoint, count)
	if err != nil {
		return nil, err
	}
	payload, err := c.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return normalize.MultipleChoice(payload, req.DesiredCount)
}

// GenerateGapFill submits and normalizes a gap-fill request.
func (c *Client) GenerateGapFill(ctx context.Context, knowledgePoint string) (domain.GapFillExercise, error) {
	req, err := domain.NewExerciseRequest(string(domain.KindGapFill), knowledgePoint, 0)
	if err != nil {
		return domain.GapFillExercise{}, err
	}
	payload, err := c.Submit(ctx, req)
	if err != nil {
		return domain.GapFillExercise{}, err
	}
	return normalize.GapFill(payload)
}

func transportErrorFrom(status int, raw []byte) error {
	var body struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		var details interface{}
		var text string
		switch {
		case len(body.Details) == 0 || string(body.Details) == "null":
		case json.Unmarshal(body.Details, &text) == nil:
			details = text
		default:
			details = string(body.Details)
		}
		return domain.NewTransportError(body.Error, status, details, nil)
	}

	msg := fmt.Sprintf("proxy returned status %d", status)
	var details interface{}
	if text := strings.TrimSpace(string(raw)); text != "" {
		details = text
	}
	return domain.NewTransportError(msg, status, details, nil)
}

func parseEnvelope(raw []byte) (domain.RawModelPayload, error) {
	var env CompletionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.RawModelPayload{}, domain.NewMalformedResponseError("proxy response is not a completion envelope", err)
	}
	if len(env.Choices) == 0 {
		return domain.RawModelPayload{}, domain.NewMalformedResponseError("completion has no choices", nil)
	}
	return domain.ParseRawModelPayload(util.StripCodeFences(env.Choices[0].Message.Content))
}
