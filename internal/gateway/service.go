package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/model-sync-api/internal/core/domain"
	"github.com/nulzo/model-sync-api/internal/core/ports"
	"github.com/nulzo/model-sync-api/internal/httpclient"
	"github.com/nulzo/model-sync-api/internal/logger"
	"github.com/nulzo/model-sync-api/pkg/schema"
	"go.uber.org/zap"
)

// StreamResult is one streamed chunk or a terminal error.
type StreamResult struct {
	Response *schema.ChatResponse
	Err      error
}

// DispatchRecorder persists per-request audit rows. Optional.
type DispatchRecorder interface {
	RecordDispatch(ctx context.Context, requestID, modelID, outcome string, took time.Duration) error
}

// Service is the request-dispatch path: lookup in the published
// registry, credential gate, forward to the upstream backend.
type Service interface {
	ListModels() schema.Registry
	Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error)
	StreamChat(ctx context.Context, req *schema.ChatRequest) (<-chan StreamResult, error)
}

type service struct {
	registry  ports.ModelRegistry
	recorder  DispatchRecorder
	client    httpclient.HTTPClient
	baseURL   string
	apiKey    func() string
	apiKeyEnv string
}

// NewService builds the dispatch service. apiKey is resolved per call so
// a credential exported after startup is picked up without a restart.
func NewService(registry ports.ModelRegistry, recorder DispatchRecorder, baseURL, apiKeyEnv string, apiKey func() string) Service {
	return &service{
		registry:  registry,
		recorder:  recorder,
		client:    &http.Client{Timeout: 120 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiKeyEnv: apiKeyEnv,
	}
}

func (s *service) ListModels() schema.Registry {
	return s.registry.List()
}

// gate refuses unknown ids and paid models without a credential.
func (s *service) gate(modelID string) (*schema.ModelRecord, error) {
	rec, err := s.registry.Lookup(modelID)
	if err != nil {
		return nil, err
	}
	if !rec.Free() && s.apiKey() == "" {
		return nil, domain.CredentialRequiredError(s.apiKeyEnv)
	}
	return rec, nil
}

func (s *service) headers() map[string]string {
	h := map[string]string{}
	if key := s.apiKey(); key != "" {
		h["Authorization"] = "Bearer " + key
	}
	return h
}

func (s *service) Chat(ctx context.Context, req *schema.ChatRequest) (*schema.ChatResponse, error) {
	requestID := uuid.NewString()
	start := time.Now()

	if _, err := s.gate(req.Model); err != nil {
		s.record(ctx, requestID, req.Model, "refused", time.Since(start))
		return nil, err
	}

	var resp schema.ChatResponse
	err := httpclient.SendRequest(ctx, s.client, http.MethodPost, s.baseURL+"/chat/completions", s.headers(), req, &resp)
	if err != nil {
		s.record(ctx, requestID, req.Model, "upstream_error", time.Since(start))
		return nil, domain.SourceError("upstream request failed", err)
	}

	s.record(ctx, requestID, req.Model, "ok", time.Since(start))
	return &resp, nil
}

func (s *service) StreamChat(ctx context.Context, req *schema.ChatRequest) (<-chan StreamResult, error) {
	requestID := uuid.NewString()
	start := time.Now()

	if _, err := s.gate(req.Model); err != nil {
		s.record(ctx, requestID, req.Model, "refused", time.Since(start))
		return nil, err
	}

	out := make(chan StreamResult)
	go func() {
		defer close(out)

		err := httpclient.StreamRequest(ctx, s.client, http.MethodPost, s.baseURL+"/chat/completions", s.headers(), req, func(line string) error {
			payload, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				return nil
			}
			if strings.TrimSpace(payload) == "[DONE]" {
				return nil
			}

			var chunk schema.ChatResponse
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				logger.Debug("skipping unparseable stream chunk", zap.Error(err))
				return nil
			}

			select {
			case out <- StreamResult{Response: &chunk}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		if err != nil {
			s.record(ctx, requestID, req.Model, "upstream_error", time.Since(start))
			select {
			case out <- StreamResult{Err: domain.SourceError("upstream stream failed", err)}:
			case <-ctx.Done():
			}
			return
		}

		s.record(ctx, requestID, req.Model, "ok", time.Since(start))
	}()

	return out, nil
}

func (s *service) record(ctx context.Context, requestID, modelID, outcome string, took time.Duration) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordDispatch(ctx, requestID, modelID, outcome, took); err != nil {
		logger.Warn("failed to record dispatch", zap.Error(err))
	}
}
