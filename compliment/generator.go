// Package compliment generates short compliments. The remote
// chat-completion path is resilient to transient failures and the local
// fallback pool guarantees output even under total remote outage: Generate
// is a total function and never propagates an error to its caller.
package compliment

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jessrhiannon/kudos/llm"
	"github.com/jessrhiannon/kudos/metrics"
)

// DefaultModel is the model identifier sent on the wire.
const DefaultModel = "gpt-3.5-turbo"

// defaultMaxTokens bounds the completion length; compliments are one-liners.
const defaultMaxTokens = 50

// Completer is the remote completion capability the generator drives.
// *llm.Client implements it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Generator produces one compliment per Generate call. A nil Completer
// means no credentials are configured; Generate then serves from the
// fallback pool without touching the network.
type Generator struct {
	client    Completer
	pool      *FallbackPool
	fallbacks []string
	rng       *rand.Rand
	model     string
	maxTokens int
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source used for request variety and fallback
// selection. Inject a seeded source for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithFallbacks replaces the built-in fallback compliment set.
func WithFallbacks(items ...string) Option {
	return func(g *Generator) {
		g.fallbacks = items
	}
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithMaxTokens sets the completion length bound.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator. Pass a nil client when no API credentials are
// configured.
func New(client Completer, opts ...Option) *Generator {
	g := &Generator{
		client:    client,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	// The pool is built only after all options have applied, so its random
	// source is the final one regardless of option order.
	g.pool = NewFallbackPool(g.rng, g.fallbacks...)

	return g
}

// Generate returns one compliment for the given subject (empty for none).
// It always returns non-empty text: remote failure of any kind degrades to
// a locally sourced compliment.
func (g *Generator) Generate(ctx context.Context, subject string) string {
	// The request is built exactly once; retries resend the identical body.
	// Variety is injected at build time via the nonce and style fields.
	req := BuildRequest(subject, g.rng)

	if g.client == nil {
		g.logger.Info("No API credentials configured, using local compliment")
		metrics.GenerationsTotal.WithLabelValues(metrics.SourceFallback).Inc()
		metrics.FallbacksTotal.WithLabelValues(metrics.ReasonNoCredentials).Inc()
		return g.pool.Pick()
	}

	temperature := req.Temperature
	topP := req.TopP

	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		Messages:    req.Messages(),
		Temperature: &temperature,
		TopP:        &topP,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		reason := metrics.ReasonExhausted
		if llm.IsFatal(err) {
			reason = metrics.ReasonFatal
		}
		g.logger.Warn("Generation failed, using local compliment",
			"reason", reason,
			"status", llm.HTTPStatus(err),
			"error", err)
		metrics.GenerationsTotal.WithLabelValues(metrics.SourceFallback).Inc()
		metrics.FallbacksTotal.WithLabelValues(reason).Inc()
		return g.pool.Pick()
	}

	g.logger.Debug("Generated compliment via API",
		"request_id", resp.RequestID,
		"model", resp.Model,
		"attempts", resp.Attempts,
		"tokens", resp.Usage.TotalTokens)
	metrics.GenerationsTotal.WithLabelValues(metrics.SourceAPI).Inc()
	return resp.Content
}
