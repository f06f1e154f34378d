// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing completion interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/jessrhiannon/kudos/llm"
)

// Outcome is one scripted result for a MockCompleter call.
type Outcome struct {
	Resp *llm.Response
	Err  error
}

// MockCompleter is a thread-safe scripted completer for testing.
// Each Complete() call consumes the next configured outcome; after the
// script is exhausted the last outcome repeats.
//
// Usage:
//
//	// Always succeed
//	mock := &testutil.MockCompleter{
//	    Outcomes: []testutil.Outcome{
//	        {Resp: &llm.Response{Content: "Hello!"}},
//	    },
//	}
//
//	// Fail fatally
//	mock := &testutil.MockCompleter{
//	    Outcomes: []testutil.Outcome{
//	        {Err: llm.NewFatalError(errors.New("bad request"))},
//	    },
//	}
type MockCompleter struct {
	mu              sync.Mutex
	capturedContext context.Context
	capturedReqs    []llm.Request
	Outcomes        []Outcome
	callCount       int
}

// Complete implements the compliment.Completer interface.
func (m *MockCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.capturedContext = ctx
	m.capturedReqs = append(m.capturedReqs, req)
	m.callCount++

	if len(m.Outcomes) == 0 {
		return &llm.Response{Content: "mock completion", Model: "mock-model"}, nil
	}

	idx := m.callCount - 1
	if idx >= len(m.Outcomes) {
		idx = len(m.Outcomes) - 1
	}
	outcome := m.Outcomes[idx]
	return outcome.Resp, outcome.Err
}

// CallCount returns the number of times Complete() was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// CapturedRequests returns the requests passed to Complete() in order.
func (m *MockCompleter) CapturedRequests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.capturedReqs...)
}

// CapturedContext returns the last context passed to Complete().
func (m *MockCompleter) CapturedContext() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capturedContext
}

// Reset clears the mock's recorded state.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.capturedReqs = nil
	m.capturedContext = nil
}
