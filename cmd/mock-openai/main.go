// Package main implements a mock OpenAI-compatible server for exercising
// kudos without the real API. It serves canned compliments from
// /v1/chat/completions and can inject failures: with -fail-status and
// -fail-count set, the first N requests fail with the given HTTP status,
// which makes the retry and fallback paths observable end to end.
//
// Usage:
//
//	mock-openai -port 8080
//	mock-openai -port 8080 -fail-status 503 -fail-count 2
//	OPENAI_BASE_URL=http://localhost:8080/v1 kudos -v
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// --- OpenAI-compatible types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// cannedCompliments are the responses the mock cycles through.
var cannedCompliments = []string{
	"Your attention to detail would make a compiler blush.",
	"You ask the questions everyone else was afraid to.",
	"Code reviews are better when you're in them.",
	"You debug with the patience of a saint and the aim of a sniper.",
	"Your commit messages are a public service.",
}

// capturedRequest stores the key fields of an incoming request for
// verification via /requests.
type capturedRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	CallIndex int           `json:"call_index"` // 1-indexed
	Timestamp int64         `json:"timestamp"`
}

type server struct {
	calls atomic.Int64 // total completion calls served

	// Failure injection: the first failCount calls answer failStatus.
	failStatus int
	failCount  int64

	// Artificial latency per completion call.
	latency time.Duration

	requests   []capturedRequest
	requestsMu sync.Mutex

	rng   *rand.Rand
	rngMu sync.Mutex
}

func newServer(failStatus int, failCount int, latency time.Duration) *server {
	return &server{
		failStatus: failStatus,
		failCount:  int64(failCount),
		latency:    latency,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

func (s *server) pickCompliment() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return cannedCompliments[s.rng.IntN(len(cannedCompliments))]
}

func (s *server) captureRequest(req chatRequest, callIndex int64) {
	s.requestsMu.Lock()
	defer s.requestsMu.Unlock()
	s.requests = append(s.requests, capturedRequest{
		Model:     req.Model,
		Messages:  req.Messages,
		CallIndex: int(callIndex),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	callNum := s.calls.Add(1)
	s.captureRequest(req, callNum)
	log.Printf("[call %d] model=%s messages=%d", callNum, req.Model, len(req.Messages))

	if s.latency > 0 {
		time.Sleep(s.latency)
	}

	if s.failStatus != 0 && callNum <= s.failCount {
		log.Printf("[call %d] injecting failure: HTTP %d (%d of %d)", callNum, s.failStatus, callNum, s.failCount)
		http.Error(w, "injected failure", s.failStatus)
		return
	}

	content := s.pickCompliment()
	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      chatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(req.Messages) * 10,
			CompletionTokens: 12,
			TotalTokens:      len(req.Messages)*10 + 12,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{"calls": s.calls.Load()})
}

func (s *server) handleRequests(w http.ResponseWriter, _ *http.Request) {
	s.requestsMu.Lock()
	defer s.requestsMu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.requests)
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/requests", s.handleRequests)
	return mux
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	failStatus := flag.Int("fail-status", 0, "HTTP status to answer for injected failures (0 = disabled)")
	failCount := flag.Int("fail-count", 0, "number of initial requests to fail")
	latency := flag.Duration("latency", 0, "artificial latency per completion call")
	flag.Parse()

	s := newServer(*failStatus, *failCount, *latency)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock OpenAI server listening on %s", addr)
	if *failStatus != 0 {
		log.Printf("Failure injection: first %d request(s) answer HTTP %d", *failCount, *failStatus)
	}
	if err := http.ListenAndServe(addr, s.routes()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
