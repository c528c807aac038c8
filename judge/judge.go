// Package judge implements Judge Orchestration (spec §4.8): submitting code
// to the external judge sandbox over HTTP, a fingerprint result cache, and
// detached-worker dispatch so the Room actor's loop never blocks on the
// judge round-trip (spec §5, grounded on wsnet2's pattern of never
// blocking Room.MsgLoop on I/O — judge calls run the same way wsnet2's
// Peer read-loop runs off the Room's own goroutine and reports back only
// through a channel/message).
package judge

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Tien-Cheng/leetcode-99-sub000/metrics"
	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

// Kind is run or submit (spec §4.8).
type Kind string

const (
	KindRun    Kind = "run"
	KindSubmit Kind = "submit"
)

// Request bundles what the judge sandbox needs to grade one attempt.
type Request struct {
	Problem  *wire.Problem
	Code     string
	Kind     Kind
	OptionID string // for MCQ problems
}

// Client submits code to the external judge sandbox over HTTP and caches
// passing results by fingerprint.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	cache map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	result  *wire.JudgeResultPayload
	expires time.Time
}

// NewClient builds a judge Client. connectTimeout bounds the HTTP
// round-trip itself (the outer per-submission timeout is
// problem.TimeLimitMs+5s per spec §5 and is applied by the caller via
// context).
func NewClient(baseURL string, connectTimeout, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: connectTimeout},
		baseURL:    baseURL,
		cache:      make(map[string]cacheEntry),
		ttl:        cacheTTL,
	}
}

// Fingerprint computes the cache key (spec §4.8:
// "sha256(code)[0..16] + ':' + problemId").
func Fingerprint(code, problemID string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])[:16] + ":" + problemID
}

func (c *Client) cacheGet(key string) (*wire.JudgeResultPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[key]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.result, true
}

func (c *Client) cachePut(key string, result *wire.JudgeResultPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{result: result, expires: time.Now().Add(c.ttl)}
}

// transportRequest/transportResponse is the wire shape of the HTTP call to
// the external judge sandbox. The sandbox itself is out of scope (spec §1);
// this is only the client-side contract.
type transportRequest struct {
	ProblemID   string         `json:"problemId"`
	Code        string         `json:"code"`
	OptionID    string         `json:"optionId,omitempty"`
	Kind        Kind           `json:"kind"`
	TimeLimitMs int            `json:"timeLimitMs"`
	Tests       []wire.TestCase `json:"tests"`
}

type transportResponse struct {
	Passed               bool              `json:"passed"`
	RuntimeMs            *int              `json:"runtimeMs,omitempty"`
	Results              []wire.TestResult `json:"results"`
	HiddenTestsPassed    *int              `json:"hiddenTestsPassed,omitempty"`
	HiddenFailureMessage string            `json:"hiddenFailureMessage,omitempty"`
}

// Submit performs one synchronous judge call, consulting and populating the
// fingerprint cache (spec §4.8: "only passing results are cached").
// Only errors of the two contract classes from spec §4.8 are returned:
// transport failures surface as JUDGE_UNAVAILABLE, anything else as
// INTERNAL_ERROR (both via *wire.Error).
func (c *Client) Submit(ctx context.Context, req Request) (*wire.JudgeResultPayload, error) {
	key := Fingerprint(req.Code, req.Problem.ProblemID)
	if cached, ok := c.cacheGet(key); ok {
		metrics.JudgeCacheHits.Add(1)
		out := *cached
		out.Kind = string(req.Kind)
		return &out, nil
	}

	metrics.JudgeCalls.Add(1)

	tests := req.Problem.PublicTests
	if req.Kind == KindSubmit {
		tests = append(append([]wire.TestCase{}, req.Problem.PublicTests...), req.Problem.HiddenTests...)
	}

	payload, err := json.Marshal(transportRequest{
		ProblemID:   req.Problem.ProblemID,
		Code:        req.Code,
		OptionID:    req.OptionID,
		Kind:        req.Kind,
		TimeLimitMs: req.Problem.TimeLimitMs,
		Tests:       tests,
	})
	if err != nil {
		metrics.JudgeFailures.Add(1)
		return nil, wire.NewError(wire.ErrInternal, "judge: encode request: "+err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit", bytes.NewReader(payload))
	if err != nil {
		metrics.JudgeFailures.Add(1)
		return nil, wire.NewError(wire.ErrInternal, "judge: build request: "+err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.JudgeTimeouts.Add(1)
		if ctx.Err() != nil {
			return nil, wire.NewJudgeUnavailable("judge: timed out", nil)
		}
		return nil, wire.NewJudgeUnavailable("judge: "+err.Error(), nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		metrics.JudgeFailures.Add(1)
		retry := int64(2000)
		return nil, wire.NewJudgeUnavailable("judge: sandbox error", &retry)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.JudgeFailures.Add(1)
		return nil, wire.NewError(wire.ErrInternal, "judge: unexpected status")
	}

	var tr transportResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		metrics.JudgeFailures.Add(1)
		return nil, wire.NewError(wire.ErrInternal, "judge: decode response: "+err.Error())
	}

	result := &wire.JudgeResultPayload{
		Kind:                 string(req.Kind),
		ProblemID:            req.Problem.ProblemID,
		Passed:               tr.Passed,
		PublicTests:          publicOnly(tr.Results, len(req.Problem.PublicTests)),
		RuntimeMs:            tr.RuntimeMs,
		HiddenTestsPassed:    tr.HiddenTestsPassed,
		HiddenFailureMessage: tr.HiddenFailureMessage,
	}

	if result.Passed {
		c.cachePut(key, result)
	}

	return result, nil
}

func publicOnly(results []wire.TestResult, n int) []wire.TestResult {
	if n >= len(results) {
		return results
	}
	return results[:n]
}

// Result is what the detached worker posts back into the Room's inbox
// (spec §5: "delivers the JudgeResult back to the actor as a normal
// inbound event tagged with the originating (playerId, problemId,
// requestId)").
type Result struct {
	PlayerID  string
	ProblemID string
	RequestID string
	Kind      Kind
	Payload   *wire.JudgeResultPayload
	Err       error
}

// SubmitAsync runs Submit on a detached goroutine with the spec's outer
// timeout (problem.TimeLimitMs + 5s) and posts the Result to deliver.
// deliver must not block indefinitely; Room wires it to its own inbox
// channel.
func (c *Client) SubmitAsync(ctx context.Context, playerID string, req Request, requestID string, deliver func(Result)) {
	timeout := time.Duration(req.Problem.TimeLimitMs)*time.Millisecond + 5*time.Second
	go func() {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		payload, err := c.Submit(cctx, req)
		deliver(Result{
			PlayerID:  playerID,
			ProblemID: req.Problem.ProblemID,
			RequestID: requestID,
			Kind:      req.Kind,
			Payload:   payload,
			Err:       err,
		})
	}()
}
