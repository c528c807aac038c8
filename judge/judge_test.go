package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tien-Cheng/leetcode-99-sub000/wire"
)

func sampleProblem() *wire.Problem {
	return &wire.Problem{
		ProblemID:   "two-sum",
		Title:       "Two Sum",
		Difficulty:  wire.DifficultyEasy,
		ProblemType: wire.ProblemTypeCode,
		TimeLimitMs: 2000,
		PublicTests: []wire.TestCase{{Input: "[1,2]", Expected: "3"}},
		HiddenTests: []wire.TestCase{{Input: "[3,4]", Expected: "7"}},
	}
}

func TestSubmitCachesOnlyPassingResults(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(transportResponse{Passed: true, Results: []wire.TestResult{{Passed: true}}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 30*time.Second)
	req := Request{Problem: sampleProblem(), Code: "return a+b", Kind: KindRun}

	r1, err := c.Submit(context.Background(), req)
	require.NoError(t, err)
	require.True(t, r1.Passed)

	r2, err := c.Submit(context.Background(), req)
	require.NoError(t, err)
	require.True(t, r2.Passed)

	require.Equal(t, 1, calls, "second identical submission should hit the cache, not the transport")
}

func TestSubmitDoesNotCacheFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(transportResponse{Passed: false})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 30*time.Second)
	req := Request{Problem: sampleProblem(), Code: "return wrong", Kind: KindRun}

	_, _ = c.Submit(context.Background(), req)
	_, _ = c.Submit(context.Background(), req)

	require.Equal(t, 2, calls, "failing results must not be cached")
}

func TestSubmitTransportFailureIsJudgeUnavailable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 50*time.Millisecond, 30*time.Second)
	_, err := c.Submit(context.Background(), Request{Problem: sampleProblem(), Code: "x", Kind: KindRun})
	require.Error(t, err)
	werr, ok := err.(*wire.Error)
	require.True(t, ok)
	require.Equal(t, wire.ErrJudgeUnavailable, werr.Code)
}

func TestSubmitServerErrorIsJudgeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 30*time.Second)
	_, err := c.Submit(context.Background(), Request{Problem: sampleProblem(), Code: "x", Kind: KindRun})
	require.Error(t, err)
	werr, ok := err.(*wire.Error)
	require.True(t, ok)
	require.Equal(t, wire.ErrJudgeUnavailable, werr.Code)
	require.NotNil(t, werr.RetryAfterMs)
}

func TestSubmitAsyncDeliversResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transportResponse{Passed: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 30*time.Second)

	var mu sync.Mutex
	var got *Result
	done := make(chan struct{})

	c.SubmitAsync(context.Background(), "alice", Request{Problem: sampleProblem(), Code: "x", Kind: KindSubmit}, "req-1", func(r Result) {
		mu.Lock()
		got = &r
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	require.Equal(t, "alice", got.PlayerID)
	require.Equal(t, "req-1", got.RequestID)
	require.NoError(t, got.Err)
	require.True(t, got.Payload.Passed)
}

func TestFingerprintDeterministic(t *testing.T) {
	f1 := Fingerprint("code-a", "two-sum")
	f2 := Fingerprint("code-a", "two-sum")
	f3 := Fingerprint("code-b", "two-sum")
	require.Equal(t, f1, f2)
	require.NotEqual(t, f1, f3)
}
