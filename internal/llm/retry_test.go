package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

var okJSON = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetryAttempts(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{okJSON}, false, 1},
		{"outage then success", []MockResponse{down(), okJSON}, false, 2},
		{"outage every time", []MockResponse{down(), down(), down()}, true, 3},
		{"rate limit honours retry-after", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
			okJSON,
		}, false, 2},
		{"bad request not retried", []MockResponse{
			{Err: &ErrBadRequest{StatusCode: 400, Err: errors.New("bad model")}},
			okJSON,
		}, true, 1},
		{"max tokens not retried", []MockResponse{
			{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}},
			okJSON,
		}, true, 1},
		{"malformed retried once", []MockResponse{
			{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("nope")}},
			{Err: &ErrInvalidResponse{Content: json.RawMessage(`nope`), Err: errors.New("nope")}},
			okJSON,
		}, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry(), nil).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	mock := NewMockProvider(down(), down(), okJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, fastRetry(), nil).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetryDelayCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 10 * time.Millisecond, MaxWait: 40 * time.Millisecond, Multiplier: 3}}
	for attempt := 0; attempt < 6; attempt++ {
		d := r.delay(attempt, errors.New("x"))
		if d > 48*time.Millisecond {
			t.Fatalf("attempt %d: delay %v above cap plus jitter", attempt, d)
		}
	}
}

func TestRetryModelID(t *testing.T) {
	if got := WithRetry(NewMockProvider(), fastRetry(), nil).ModelID(); got != "mock" {
		t.Fatalf("ModelID = %q", got)
	}
}
