package origin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

func testClient(url string, maxAttempts int) *Client {
	return NewClient(url, 5*time.Second, DefaultPolicy(maxAttempts, time.Millisecond), logger.NewNop())
}

func TestTriggerParsesInlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/"+EndpointSupremeCourtOTF {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"case_number":"CRL.A 1/2024"}]}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL, 1).Trigger(context.Background(), Request{
		Endpoint: EndpointSupremeCourtOTF,
		Payload:  map[string]string{"diaryNumber": "1234/2024"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].CaseNumber != "CRL.A 1/2024" {
		t.Errorf("Expected inline case number, got %+v", res.Data)
	}
}

func TestTriggerRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Trigger(context.Background(), Request{
		Endpoint: EndpointDistrictJudgments,
		Payload:  map[string]string{},
	})
	if err != nil {
		t.Fatalf("Expected retries to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestTriggerDoesNotRetryRejections(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Trigger(context.Background(), Request{
		Endpoint: EndpointNCLTJudgments,
		Payload:  map[string]string{},
	})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Expected ErrRejected, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly 1 attempt for a 4xx, got %d", got)
	}
}

func TestTriggerExhaustedRetriesSurfaceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 2).Trigger(context.Background(), Request{
		Endpoint: EndpointHighCourtUpsert,
		Payload:  map[string]string{},
	})
	if !IsUnavailable(err) {
		t.Fatalf("Expected unavailable classification, got %v", err)
	}
}

func TestTriggerEmptyBodyIsOpaqueSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := testClient(srv.URL, 1).Trigger(context.Background(), Request{
		Endpoint: EndpointEastDelhiJudgments,
		Payload:  map[string]string{},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Data) != 0 {
		t.Errorf("Expected no inline data, got %+v", res.Data)
	}
}

func TestBackoffPolicyStopsOnNonRetryable(t *testing.T) {
	calls := 0
	policy := BackoffPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		Retryable:   func(err error) bool { return false },
	}

	sentinel := errors.New("permanent")
	err := policy.Do(context.Background(), func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestBackoffPolicyHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := DefaultPolicy(3, 50*time.Millisecond)
	err := policy.Do(ctx, func() error {
		return ErrUnavailable
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context cancellation, got %v", err)
	}
}
