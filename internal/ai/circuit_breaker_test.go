package ai

import (
	"fmt"
	"testing"
	"time"

	"atscore/internal/config"

	"google.golang.org/genai"
)

func TestGenerationBreakerConfiguration(t *testing.T) {
	cfg := config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}

	cb := NewGenerationBreaker("AI-Analyze", cfg, nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.Stats()
	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-Analyze" {
		t.Errorf("Expected circuit breaker name 'AI-Analyze', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestGenerationBreakerTrips(t *testing.T) {
	cb := NewGenerationBreaker("AI-Trip", config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.5,
	}, nil)

	calls := 0
	failing := func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, fmt.Errorf("upstream unavailable")
	}

	for range 3 {
		if _, err := cb.Execute(failing); err == nil {
			t.Fatal("Expected error from failing call")
		}
	}

	if cb.IsHealthy() {
		t.Error("Circuit breaker should be open after repeated failures")
	}

	// open breaker rejects without calling through
	if _, err := cb.Execute(failing); err == nil {
		t.Error("Expected open breaker to reject the call")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls to reach the function, got %d", calls)
	}
}

func TestGenerationBreakerDisabled(t *testing.T) {
	cb := NewGenerationBreaker("Disabled", config.CircuitBreakerConfig{Enabled: false}, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// nil breaker passes calls through
	resp := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) { return resp, nil })
	if err != nil || got != resp {
		t.Errorf("Expected pass-through result, got %v, %v", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("Disabled breaker should report healthy")
	}
	if enabled, _ := cb.Stats()["enabled"].(bool); enabled {
		t.Error("Disabled breaker should report enabled=false")
	}
}
