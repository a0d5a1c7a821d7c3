package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/astrovows/starlight-backend/internal/logger"
)

func newTestStarGen(t *testing.T, baseURL string) StarGenClient {
	t.Helper()
	t.Setenv("STARGEN_BASE_URL", baseURL)
	t.Setenv("STARGEN_API_KEY", "test-key")
	client, err := NewStarGenClient(logger.NewNop())
	if err != nil {
		t.Fatalf("NewStarGenClient: %v", err)
	}
	return client
}

func TestStarGenClientParsesSuccessfulResponse(t *testing.T) {
	var gotAuth, gotEmotion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/emotions/stars" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotEmotion = body["emotion"]
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"stars": []map[string]any{
				{"name": "Vega", "description": "a steady flame", "generated_at": time.Now().UTC()},
				{"name": "Altair", "description": "the swift eagle", "generated_at": time.Now().UTC()},
			},
		})
	}))
	defer srv.Close()

	client := newTestStarGen(t, srv.URL)
	stars, err := client.GenerateStars(context.Background(), "love")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stars) != 2 || stars[0].Name != "Vega" || stars[1].Description != "the swift eagle" {
		t.Fatalf("unexpected stars: %+v", stars)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotEmotion != "love" {
		t.Fatalf("expected emotion in payload, got %q", gotEmotion)
	}
}

func TestStarGenClientTreatsUnsuccessfulResponseAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "stars": []any{}})
	}))
	defer srv.Close()

	client := newTestStarGen(t, srv.URL)
	if _, err := client.GenerateStars(context.Background(), "love"); !errors.Is(err, ErrStarGenUnavailable) {
		t.Fatalf("expected ErrStarGenUnavailable, got %v", err)
	}
}

func TestStarGenClientTreatsEmptyStarListAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "stars": []any{}})
	}))
	defer srv.Close()

	client := newTestStarGen(t, srv.URL)
	if _, err := client.GenerateStars(context.Background(), "love"); !errors.Is(err, ErrStarGenUnavailable) {
		t.Fatalf("expected ErrStarGenUnavailable, got %v", err)
	}
}

func TestStarGenClientTreatsHTTPErrorAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestStarGen(t, srv.URL)
	if _, err := client.GenerateStars(context.Background(), "love"); !errors.Is(err, ErrStarGenUnavailable) {
		t.Fatalf("expected ErrStarGenUnavailable, got %v", err)
	}
}

func TestStarGenClientHonorsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := newTestStarGen(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.GenerateStars(ctx, "love"); !errors.Is(err, ErrStarGenUnavailable) {
		t.Fatalf("expected ErrStarGenUnavailable on deadline, got %v", err)
	}
}

func TestStarGenClientRequiresBaseURL(t *testing.T) {
	t.Setenv("STARGEN_BASE_URL", "")
	if _, err := NewStarGenClient(logger.NewNop()); err == nil {
		t.Fatalf("expected error when STARGEN_BASE_URL is unset")
	}
}
