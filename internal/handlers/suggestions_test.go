package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	rediscache "github.com/astrovows/starlight-backend/internal/clients/redis"
	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/services"
)

type fakeResolver struct {
	lastEmotion string
	lastCount   int
}

func (f *fakeResolver) Resolve(ctx context.Context, emotionKey string, count int) []services.EmotionSuggestion {
	f.lastEmotion = emotionKey
	f.lastCount = count
	out := make([]services.EmotionSuggestion, count)
	for i := range out {
		out[i] = services.EmotionSuggestion{
			ID:          fmt.Sprintf("test-%d", i+1),
			DisplayName: fmt.Sprintf("Test Star %d", i+1),
			Description: "a star for testing",
			Confidence:  0.5,
			Source:      services.SourceFallback,
		}
	}
	return out
}

type fakeCache struct {
	entries map[string][]services.EmotionSuggestion
	sets    int
}

func cacheKey(emotion string, count int) string {
	return fmt.Sprintf("%s:%d", emotion, count)
}

func (f *fakeCache) Get(ctx context.Context, emotionKey string, count int) ([]services.EmotionSuggestion, bool) {
	got, ok := f.entries[cacheKey(emotionKey, count)]
	return got, ok
}

func (f *fakeCache) Set(ctx context.Context, emotionKey string, count int, suggestions []services.EmotionSuggestion) {
	if f.entries == nil {
		f.entries = map[string][]services.EmotionSuggestion{}
	}
	f.entries[cacheKey(emotionKey, count)] = suggestions
	f.sets++
}

func (f *fakeCache) Close() error { return nil }

func suggestionRouter(resolver services.SuggestionService, cache rediscache.SuggestionCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSuggestionHandler(resolver, cache, logger.NewNop())
	r := gin.New()
	r.GET("/api/suggestions/:emotion", h.GetSuggestions)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func TestGetSuggestionsReturnsFullBatch(t *testing.T) {
	resolver := &fakeResolver{}
	cache := &fakeCache{}
	r := suggestionRouter(resolver, cache)

	w, body := doRequest(t, r, "/api/suggestions/love?count=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var suggestions []services.EmotionSuggestion
	if err := json.Unmarshal(body["suggestions"], &suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}
	if resolver.lastEmotion != "love" || resolver.lastCount != 3 {
		t.Fatalf("resolver called with %q/%d", resolver.lastEmotion, resolver.lastCount)
	}
	if cache.sets != 1 {
		t.Fatalf("expected 1 cache set, got %d", cache.sets)
	}
}

func TestGetSuggestionsDefaultsCount(t *testing.T) {
	resolver := &fakeResolver{}
	r := suggestionRouter(resolver, nil)

	w, _ := doRequest(t, r, "/api/suggestions/hope")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resolver.lastCount != services.DefaultSuggestionCount {
		t.Fatalf("expected default count %d, got %d", services.DefaultSuggestionCount, resolver.lastCount)
	}
}

func TestGetSuggestionsServesFromCache(t *testing.T) {
	resolver := &fakeResolver{}
	cache := &fakeCache{entries: map[string][]services.EmotionSuggestion{
		cacheKey("love", 5): {{ID: "cached-1", DisplayName: "Vega", Confidence: 0.8, Source: services.SourceCatalog}},
	}}
	r := suggestionRouter(resolver, cache)

	w, body := doRequest(t, r, "/api/suggestions/love?count=5")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if string(body["cached"]) != "true" {
		t.Fatalf("expected cached flag, got %s", w.Body.String())
	}
	if resolver.lastEmotion != "" {
		t.Fatalf("resolver must not run on cache hit")
	}
}

func TestGetSuggestionsRejectsBadCount(t *testing.T) {
	resolver := &fakeResolver{}
	r := suggestionRouter(resolver, nil)

	for _, q := range []string{"count=0", "count=21", "count=abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/suggestions/love?"+q, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
	}
	if resolver.lastEmotion != "" {
		t.Fatalf("resolver must not run on invalid input")
	}
}
