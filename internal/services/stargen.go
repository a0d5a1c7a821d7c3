package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/utils"
)

// ErrStarGenUnavailable covers every stage-1 failure mode: transport
// errors, timeouts, an unsuccessful response, or an empty star list. The
// resolver absorbs it and degrades to the catalog stage.
var ErrStarGenUnavailable = errors.New("star generator unavailable")

// StarGenStar is one proposed star from the generator.
type StarGenStar struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generated_at"`
}

type starGenResponse struct {
	Success bool          `json:"success"`
	Stars   []StarGenStar `json:"stars"`
}

// StarGenClient is the external AI generator collaborator.
type StarGenClient interface {
	GenerateStars(ctx context.Context, emotionKey string) ([]StarGenStar, error)
}

type starGenClient struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
	apiKey     string
}

func NewStarGenClient(log *logger.Logger) (StarGenClient, error) {
	serviceLog := log.With("service", "StarGenClient")
	baseURL := utils.GetEnv("STARGEN_BASE_URL", "", log)
	if baseURL == "" {
		return nil, fmt.Errorf("STARGEN_BASE_URL is not set")
	}
	apiKey := utils.GetEnv("STARGEN_API_KEY", "", log)
	timeoutSec := utils.GetEnvAsInt("STARGEN_TIMEOUT_SECONDS", 30, log)
	return &starGenClient{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		log:     serviceLog,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (c *starGenClient) GenerateStars(ctx context.Context, emotionKey string) ([]StarGenStar, error) {
	payload := map[string]string{"emotion": emotionKey}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/emotions/stars", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStarGenUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrStarGenUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrStarGenUnavailable, resp.StatusCode, string(body))
	}

	var out starGenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrStarGenUnavailable, err)
	}
	if !out.Success || len(out.Stars) == 0 {
		return nil, fmt.Errorf("%w: generator returned no stars", ErrStarGenUnavailable)
	}
	return out.Stars, nil
}
