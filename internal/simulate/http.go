package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/pkg/logger"
)

// Submission outcomes.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// httpClient wraps http.Client with JSON helpers bound to one base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON performs a GET and decodes a 200 response into dst.
func (c *httpClient) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// postJSON performs a POST with a JSON body and returns status and body.
func (c *httpClient) postJSON(ctx context.Context, path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	return resp.StatusCode, out, err
}

type speciesItem struct {
	Name string `json:"name"`
}

// fetchBirds lists catalog species names from the server.
func (c *httpClient) fetchBirds(ctx context.Context) ([]string, error) {
	var items []speciesItem
	if err := c.getJSON(ctx, "/catalog", &items); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names, nil
}

// weeklyPoints reads a player's current-week total.
func (c *httpClient) weeklyPoints(ctx context.Context, user string) (int, error) {
	var st types.UserStats
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(user)+"/stats", &st); err != nil {
		return 0, err
	}
	return st.WeeklyPoints, nil
}

// weeklyLeaderboard fetches the current standings.
func (c *httpClient) weeklyLeaderboard(ctx context.Context) ([]types.Entry, error) {
	var entries []types.Entry
	if err := c.getJSON(ctx, "/leaderboard/weekly", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

type confirmResponse struct {
	Status string `json:"status"`
	User   string `json:"user"`
	Points int    `json:"points"`
}

// submitSightings posts sightings concurrently with a worker pool and
// returns the points the server acknowledged per player.
func submitSightings(ctx context.Context, c *httpClient, workers int, sightings []Sighting, stats *Stats, log logger.Logger) map[string]int {
	var (
		submitted, accepted, duplicate, failed, points int64

		mu      sync.Mutex
		awarded = make(map[string]int)
	)

	jobs := make(chan Sighting, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				outcome, resp := submitOne(ctx, c, s)
				atomic.AddInt64(&submitted, 1)
				switch outcome {
				case outcomeAccepted:
					atomic.AddInt64(&accepted, 1)
					atomic.AddInt64(&points, int64(resp.Points))
					mu.Lock()
					awarded[resp.User] += resp.Points
					mu.Unlock()
				case outcomeDuplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, s := range sightings {
			select {
			case <-ctx.Done():
				return
			case jobs <- s:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted)
	stats.Accepted = int(accepted)
	stats.Duplicate = int(duplicate)
	stats.Failed = int(failed)
	stats.Points = int(points)

	log.Info(ctx, "submission completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed))
	return awarded
}

// submitOne posts a single sighting and classifies the response.
func submitOne(ctx context.Context, c *httpClient, s Sighting) (string, confirmResponse) {
	var resp confirmResponse
	status, body, err := c.postJSON(ctx, "/sightings", s)
	if err != nil {
		return outcomeFailed, resp
	}
	switch status {
	case http.StatusCreated:
		if err := json.Unmarshal(body, &resp); err != nil {
			return outcomeFailed, resp
		}
		return outcomeAccepted, resp
	case http.StatusOK:
		return outcomeDuplicate, resp
	default:
		return outcomeFailed, resp
	}
}
