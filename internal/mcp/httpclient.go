package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/mapty/internal/render"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
)

// HTTPClient implements DataSource by calling the Mapty REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the log lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// is sent as X-API-Key on every request when set.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, form url.Values, want int) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case want:
		return data, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, workout.ErrNotFound)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("httpclient: %s: %w: %s", path, workout.ErrInvalidInput, data)
	}
	return nil, fmt.Errorf("httpclient: %s %s returned %d: %s", method, path, resp.StatusCode, data)
}

func workoutPath(id string) string {
	return "/api/v1/workouts/" + url.PathEscape(id)
}

func (c *HTTPClient) ListWorkouts(ctx context.Context) ([]render.View, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/workouts", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var views []render.View
	if err := json.Unmarshal(body, &views); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return views, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (render.View, error) {
	body, err := c.do(ctx, http.MethodGet, workoutPath(id), nil, http.StatusOK)
	if err != nil {
		return render.View{}, err
	}

	var view render.View
	if err := json.Unmarshal(body, &view); err != nil {
		return render.View{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return view, nil
}

func (c *HTTPClient) LogWorkout(ctx context.Context, in tracker.Input) (render.View, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", inputForm(in), http.StatusCreated)
	if err != nil {
		return render.View{}, err
	}

	var view render.View
	if err := json.Unmarshal(body, &view); err != nil {
		return render.View{}, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return view, nil
}

func (c *HTTPClient) DeleteWorkout(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, workoutPath(id), nil, http.StatusNoContent)
	return err
}

// inputForm encodes in as the form the POST /workouts handler reads.
func inputForm(in tracker.Input) url.Values {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	attrField := "cadence"
	if in.Kind == workout.Cycling {
		attrField = "elevation"
	}
	return url.Values{
		"type":     {string(in.Kind)},
		"lat":      {num(in.Coords.Lat)},
		"lng":      {num(in.Coords.Lng)},
		"distance": {num(in.DistanceKm)},
		"duration": {num(in.DurationMin)},
		attrField:  {num(in.Attr)},
	}
}
