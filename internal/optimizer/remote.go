package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"routegraph/internal/domain"
)

// ErrOptimizerFailed wraps every failure talking to a remote optimizer
var ErrOptimizerFailed = errors.New("optimizer failed")

// maxResponseBytes bounds how much of an optimizer response is read
const maxResponseBytes = 4 << 20

// Remote posts the graph to an HTTP optimizer.
//
// Request body:
//
//	{"markers": [[lat, lng], ...], "edges": [[from, to, weight], ...]}
//
// Expected response:
//
//	{"path": [2, 0, 1]}
type Remote struct {
	URL    string
	Client *http.Client
}

// NewRemote creates a remote optimizer with its own bounded HTTP client
func NewRemote(url string, timeout time.Duration) *Remote {
	return &Remote{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type remoteRequest struct {
	Markers [][2]float64 `json:"markers"`
	Edges   [][3]float64 `json:"edges"`
}

type remoteResponse struct {
	Path []int `json:"path"`
}

// Optimize sends p to the remote optimizer and validates the returned path
func (r *Remote) Optimize(ctx context.Context, p Problem) (domain.Path, error) {
	req := remoteRequest{
		Markers: make([][2]float64, len(p.Markers)),
		Edges:   make([][3]float64, len(p.Edges)),
	}
	for i, c := range p.Markers {
		req.Markers[i] = c.Pair()
	}
	for i, e := range p.Edges {
		req.Edges[i] = e.Triple()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrOptimizerFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrOptimizerFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOptimizerFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrOptimizerFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrOptimizerFailed, resp.StatusCode, bytes.TrimSpace(data))
	}

	var out remoteResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrOptimizerFailed, err)
	}
	if out.Path == nil {
		return nil, fmt.Errorf("%w: response has no path", ErrOptimizerFailed)
	}

	path := domain.Path(out.Path)
	if err := path.Validate(len(p.Markers)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOptimizerFailed, err)
	}
	return path, nil
}
