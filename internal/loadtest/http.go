package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

// Client issues requests against one server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Health returns nil when /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Activities fetches the directory.
func (c *Client) Activities(ctx context.Context) (types.Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list activities returned status %d", resp.StatusCode)
	}

	var d types.Directory
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return d, nil
}

// Do issues one roster request and returns the HTTP status.
func (c *Client) Do(ctx context.Context, job Job) (int, error) {
	target := c.baseURL + "/activities/" + url.PathEscape(job.Activity) + "/" + string(job.Op) +
		"?email=" + url.QueryEscape(job.Email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// submit runs jobs through a pool of workers and tallies the statuses.
func submit(ctx context.Context, cfg *Config, client *Client, jobs []Job) Outcome {
	var ok, rejected, failed atomic.Int64

	jobChan := make(chan Job, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobChan {
				status, err := client.Do(ctx, job)
				switch {
				case err != nil:
					failed.Add(1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "request failed",
							logger.Int("worker", workerID),
							logger.String("op", string(job.Op)),
							logger.Error(err))
					}
				case status == http.StatusOK:
					ok.Add(1)
				case status == http.StatusBadRequest:
					rejected.Add(1)
				default:
					failed.Add(1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "unexpected status",
							logger.Int("worker", workerID),
							logger.String("op", string(job.Op)),
							logger.String("activity", job.Activity),
							logger.Int("status", status))
					}
				}
			}
		}(i)
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()

	return Outcome{
		OK:       int(ok.Load()),
		Rejected: int(rejected.Load()),
		Failed:   int(failed.Load()),
	}
}
