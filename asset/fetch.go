package asset

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ViBiOh/httputils/v4/pkg/httpjson"
	"github.com/ViBiOh/httputils/v4/pkg/request"
	"golang.org/x/sync/semaphore"
)

// Fetcher performs GET requests against asset hosts. Concurrent requests are bounded
// process-wide and every request has its own timeout.
type Fetcher struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

func NewFetcher(concurrency int, timeout time.Duration) Fetcher {
	if concurrency <= 0 {
		concurrency = 1
	}

	return Fetcher{
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
	}
}

func (f Fetcher) get(ctx context.Context, url string) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)

	if err := f.sem.Acquire(ctx, 1); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("acquire: %w", err)
	}

	resp, err := request.New().URL(url).Method(http.MethodGet).Send(ctx, nil)

	// the response body is bound to the timeout context, hence the release on cancel
	release := func() {
		cancel()
		f.sem.Release(1)
	}

	if err != nil {
		release()
		return nil, nil, fmt.Errorf("get `%s`: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = request.DiscardBody(resp.Body)
		release()
		return nil, nil, fmt.Errorf("get `%s`: unexpected status %d", url, resp.StatusCode)
	}

	return resp, release, nil
}

// Bytes returns the body of a successful GET
func (f Fetcher) Bytes(ctx context.Context, url string) ([]byte, error) {
	resp, release, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	defer release()

	payload, err := request.ReadBodyResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("read `%s`: %w", url, err)
	}

	return payload, nil
}

func fetchJSON[T any](ctx context.Context, fetcher Fetcher, url string) (T, error) {
	var output T

	resp, release, err := fetcher.get(ctx, url)
	if err != nil {
		return output, err
	}

	defer release()

	err = httpjson.Read(resp, &output)

	return output, err
}
