// Package camsource supplies worker.FrameSource implementations. HTTPSource
// is grounded on the teacher's weapon-detection poller (cmd/ai-service,
// since removed) which pulled frames from a VMS REST endpoint on a fixed
// interval; here the same GET-and-decode loop backs any camera whose
// source_url is an HTTP snapshot endpoint rather than an RTSP stream.
package camsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSource pulls one still image per NextFrame call from a fixed URL
// (an MJPEG snapshot endpoint, a webcam relay, or similar). It never
// buffers frames: a slow consumer just gets a fresher image next call.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) NextFrame(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("camsource: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("camsource: fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camsource: snapshot endpoint returned %s", resp.Status)
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("camsource: read snapshot body: %w", err)
	}
	return frame, nil
}

func (s *HTTPSource) Close() error { return nil }
