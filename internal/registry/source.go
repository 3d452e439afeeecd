package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Source provides the raw delegation statistics of one registry.
type Source interface {
	// Stats returns the stats exchange text of a concrete registry.
	Stats(ctx context.Context, r Registry) (string, error)
}

// Fetch returns the stats text for r. For All the registries are fetched
// concurrently and their text is concatenated in Registries order.
func Fetch(ctx context.Context, src Source, r Registry) (string, error) {
	regs := r.Expand()
	texts := make([]string, len(regs))

	g, ctx := errgroup.WithContext(ctx)
	for i, reg := range regs {
		g.Go(func() error {
			text, err := src.Stats(ctx, reg)
			if err != nil {
				return fmt.Errorf("fetching %s stats: %w", reg, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, text := range texts {
		sb.WriteString(text)
		if text != "" && !strings.HasSuffix(text, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// HTTPSource downloads stats files from the registries' FTP-over-HTTP
// mirrors.
type HTTPSource struct {
	client *http.Client
	urls   map[Registry]string
}

// NewHTTPSource creates a source using client, or a client with the given
// timeout when client is nil.
func NewHTTPSource(client *http.Client, timeout time.Duration) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	urls := make(map[Registry]string, len(statsURLs))
	for r, u := range statsURLs {
		urls[r] = u
	}
	return &HTTPSource{client: client, urls: urls}
}

// WithURL overrides the URL fetched for r.
func (s *HTTPSource) WithURL(r Registry, url string) *HTTPSource {
	s.urls[r] = url
	return s
}

// Stats downloads the stats file of r.
func (s *HTTPSource) Stats(ctx context.Context, r Registry) (string, error) {
	url, ok := s.urls[r]
	if !ok {
		return "", fmt.Errorf("%w: no stats URL for %s", ErrUnknown, r)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	slog.Debug("stats downloaded",
		"registry", r.String(),
		"url", url,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return string(body), nil
}

// ObserveFunc receives the outcome of each Stats call of an observed source.
type ObserveFunc func(r Registry, err error, d time.Duration)

type observedSource struct {
	src     Source
	observe ObserveFunc
}

// Observed wraps src so that observe is called after every fetch.
func Observed(src Source, observe ObserveFunc) Source {
	return &observedSource{src: src, observe: observe}
}

func (s *observedSource) Stats(ctx context.Context, r Registry) (string, error) {
	start := time.Now()
	text, err := s.src.Stats(ctx, r)
	s.observe(r, err, time.Since(start))
	return text, err
}
