package routes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/TomasB/rirroutes/internal/aggregate"
	"github.com/TomasB/rirroutes/internal/metrics"
	"github.com/TomasB/rirroutes/internal/registry"
)

// mockSource implements registry.Source for testing.
type mockSource struct {
	stats map[registry.Registry]string
	err   error
}

func (m *mockSource) Stats(_ context.Context, r registry.Registry) (string, error) {
	return m.stats[r], m.err
}

func newMockSource() *mockSource {
	return &mockSource{stats: map[registry.Registry]string{
		registry.APNIC: "apnic|CN|ipv4|1.0.1.0|256|20110414|allocated\n" +
			"apnic|CN|ipv4|1.0.2.0|512|20110414|allocated\n" +
			"apnic|CN|ipv6|2001:250::|31|20000426|allocated\n",
		registry.RIPE: "ripencc|DE|ipv4|2.16.0.0|256|20100712|allocated\n" +
			"ripencc|CN|ipv4|1.0.4.0|1024|20100712|allocated\n",
	}}
}

func TestGenerateText(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "single registry",
			req:  Request{Countries: "CN", Registry: "apnic"},
			want: "1.0.1.0/24\n1.0.2.0/23\n",
		},
		{
			name: "all registries merge across files",
			req:  Request{Countries: "CN", Registry: "All"},
			want: "1.0.1.0/24\n1.0.2.0/23\n1.0.4.0/22\n",
		},
		{
			name: "excluding",
			req:  Request{Countries: "!CN", Registry: "ripe"},
			want: "2.16.0.0/24\n",
		},
		{
			name: "ipv6",
			req:  Request{Countries: "cn", Registry: "APNIC", Family: "ipv6"},
			want: "2001:250::/31\n",
		},
	}

	g := NewGenerator(newMockSource(), metrics.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.GenerateText(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGenerate_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "missing countries", req: Request{Registry: "apnic"}},
		{name: "invalid country", req: Request{Countries: "C1N", Registry: "apnic"}},
		{name: "unknown registry", req: Request{Countries: "CN", Registry: "iana"}},
		{name: "unknown family", req: Request{Countries: "CN", Registry: "apnic", Family: "asn"}},
		{name: "nothing matched", req: Request{Countries: "FR", Registry: "apnic"}},
	}

	g := NewGenerator(newMockSource(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsBadRequest(err) {
				t.Errorf("expected bad request error, got %v", err)
			}
		})
	}
}

func TestGenerate_Malformed(t *testing.T) {
	src := &mockSource{stats: map[registry.Registry]string{
		registry.ARIN: "arin|US|ipv4|10.0.0|256|0|allocated\n",
	}}

	_, err := NewGenerator(src, nil).Generate(context.Background(), Request{Countries: "US", Registry: "arin"})
	var malformed *aggregate.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if !IsBadRequest(err) {
		t.Error("expected malformed input to be a bad request")
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	src := &mockSource{err: fmt.Errorf("connection reset")}

	_, err := NewGenerator(src, nil).Generate(context.Background(), Request{Countries: "CN", Registry: "apnic"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if IsBadRequest(err) {
		t.Error("upstream failure must not be a bad request")
	}
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(newMockSource(), nil).Generate(ctx, Request{Countries: "CN", Registry: "apnic"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
