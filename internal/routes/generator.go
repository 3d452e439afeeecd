// Package routes ties option resolution, stats fetching and aggregation
// together for the transports.
package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TomasB/rirroutes/internal/aggregate"
	"github.com/TomasB/rirroutes/internal/metrics"
	"github.com/TomasB/rirroutes/internal/options"
	"github.com/TomasB/rirroutes/internal/registry"
)

// ErrUpstream marks failures to obtain registry stats.
var ErrUpstream = errors.New("upstream stats unavailable")

// Request carries the raw, unvalidated generation options.
type Request struct {
	Countries string
	Registry  string
	Family    string
}

// Query is a resolved Request.
type Query struct {
	Filter   aggregate.CountryFilter
	Registry registry.Registry
	Family   aggregate.Family
}

// Resolve validates the options of r.
func (r Request) Resolve() (Query, error) {
	filter, err := options.ParseCountries(r.Countries)
	if err != nil {
		return Query{}, err
	}
	reg, err := registry.Parse(r.Registry)
	if err != nil {
		return Query{}, err
	}
	fam, err := aggregate.ParseFamily(r.Family)
	if err != nil {
		return Query{}, err
	}
	return Query{Filter: filter, Registry: reg, Family: fam}, nil
}

// IsBadRequest reports whether err was caused by the caller's input or by
// input data the aggregation rejected.
func IsBadRequest(err error) bool {
	var malformed *aggregate.MalformedInputError
	return errors.Is(err, options.ErrInvalidCountry) ||
		errors.Is(err, registry.ErrUnknown) ||
		errors.Is(err, aggregate.ErrUnknownFamily) ||
		errors.Is(err, aggregate.ErrEmptyInput) ||
		errors.As(err, &malformed)
}

// Generator builds route tables from a stats source.
type Generator struct {
	src     registry.Source
	metrics *metrics.Metrics
}

// NewGenerator creates a generator. m may be nil.
func NewGenerator(src registry.Source, m *metrics.Metrics) *Generator {
	return &Generator{src: src, metrics: m}
}

// Generate resolves req, fetches the stats it names and aggregates them.
func (g *Generator) Generate(ctx context.Context, req Request) (*aggregate.Result, error) {
	q, err := req.Resolve()
	if err != nil {
		g.observe("invalid", "invalid", metrics.ResultBadRequest, nil)
		return nil, err
	}

	raw, err := registry.Fetch(ctx, g.src, q.Registry)
	if err != nil {
		g.observe(q.Registry.String(), q.Family.Tag, metrics.ResultUpstreamError, nil)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	res, err := aggregate.Run(raw, q.Family, q.Filter)
	if err != nil {
		g.observe(q.Registry.String(), q.Family.Tag, metrics.ResultBadRequest, nil)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("route table generated",
		"registry", q.Registry.String(),
		"family", q.Family.Tag,
		"records", res.Records,
		"blocks", len(res.Blocks),
	)
	g.observe(q.Registry.String(), q.Family.Tag, metrics.ResultOK, res)
	return res, nil
}

// GenerateText is Generate followed by rendering the table as text.
func (g *Generator) GenerateText(ctx context.Context, req Request) (string, error) {
	res, err := g.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return aggregate.Format(res.Blocks, res.Family), nil
}

func (g *Generator) observe(reg, fam, result string, res *aggregate.Result) {
	if g.metrics == nil {
		return
	}
	var records, blocks int
	if res != nil {
		records, blocks = res.Records, len(res.Blocks)
	}
	g.metrics.ObserveGeneration(reg, fam, result, records, blocks)
}
