package check

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/TomasB/rirroutes/internal/aggregate"
	"github.com/TomasB/rirroutes/internal/data"
	"github.com/TomasB/rirroutes/internal/handler/generate"
	"github.com/TomasB/rirroutes/internal/routes"
	"github.com/gaissmai/bart"
	"github.com/gin-gonic/gin"
)

// CheckRequest represents the JSON body for a route check.
type CheckRequest struct {
	IP        string `json:"ip" binding:"required"`
	Countries string `json:"countries" binding:"required"`
	Registry  string `json:"registry"`
}

// CheckResponse represents the JSON response for a route check.
type CheckResponse struct {
	Covered     bool   `json:"covered"`
	Prefix      string `json:"prefix,omitempty"`
	GeoCountry  string `json:"geo_country,omitempty"`
	RouteBlocks int    `json:"route_blocks"`
	Error       string `json:"error"`
}

// Generator produces aggregated route tables.
type Generator interface {
	Generate(ctx context.Context, req routes.Request) (*aggregate.Result, error)
}

// Handler answers whether an address falls inside a generated route table.
type Handler struct {
	gen    Generator
	lookup data.CountryLookup
}

// NewHandler creates a new check handler. lookup may be nil, in which case
// no geolocation country is reported.
func NewHandler(gen Generator, lookup data.CountryLookup) *Handler {
	return &Handler{gen: gen, lookup: lookup}
}

// Check handles POST /api/v1/check
func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CheckResponse{
			Error: "invalid request: " + err.Error(),
		})
		return
	}

	slog.Debug("check request received", "ip", req.IP, "countries", req.Countries, "registry", req.Registry)

	addr, err := netip.ParseAddr(req.IP)
	if err != nil {
		c.JSON(http.StatusBadRequest, CheckResponse{
			Error: "invalid IP address",
		})
		return
	}
	addr = addr.Unmap().WithZone("")

	family := aggregate.IPv4.Tag
	if addr.Is6() {
		family = aggregate.IPv6.Tag
	}

	res, err := h.gen.Generate(c.Request.Context(), routes.Request{
		Countries: req.Countries,
		Registry:  req.Registry,
		Family:    family,
	})
	if err != nil {
		status := generate.StatusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("route generation failed", "ip", req.IP, "error", err)
		}
		c.JSON(status, CheckResponse{
			Error: err.Error(),
		})
		return
	}

	resp := CheckResponse{RouteBlocks: len(res.Blocks)}
	if pfx, ok := routeTable(res).Lookup(addr); ok {
		resp.Covered = true
		resp.Prefix = pfx.String()
	}

	if h.lookup != nil {
		country, err := h.lookup.LookupCountry(addr)
		if err != nil {
			slog.Warn("geolocation lookup failed", "ip", req.IP, "error", err)
		} else {
			resp.GeoCountry = country
		}
	}

	c.JSON(http.StatusOK, resp)
}

func routeTable(res *aggregate.Result) *bart.Table[netip.Prefix] {
	tbl := new(bart.Table[netip.Prefix])
	for _, b := range res.Blocks {
		pfx := b.Prefix(res.Family)
		tbl.Insert(pfx, pfx)
	}
	return tbl
}
