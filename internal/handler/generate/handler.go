package generate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/TomasB/rirroutes/internal/routes"
	"github.com/gin-gonic/gin"
)

// Generator produces a textual route table.
type Generator interface {
	GenerateText(ctx context.Context, req routes.Request) (string, error)
}

// Handler serves route tables generated from registry stats.
type Handler struct {
	gen     Generator
	timeout time.Duration
}

// NewHandler creates a generate handler. A zero timeout disables the
// per-request deadline.
func NewHandler(gen Generator, timeout time.Duration) *Handler {
	return &Handler{gen: gen, timeout: timeout}
}

// Generate handles GET /generate?countries=<spec>&registry=<name>&family=<ipv4|ipv6>
func (h *Handler) Generate(c *gin.Context) {
	req := routes.Request{
		Countries: c.Query("countries"),
		Registry:  c.Query("registry"),
		Family:    c.Query("family"),
	}

	slog.Debug("generate request received",
		"countries", req.Countries,
		"registry", req.Registry,
		"family", req.Family,
	)

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	text, err := h.gen.GenerateText(ctx, req)
	if err != nil {
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			slog.Error("route generation failed", "error", err)
		}
		c.String(status, "%s\n", err.Error())
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// StatusFor maps a generation error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case routes.IsBadRequest(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, routes.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
