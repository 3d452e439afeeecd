package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/TomasB/rirroutes/internal/handler/generate"
	"github.com/TomasB/rirroutes/internal/routes"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Handler implements RouteServiceServer.
type Handler struct {
	gen generate.Generator
}

// NewHandler creates a new gRPC handler backed by gen.
func NewHandler(gen generate.Generator) *Handler {
	return &Handler{gen: gen}
}

// Generate returns the route table for the requested countries.
func (h *Handler) Generate(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := req.GetFields()
	r := routes.Request{
		Countries: fields["countries"].GetStringValue(),
		Registry:  fields["registry"].GetStringValue(),
		Family:    fields["family"].GetStringValue(),
	}
	if r.Countries == "" {
		return nil, status.Error(codes.InvalidArgument, "countries is required")
	}

	text, err := h.gen.GenerateText(ctx, r)
	if err != nil {
		code := codeFor(err)
		if code == codes.Internal || code == codes.Unavailable {
			slog.Error("route generation failed", "error", err)
		}
		return nil, status.Error(code, err.Error())
	}

	return wrapperspb.String(text), nil
}

func codeFor(err error) codes.Code {
	switch {
	case routes.IsBadRequest(err):
		return codes.InvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, routes.ErrUpstream):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
