package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/quicksplit/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, the split it targets, duration and result code.
// Client errors (a *connect.Error) log at Warn; anything else at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := requestAttrs(req)
			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())

			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr):
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				slog.Warn("RPC rejected", attrs...)
			default:
				attrs = append(attrs, "error", err)
				slog.Error("RPC failed", attrs...)
			}

			return resp, err
		}
	}
}

// requestAttrs describes req for the log line. split_id is included for
// requests scoped to an existing split.
func requestAttrs(req connect.AnyRequest) []any {
	attrs := []any{"procedure", req.Spec().Procedure}
	if scoped, ok := req.Any().(api.SplitScoped); ok {
		attrs = append(attrs, "split_id", scoped.GetSplitID())
	}
	if peer := req.Peer().Addr; peer != "" {
		attrs = append(attrs, "peer", peer)
	}
	return attrs
}
