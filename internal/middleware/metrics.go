package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
)

// RPCRecorder receives one observation per finished RPC.
type RPCRecorder interface {
	ObserveRPC(procedure, code string, duration time.Duration)
}

// MetricsInterceptor returns a Connect interceptor that reports every RPC to rec.
// Successful calls are recorded with code "ok".
func MetricsInterceptor(rec RPCRecorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			rec.ObserveRPC(req.Spec().Procedure, code, time.Since(start))

			return resp, err
		}
	}
}
